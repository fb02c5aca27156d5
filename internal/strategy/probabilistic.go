package strategy

import (
	"fmt"
	"math/rand"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
)

// Random cooperates or defects with equal probability each round.
func Random() Builder {
	return newBuilder("Random", func() Strategy { return randomStrategy{} })
}

type randomStrategy struct{}

func (randomStrategy) Name() string { return "Random" }
func (randomStrategy) Decide(rng *rand.Rand, _, _ game.History) game.Action {
	return cooperateWith(rng, 0.5)
}

// ProbabilityCooperator cooperates with fixed probability p every round,
// history ignored.
func ProbabilityCooperator(p float64) (Builder, error) {
	if err := checkProbability("p", p); err != nil {
		return Builder{}, err
	}
	name := fmt.Sprintf("ProbabilityCooperator(%.2f)", p)
	return newBuilder(name, func() Strategy {
		return probabilityCooperator{name: name, p: p}
	}), nil
}

type probabilityCooperator struct {
	name string
	p    float64
}

func (s probabilityCooperator) Name() string { return s.name }
func (s probabilityCooperator) Decide(rng *rand.Rand, _, _ game.History) game.Action {
	return cooperateWith(rng, s.p)
}

// GenerousTitForTat mirrors the opponent but forgives a defection with
// probability g, derived once from the payoff matrix:
// g = min(1 - (T-R)/(R-S), (R-P)/(T-P)). At the Axelrod values g = 1/3,
// which is exactly the forgiveness level that keeps mutual cooperation
// stable against occasional noise without inviting exploitation.
func GenerousTitForTat(m game.Payoffs) (Builder, error) {
	if err := m.Validate(); err != nil {
		return Builder{}, err
	}
	g := min(1-(m.T-m.R)/(m.R-m.S), (m.R-m.P)/(m.T-m.P))
	if g < 0 {
		g = 0
	}
	name := fmt.Sprintf("GenerousTitForTat(g=%.3f)", g)
	return newBuilder(name, func() Strategy {
		return generousTFT{name: name, g: g}
	}), nil
}

type generousTFT struct {
	name string
	g    float64
}

func (s generousTFT) Name() string { return s.name }
func (s generousTFT) Decide(rng *rand.Rand, own, _ game.History) game.Action {
	last, ok := own.Last()
	if !ok || last.Opponent == game.Cooperate {
		return game.Cooperate
	}
	return cooperateWith(rng, s.g)
}

// ImperfectTitForTat plays TitForTat but flips the intended move with
// the given error rate, modelling a trembling hand.
func ImperfectTitForTat(errorRate float64) (Builder, error) {
	if err := checkProbability("errorRate", errorRate); err != nil {
		return Builder{}, err
	}
	name := fmt.Sprintf("ImperfectTitForTat(%.2f)", errorRate)
	return newBuilder(name, func() Strategy {
		return imperfectTFT{name: name, errorRate: errorRate}
	}), nil
}

type imperfectTFT struct {
	name      string
	errorRate float64
}

func (s imperfectTFT) Name() string { return s.name }
func (s imperfectTFT) Decide(rng *rand.Rand, own, _ game.History) game.Action {
	intended := game.Cooperate
	if last, ok := own.Last(); ok {
		intended = last.Opponent
	}
	if rng.Float64() < s.errorRate {
		if intended == game.Cooperate {
			return game.Defect
		}
		return game.Cooperate
	}
	return intended
}

// Reactive opens cooperating with probability y, then cooperates with
// probability p after an opponent cooperation and q after a defection.
func Reactive(y, p, q float64) (Builder, error) {
	for _, c := range []struct {
		label string
		v     float64
	}{{"y", y}, {"p", p}, {"q", q}} {
		if err := checkProbability(c.label, c.v); err != nil {
			return Builder{}, err
		}
	}
	name := fmt.Sprintf("Reactive(%.2f,%.2f,%.2f)", y, p, q)
	return newBuilder(name, func() Strategy {
		return reactive{name: name, y: y, p: p, q: q}
	}), nil
}

type reactive struct {
	name    string
	y, p, q float64
}

func (s reactive) Name() string { return s.name }
func (s reactive) Decide(rng *rand.Rand, own, _ game.History) game.Action {
	last, ok := own.Last()
	if !ok {
		return cooperateWith(rng, s.y)
	}
	if last.Opponent == game.Cooperate {
		return cooperateWith(rng, s.p)
	}
	return cooperateWith(rng, s.q)
}

// MemoryOne conditions each move on the previous round's joint outcome:
// cooperate with probability p after CC, q after CD, r after DC and
// s after DD (own action first). The opening round uses the opening
// cooperation probability. This shape also carries every derived
// zero-determinant vector.
func MemoryOne(p, q, r, s, opening float64) (Builder, error) {
	name := fmt.Sprintf("MemoryOne(%.2f,%.2f,%.2f,%.2f)", p, q, r, s)
	return memoryOneBuilder(name, [4]float64{p, q, r, s}, opening)
}

func memoryOneBuilder(name string, probs [4]float64, opening float64) (Builder, error) {
	for i, label := range [4]string{"p", "q", "r", "s"} {
		if err := checkProbability(label, probs[i]); err != nil {
			return Builder{}, err
		}
	}
	if err := checkProbability("opening", opening); err != nil {
		return Builder{}, err
	}
	return newBuilder(name, func() Strategy {
		return memoryOne{name: name, probs: probs, opening: opening}
	}), nil
}

type memoryOne struct {
	name    string
	probs   [4]float64 // indexed by outcome: CC, CD, DC, DD
	opening float64
}

func (s memoryOne) Name() string { return s.name }
func (s memoryOne) Decide(rng *rand.Rand, own, _ game.History) game.Action {
	last, ok := own.Last()
	if !ok {
		return cooperateWith(rng, s.opening)
	}
	idx := 0
	if last.Own == game.Defect {
		idx += 2
	}
	if last.Opponent == game.Defect {
		idx++
	}
	return cooperateWith(rng, s.probs[idx])
}
