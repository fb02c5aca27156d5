package strategy

import (
	"fmt"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
)

// ZDKind selects which linear relation a zero-determinant strategy
// enforces between the two players' long-run average payoffs.
type ZDKind uint8

const (
	// ZDEqualizer pins the opponent's average payoff to a target value
	// regardless of what the opponent plays.
	ZDEqualizer ZDKind = iota
	// ZDExtortionate enforces (own - P) = chi * (opp - P) with chi > 1:
	// any surplus over mutual punishment is split in this player's favor.
	ZDExtortionate
	// ZDGenerous enforces (own - R) = chi * (opp - R) with chi > 1: this
	// player absorbs a chi-sized share of any shortfall from mutual
	// cooperation.
	ZDGenerous
	// ZDGood enforces equal average payoffs, a fair TFT-like relation.
	ZDGood
)

func (k ZDKind) String() string {
	switch k {
	case ZDEqualizer:
		return "ZDEqualizer"
	case ZDExtortionate:
		return "ZDExtortionate"
	case ZDGenerous:
		return "ZDGenerous"
	case ZDGood:
		return "ZDGood"
	}
	return "ZDUnknown"
}

// Tolerance for derived probabilities that land marginally outside [0,1]
// from float arithmetic. Anything further out is a genuine infeasibility.
const zdEpsilon = 1e-9

// DeriveZD solves the Press-Dyson identity p~ = alpha*Sx + beta*Sy + gamma*1
// for the chosen relation, where p~ = (p1-1, p2-1, p3, p4),
// Sx = (R,S,T,P) and Sy = (R,T,S,P). The parameter is the equalizer
// target W for ZDEqualizer, the factor chi for ZDExtortionate and
// ZDGenerous, and ignored for ZDGood. phi scales how hard the relation
// is enforced; pass 0 to use half the maximum feasible value. Returns
// the memory-one probability vector (pCC, pCD, pDC, pDD).
func DeriveZD(m game.Payoffs, kind ZDKind, parameter, phi float64) ([4]float64, error) {
	if err := m.Validate(); err != nil {
		return [4]float64{}, err
	}

	var alpha, beta, gamma, maxPhi float64
	switch kind {
	case ZDEqualizer:
		w := parameter
		if w < m.P || w > m.R {
			return [4]float64{}, fmt.Errorf("%w: equalizer target %v outside [P=%v, R=%v]",
				ErrInfeasibleZDParameters, w, m.P, m.R)
		}
		// p2 >= 0 needs phi <= 1/(T-W); p3 <= 1 needs phi <= 1/(W-S).
		maxPhi = min(1/(m.T-w), 1/(w-m.S))
		if phi == 0 {
			phi = maxPhi / 2
		}
		alpha, beta, gamma = 0, -phi, phi*w
	case ZDExtortionate:
		chi := parameter
		if chi <= 1 {
			return [4]float64{}, fmt.Errorf("%w: extortion factor %v must exceed 1",
				ErrInfeasibleZDParameters, chi)
		}
		maxPhi = min(1/((m.P-m.S)+chi*(m.T-m.P)), 1/((m.T-m.P)+chi*(m.P-m.S)))
		if phi == 0 {
			phi = maxPhi / 2
		}
		alpha, beta, gamma = phi, -phi*chi, phi*(chi-1)*m.P
	case ZDGenerous:
		chi := parameter
		if chi <= 1 {
			return [4]float64{}, fmt.Errorf("%w: generosity factor %v must exceed 1",
				ErrInfeasibleZDParameters, chi)
		}
		maxPhi = min(
			1/((m.R-m.S)+chi*(m.T-m.R)),
			1/((m.T-m.R)+chi*(m.R-m.S)),
			1/((chi-1)*(m.R-m.P)))
		if phi == 0 {
			phi = maxPhi / 2
		}
		alpha, beta, gamma = phi, -phi*chi, phi*(chi-1)*m.R
	case ZDGood:
		maxPhi = 1 / (m.T - m.S)
		if phi == 0 {
			phi = maxPhi / 2
		}
		alpha, beta, gamma = phi, -phi, 0
	default:
		return [4]float64{}, fmt.Errorf("%w: unknown kind %d", ErrInfeasibleZDParameters, kind)
	}

	if phi <= 0 || phi > maxPhi+zdEpsilon {
		return [4]float64{}, fmt.Errorf("%w: phi=%v outside (0, %v]",
			ErrInfeasibleZDParameters, phi, maxPhi)
	}

	probs := [4]float64{
		1 + alpha*m.R + beta*m.R + gamma,
		1 + alpha*m.S + beta*m.T + gamma,
		alpha*m.T + beta*m.S + gamma,
		alpha*m.P + beta*m.P + gamma,
	}
	for i, p := range probs {
		if p < -zdEpsilon || p > 1+zdEpsilon {
			return [4]float64{}, fmt.Errorf("%w: derived p%d=%v outside [0,1]",
				ErrInfeasibleZDParameters, i+1, p)
		}
		probs[i] = min(1, max(0, p))
	}
	return probs, nil
}

// NewZD derives a zero-determinant vector and wraps it in the shared
// memory-one decision shape, opening with Cooperate.
func NewZD(m game.Payoffs, kind ZDKind, parameter, phi float64) (Builder, error) {
	probs, err := DeriveZD(m, kind, parameter, phi)
	if err != nil {
		return Builder{}, err
	}
	var name string
	if kind == ZDGood {
		name = "ZDGood"
	} else {
		name = fmt.Sprintf("%s(%.2f)", kind, parameter)
	}
	return memoryOneBuilder(name, probs, 1)
}
