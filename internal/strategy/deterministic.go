package strategy

import (
	"math/rand"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
)

// Cooperator always cooperates.
func Cooperator() Builder {
	return newBuilder("Cooperator", func() Strategy { return cooperator{} })
}

type cooperator struct{}

func (cooperator) Name() string { return "Cooperator" }
func (cooperator) Decide(_ *rand.Rand, _, _ game.History) game.Action {
	return game.Cooperate
}

// Defector always defects.
func Defector() Builder {
	return newBuilder("Defector", func() Strategy { return defector{} })
}

type defector struct{}

func (defector) Name() string { return "Defector" }
func (defector) Decide(_ *rand.Rand, _, _ game.History) game.Action {
	return game.Defect
}

// TitForTat cooperates first, then mirrors the opponent's previous move.
func TitForTat() Builder {
	return newBuilder("TitForTat", func() Strategy { return titForTat{} })
}

type titForTat struct{}

func (titForTat) Name() string { return "TitForTat" }
func (titForTat) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	last, ok := own.Last()
	if !ok {
		return game.Cooperate
	}
	return last.Opponent
}

// SuspiciousTitForTat is TitForTat with a defecting opening move.
func SuspiciousTitForTat() Builder {
	return newBuilder("SuspiciousTitForTat", func() Strategy { return suspiciousTFT{} })
}

type suspiciousTFT struct{}

func (suspiciousTFT) Name() string { return "SuspiciousTitForTat" }
func (suspiciousTFT) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	last, ok := own.Last()
	if !ok {
		return game.Defect
	}
	return last.Opponent
}

// TitForTwoTats defects only after two consecutive opponent defections.
func TitForTwoTats() Builder {
	return newBuilder("TitForTwoTats", func() Strategy { return titForTwoTats{} })
}

type titForTwoTats struct{}

func (titForTwoTats) Name() string { return "TitForTwoTats" }
func (titForTwoTats) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	n := len(own)
	if n >= 2 && own[n-1].Opponent == game.Defect && own[n-2].Opponent == game.Defect {
		return game.Defect
	}
	return game.Cooperate
}

// TwoTitsForTat answers each opponent defection with two defections.
func TwoTitsForTat() Builder {
	return newBuilder("TwoTitsForTat", func() Strategy { return twoTitsForTat{} })
}

type twoTitsForTat struct{}

func (twoTitsForTat) Name() string { return "TwoTitsForTat" }
func (twoTitsForTat) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	if own.OpponentDefectedIn(2) {
		return game.Defect
	}
	return game.Cooperate
}

// GrimTrigger cooperates until the opponent's first defection, then
// defects forever. The trigger is one-way.
func GrimTrigger() Builder {
	return newBuilder("GrimTrigger", func() Strategy { return &grimTrigger{} })
}

type grimTrigger struct {
	triggered bool
}

func (*grimTrigger) Name() string { return "GrimTrigger" }
func (s *grimTrigger) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	if s.triggered {
		return game.Defect
	}
	if last, ok := own.Last(); ok && last.Opponent == game.Defect {
		s.triggered = true
		return game.Defect
	}
	return game.Cooperate
}

// DiscriminatingAltruist cooperates with anyone who has never defected
// against it and refuses to cooperate with anyone who has. Behaviorally
// equivalent to GrimTrigger but framed as a ledger over the whole
// history rather than a trigger bit.
func DiscriminatingAltruist() Builder {
	return newBuilder("DiscriminatingAltruist", func() Strategy { return discriminatingAltruist{} })
}

type discriminatingAltruist struct{}

func (discriminatingAltruist) Name() string { return "DiscriminatingAltruist" }
func (discriminatingAltruist) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	if own.OpponentDefections() > 0 {
		return game.Defect
	}
	return game.Cooperate
}

// Pavlov (win-stay-lose-shift) repeats its previous action after a good
// outcome (opponent cooperated) and switches after a bad one.
func Pavlov() Builder {
	return newBuilder("Pavlov", func() Strategy { return pavlov{} })
}

type pavlov struct{}

func (pavlov) Name() string { return "Pavlov" }
func (pavlov) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	last, ok := own.Last()
	if !ok {
		return game.Cooperate
	}
	if last.Opponent == game.Cooperate {
		return last.Own
	}
	if last.Own == game.Cooperate {
		return game.Defect
	}
	return game.Cooperate
}

// GradualTitForTat retaliates with an escalating run of defections, one
// per opponent defection observed so far, then apologizes with two
// cooperations before returning to normal play.
func GradualTitForTat() Builder {
	return newBuilder("GradualTitForTat", func() Strategy { return &gradualTFT{} })
}

type gradualTFT struct {
	retaliating int
	apologizing int
}

func (*gradualTFT) Name() string { return "GradualTitForTat" }
func (s *gradualTFT) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	if s.retaliating > 0 {
		s.retaliating--
		if s.retaliating == 0 {
			s.apologizing = 2
		}
		return game.Defect
	}
	if s.apologizing > 0 {
		s.apologizing--
		return game.Cooperate
	}
	last, ok := own.Last()
	if !ok || last.Opponent == game.Cooperate {
		return game.Cooperate
	}
	// Run length equals total opponent defections, this one included.
	s.retaliating = own.OpponentDefections() - 1
	if s.retaliating == 0 {
		s.apologizing = 2
	}
	return game.Defect
}

// Omega TFT defaults, tuned for 100-round matches.
const (
	DefaultDeadlockThreshold   = 3
	DefaultRandomnessThreshold = 8
)

// OmegaTFT plays TitForTat with two escape hatches: a deadlock counter
// that breaks CD/DC echo loops with a unilateral cooperation, and a
// randomness counter that gives up on unreadable opponents by switching
// to permanent defection. The all-defect state is terminal.
func OmegaTFT(deadlockThreshold, randomnessThreshold int) Builder {
	if deadlockThreshold <= 0 {
		deadlockThreshold = DefaultDeadlockThreshold
	}
	if randomnessThreshold <= 0 {
		randomnessThreshold = DefaultRandomnessThreshold
	}
	return newBuilder("OmegaTFT", func() Strategy {
		return &omegaTFT{
			deadlockThreshold:   deadlockThreshold,
			randomnessThreshold: randomnessThreshold,
		}
	})
}

type omegaTFT struct {
	deadlockThreshold   int
	randomnessThreshold int
	deadlock            int
	randomness          int
	allDefect           bool
}

func (*omegaTFT) Name() string { return "OmegaTFT" }
func (s *omegaTFT) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	if s.allDefect {
		return game.Defect
	}
	last, ok := own.Last()
	if !ok {
		return game.Cooperate
	}
	// Update the counters with the round that just completed. Decide is
	// called exactly once per round, so incremental bookkeeping is safe.
	if n := len(own); n >= 2 {
		prev := own[n-2]
		if last.Opponent != prev.Opponent {
			s.randomness++
		}
	}
	if last.Own == last.Opponent {
		s.deadlock = 0
		if s.randomness > 0 {
			s.randomness--
		}
	} else {
		s.deadlock++
	}
	if s.randomness >= s.randomnessThreshold {
		s.allDefect = true
		return game.Defect
	}
	if s.deadlock >= s.deadlockThreshold {
		s.deadlock = 0
		return game.Cooperate
	}
	return last.Opponent
}

// AdaptivePavlov probe window length.
const pavlovProbeWindow = 6

// AdaptivePavlov opens with a TitForTat probe, classifies the opponent
// by its defection count over the probe window, then commits to a fixed
// policy: keep TitForTat against cooperators, defect forever against
// exploiters, and fall back to win-stay-lose-shift against everything
// in between.
func AdaptivePavlov() Builder {
	return newBuilder("AdaptivePavlov", func() Strategy { return &adaptivePavlov{} })
}

type adaptivePavlovPolicy uint8

const (
	policyProbing adaptivePavlovPolicy = iota
	policyTitForTat
	policyAllDefect
	policyPavlov
)

type adaptivePavlov struct {
	policy adaptivePavlovPolicy
}

func (*adaptivePavlov) Name() string { return "AdaptivePavlov" }
func (s *adaptivePavlov) Decide(_ *rand.Rand, own, _ game.History) game.Action {
	if s.policy == policyProbing && len(own) >= pavlovProbeWindow {
		defections := 0
		for _, r := range own[:pavlovProbeWindow] {
			if r.Opponent == game.Defect {
				defections++
			}
		}
		switch {
		case defections <= 1:
			s.policy = policyTitForTat
		case defections >= 5:
			s.policy = policyAllDefect
		default:
			s.policy = policyPavlov
		}
	}
	switch s.policy {
	case policyAllDefect:
		return game.Defect
	case policyPavlov:
		return pavlov{}.Decide(nil, own, nil)
	default:
		return titForTat{}.Decide(nil, own, nil)
	}
}
