// Package strategy implements the decision units of the iterated
// prisoner's dilemma: every variant turns the visible history of a match
// into the next action. Randomness always flows through the injected
// generator so matches replay identically for a fixed seed.
//
// ARCHITECTURAL RULE: a Strategy instance belongs to exactly one match.
// Builders hand out fresh instances so internal state (trigger flags,
// retaliation counters) can never leak between matches.
package strategy

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
)

// Construction-time validation failures for strategy parameters.
var (
	ErrInvalidProbability     = errors.New("invalid probability")
	ErrInfeasibleZDParameters = errors.New("infeasible zero-determinant parameters")
)

// Strategy produces the next action for one player. Decide is called
// once per round with the histories of all strictly prior rounds; it may
// read its own private state and draw from rng, nothing else.
type Strategy interface {
	Name() string
	Decide(rng *rand.Rand, own, opp game.History) game.Action
}

// Builder is a validated factory for one strategy configuration.
// Validation happens when the Builder is created, so a malformed
// strategy can never enter a match; New hands out a fresh instance with
// zeroed internal state for every match.
type Builder struct {
	name string
	make func() Strategy
}

// Name identifies the configuration, parameters included.
func (b Builder) Name() string { return b.name }

// New returns a fresh strategy instance for a single match, or nil for
// a zero-value Builder that never went through a constructor.
func (b Builder) New() Strategy {
	if b.make == nil {
		return nil
	}
	return b.make()
}

func newBuilder(name string, make func() Strategy) Builder {
	return Builder{name: name, make: make}
}

func validProbability(p float64) bool {
	return p >= 0 && p <= 1
}

func checkProbability(label string, p float64) error {
	if !validProbability(p) {
		return fmt.Errorf("%w: %s=%v not in [0,1]", ErrInvalidProbability, label, p)
	}
	return nil
}

// cooperateWith draws Cooperate with probability p.
func cooperateWith(rng *rand.Rand, p float64) game.Action {
	if rng.Float64() < p {
		return game.Cooperate
	}
	return game.Defect
}
