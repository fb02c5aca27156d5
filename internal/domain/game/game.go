// Package game defines the core domain types for the iterated prisoner's
// dilemma: actions, the payoff matrix and per-round records.
// This package is PURE and must NOT import any infrastructure packages
// (network, events, platform).
package game

import (
	"errors"
	"fmt"
)

// Action is one of the two moves available to a player each round.
type Action uint8

const (
	Cooperate Action = iota
	Defect
)

// String returns the conventional single-letter notation.
func (a Action) String() string {
	if a == Cooperate {
		return "C"
	}
	return "D"
}

// Setup-time validation failures. None of these can occur once a match
// is running: every check fires at construction.
var (
	ErrInvalidPayoffOrdering = errors.New("invalid payoff ordering")
	ErrInvalidRoundCount     = errors.New("invalid round count")
)

// Payoffs holds the four constants of the dilemma payoff matrix:
// Reward, Punishment, Temptation and Sucker.
type Payoffs struct {
	R float64 `json:"r"`
	P float64 `json:"p"`
	T float64 `json:"t"`
	S float64 `json:"s"`
}

// Axelrod is the classic tournament matrix (R=3, P=1, T=5, S=0).
var Axelrod = Payoffs{R: 3, P: 1, T: 5, S: 0}

// NewPayoffs validates the game-theoretic ordering T > R > P > S and
// 2R > T + S. Without the second condition, alternating exploitation
// would beat mutual cooperation and the dilemma is not well-posed.
func NewPayoffs(r, p, t, s float64) (Payoffs, error) {
	m := Payoffs{R: r, P: p, T: t, S: s}
	if err := m.Validate(); err != nil {
		return Payoffs{}, err
	}
	return m, nil
}

// Validate re-checks the ordering invariant on an existing matrix.
func (m Payoffs) Validate() error {
	if !(m.T > m.R && m.R > m.P && m.P > m.S) {
		return fmt.Errorf("%w: need T > R > P > S, got T=%v R=%v P=%v S=%v",
			ErrInvalidPayoffOrdering, m.T, m.R, m.P, m.S)
	}
	if !(2*m.R > m.T+m.S) {
		return fmt.Errorf("%w: need 2R > T+S, got R=%v T=%v S=%v",
			ErrInvalidPayoffOrdering, m.R, m.T, m.S)
	}
	return nil
}

// Score converts one action pair into a payoff pair, from the first
// player's perspective: CC->(R,R), CD->(S,T), DC->(T,S), DD->(P,P).
func (m Payoffs) Score(self, opp Action) (float64, float64) {
	switch {
	case self == Cooperate && opp == Cooperate:
		return m.R, m.R
	case self == Cooperate && opp == Defect:
		return m.S, m.T
	case self == Defect && opp == Cooperate:
		return m.T, m.S
	default:
		return m.P, m.P
	}
}

// RoundRecord is the outcome of a single round from one player's
// perspective. Immutable once appended to a History.
type RoundRecord struct {
	Own            Action
	Opponent       Action
	OwnPayoff      float64
	OpponentPayoff float64
}

// History is the ordered sequence of completed rounds visible to one
// player. A match maintains two histories, each the mirror of the other.
type History []RoundRecord

// Last returns the most recent round, or ok=false on round one.
func (h History) Last() (RoundRecord, bool) {
	if len(h) == 0 {
		return RoundRecord{}, false
	}
	return h[len(h)-1], true
}

// OpponentDefections counts the opponent's defections so far.
func (h History) OpponentDefections() int {
	n := 0
	for _, r := range h {
		if r.Opponent == Defect {
			n++
		}
	}
	return n
}

// OpponentCooperations counts the opponent's cooperations so far.
func (h History) OpponentCooperations() int {
	return len(h) - h.OpponentDefections()
}

// OpponentDefectedIn reports whether the opponent defected in any of the
// last n rounds. Rounds that have not been played yet do not count.
func (h History) OpponentDefectedIn(n int) bool {
	for i := len(h) - 1; i >= 0 && i >= len(h)-n; i-- {
		if h[i].Opponent == Defect {
			return true
		}
	}
	return false
}
