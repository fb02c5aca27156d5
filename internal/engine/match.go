// Package engine runs the simulation: single matches, round-robin
// tournaments, and the orchestration around them. Match and tournament
// execution is pure with respect to everything except the provided
// random generator; persistence and broadcasting live behind the Runner.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/strategy"
)

// MatchResult is the complete outcome of one match. Histories are kept
// on the result for inspection by the caller; the engine itself never
// reads them back after the match ends.
type MatchResult struct {
	NameA    string
	NameB    string
	ScoreA   float64
	ScoreB   float64
	Rounds   int
	HistoryA game.History
	HistoryB game.History
	Duration time.Duration
}

// Winner returns +1 if A won on total score, -1 if B won, 0 on a tie.
func (r *MatchResult) Winner() int {
	switch {
	case r.ScoreA > r.ScoreB:
		return 1
	case r.ScoreB > r.ScoreA:
		return -1
	default:
		return 0
	}
}

// PlayMatch runs a fixed-length match between two strategy instances.
// Both strategies decide each round before either history is extended,
// so neither can see the opponent's current move. The caller owns the
// rng; a fixed seed replays the match exactly.
func PlayMatch(a, b strategy.Strategy, payoffs game.Payoffs, rounds int, rng *rand.Rand) (*MatchResult, error) {
	if rounds < 1 {
		return nil, fmt.Errorf("%w: got %d, need at least 1", game.ErrInvalidRoundCount, rounds)
	}
	if err := payoffs.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	histA := make(game.History, 0, rounds)
	histB := make(game.History, 0, rounds)
	var scoreA, scoreB float64

	for i := 0; i < rounds; i++ {
		actA := a.Decide(rng, histA, histB)
		actB := b.Decide(rng, histB, histA)
		payA, payB := payoffs.Score(actA, actB)

		histA = append(histA, game.RoundRecord{
			Own: actA, Opponent: actB, OwnPayoff: payA, OpponentPayoff: payB,
		})
		histB = append(histB, game.RoundRecord{
			Own: actB, Opponent: actA, OwnPayoff: payB, OpponentPayoff: payA,
		})
		scoreA += payA
		scoreB += payB
	}

	return &MatchResult{
		NameA:    a.Name(),
		NameB:    b.Name(),
		ScoreA:   scoreA,
		ScoreB:   scoreB,
		Rounds:   rounds,
		HistoryA: histA,
		HistoryB: histB,
		Duration: time.Since(start),
	}, nil
}
