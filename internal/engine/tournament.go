package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/strategy"
)

// Options tunes a tournament run. The zero value is a valid serial,
// no-self-play configuration seeded from the wall clock.
type Options struct {
	// SelfPlay adds a match of every strategy against a second fresh
	// instance of itself.
	SelfPlay bool
	// Workers > 1 runs matches on a worker pool. Results are identical
	// to the serial path for the same seed.
	Workers int
	// Seed for the root generator. 0 means derive from the clock.
	Seed int64
	// OnMatch, when set, is called after every finished match, in
	// pairing order even when running parallel.
	OnMatch func(*MatchResult)
}

// Standing is one strategy's aggregate over a whole tournament.
type Standing struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	Matches int     `json:"matches"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Ties    int     `json:"ties"`
}

// TournamentResult holds the ranked standings and every match outcome.
type TournamentResult struct {
	Standings []Standing
	Matches   []*MatchResult
	Rounds    int
	Seed      int64
	Duration  time.Duration
}

// pairing is one scheduled match: roster indices plus the seed its rng
// starts from. Seeds are drawn up front from the root generator so the
// serial and parallel paths see the same per-match randomness.
type pairing struct {
	i, j int
	seed int64
}

// RunTournament plays every unordered pair of the roster once (plus
// self-play pairs when enabled) and aggregates standings. All
// validation happens before the first match: a bad roster or matrix
// never produces a partial tournament.
func RunTournament(builders []strategy.Builder, payoffs game.Payoffs, rounds int, opts Options) (*TournamentResult, error) {
	if err := payoffs.Validate(); err != nil {
		return nil, err
	}
	if rounds < 1 {
		return nil, fmt.Errorf("%w: got %d, need at least 1", game.ErrInvalidRoundCount, rounds)
	}
	if len(builders) < 2 {
		return nil, fmt.Errorf("roster needs at least 2 strategies, got %d", len(builders))
	}
	for i, b := range builders {
		if b.New() == nil {
			return nil, fmt.Errorf("roster entry %d (%s): builder produced nil strategy", i, b.Name())
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	root := rand.New(rand.NewSource(seed))

	pairings := schedule(len(builders), opts.SelfPlay, root)

	start := time.Now()
	var matches []*MatchResult
	var err error
	if opts.Workers > 1 {
		matches, err = runParallel(builders, payoffs, rounds, pairings, opts.Workers)
	} else {
		matches, err = runSerial(builders, payoffs, rounds, pairings)
	}
	if err != nil {
		return nil, err
	}

	if opts.OnMatch != nil {
		for _, m := range matches {
			opts.OnMatch(m)
		}
	}

	return &TournamentResult{
		Standings: aggregate(builders, pairings, matches),
		Matches:   matches,
		Rounds:    rounds,
		Seed:      seed,
		Duration:  time.Since(start),
	}, nil
}

// schedule lists every unordered pair in roster order and attaches a
// pre-drawn seed to each.
func schedule(n int, selfPlay bool, root *rand.Rand) []pairing {
	var pairings []pairing
	for i := 0; i < n; i++ {
		j := i + 1
		if selfPlay {
			j = i
		}
		for ; j < n; j++ {
			pairings = append(pairings, pairing{i: i, j: j, seed: root.Int63()})
		}
	}
	return pairings
}

func runSerial(builders []strategy.Builder, payoffs game.Payoffs, rounds int, pairings []pairing) ([]*MatchResult, error) {
	matches := make([]*MatchResult, len(pairings))
	for k, p := range pairings {
		rng := rand.New(rand.NewSource(p.seed))
		res, err := PlayMatch(builders[p.i].New(), builders[p.j].New(), payoffs, rounds, rng)
		if err != nil {
			return nil, err
		}
		matches[k] = res
	}
	return matches, nil
}

// aggregate folds match outcomes into per-strategy standings and ranks
// them: descending average, ties broken by total, then roster order.
// Iteration is over slices only, never maps, so the ranking is stable.
func aggregate(builders []strategy.Builder, pairings []pairing, matches []*MatchResult) []Standing {
	standings := make([]Standing, len(builders))
	for i, b := range builders {
		standings[i].Name = b.Name()
	}

	record := func(s *Standing, score float64, outcome int) {
		s.Matches++
		s.Total += score
		switch {
		case outcome > 0:
			s.Wins++
		case outcome < 0:
			s.Losses++
		default:
			s.Ties++
		}
	}

	for k, p := range pairings {
		m := matches[k]
		w := m.Winner()
		record(&standings[p.i], m.ScoreA, w)
		record(&standings[p.j], m.ScoreB, -w)
	}

	for i := range standings {
		if standings[i].Matches > 0 {
			standings[i].Average = standings[i].Total / float64(standings[i].Matches)
		}
	}

	sort.SliceStable(standings, func(a, b int) bool {
		if standings[a].Average != standings[b].Average {
			return standings[a].Average > standings[b].Average
		}
		return standings[a].Total > standings[b].Total
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
