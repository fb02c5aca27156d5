package engine

import (
	"math/rand"
	"sync"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/strategy"
)

type matchJob struct {
	index   int
	pairing pairing
}

type matchOutcome struct {
	index  int
	result *MatchResult
	err    error
}

// runParallel plays the scheduled pairings on a fixed worker pool.
// Every worker builds its own strategy instances and rng per match, and
// seeds were drawn before scheduling, so the output slice is identical
// to runSerial for the same root seed.
func runParallel(builders []strategy.Builder, payoffs game.Payoffs, rounds int, pairings []pairing, workers int) ([]*MatchResult, error) {
	if workers > len(pairings) {
		workers = len(pairings)
	}

	jobs := make(chan matchJob, len(pairings))
	outcomes := make(chan matchOutcome, len(pairings))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				rng := rand.New(rand.NewSource(job.pairing.seed))
				res, err := PlayMatch(
					builders[job.pairing.i].New(),
					builders[job.pairing.j].New(),
					payoffs, rounds, rng)
				outcomes <- matchOutcome{index: job.index, result: res, err: err}
			}
		}()
	}

	for k, p := range pairings {
		jobs <- matchJob{index: k, pairing: p}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	matches := make([]*MatchResult, len(pairings))
	var firstErr error
	for out := range outcomes {
		if out.err != nil {
			if firstErr == nil {
				firstErr = out.err
			}
			continue
		}
		matches[out.index] = out.result
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return matches, nil
}
