package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/events"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/infra/storage"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/platform/logger"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/platform/metrics"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/strategy"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
)

// Runner is the central orchestrator that wires a tournament run to the
// event log, metrics and the results repository. The tournament itself
// stays pure; everything observable goes through here.
type Runner struct {
	eventLog *events.Log
	logger   *logger.Logger
	repo     storage.ResultsRepository
}

// NewRunner initializes the orchestrator. The repository may be nil for
// in-memory runs (the CLI without an export path).
func NewRunner(eventLog *events.Log, log *logger.Logger, repo storage.ResultsRepository) *Runner {
	return &Runner{
		eventLog: eventLog,
		logger:   log,
		repo:     repo,
	}
}

// Run executes one full tournament, emits progress events and persists
// the final score table. Returns the run ID alongside the result.
func (r *Runner) Run(ctx context.Context, builders []strategy.Builder, payoffs game.Payoffs, rounds int, opts Options) (string, *TournamentResult, error) {
	runID := uuid.NewString()
	startedAt := time.Now()

	roster := make([]string, len(builders))
	for i, b := range builders {
		roster[i] = b.Name()
	}
	matchCount := expectedMatches(len(builders), opts.SelfPlay)

	r.logger.Info(fmt.Sprintf("Starting tournament run %s: %d strategies, %d matches, %d rounds",
		runID, len(builders), matchCount, rounds))

	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	r.appendEvent(events.New(events.EventTypeRunStarted, runID, events.RunStartedPayload{
		Roster: roster, Rounds: rounds, Seed: opts.Seed, Matches: matchCount,
	}))

	collector := metrics.Get()
	userHook := opts.OnMatch
	opts.OnMatch = func(m *MatchResult) {
		collector.RecordMatch(m.Rounds, m.Duration)
		r.appendEvent(events.New(events.EventTypeMatchFinished, runID, events.MatchFinishedPayload{
			NameA: m.NameA, NameB: m.NameB,
			ScoreA: m.ScoreA, ScoreB: m.ScoreB,
			Rounds: m.Rounds,
		}))
		if userHook != nil {
			userHook(m)
		}
	}

	result, err := RunTournament(builders, payoffs, rounds, opts)
	collector.RecordRun(err)
	if err != nil {
		r.logger.Error(fmt.Sprintf("Tournament run %s failed: %v", runID, err))
		return runID, nil, err
	}

	r.appendEvent(events.New(events.EventTypeStandingsUpdated, runID, result.Standings))
	r.appendEvent(events.New(events.EventTypeRunCompleted, runID, result.Standings))

	r.logger.Event(string(events.EventTypeRunCompleted), runID,
		fmt.Sprintf("winner=%s avg=%.2f duration=%s",
			result.Standings[0].Name, result.Standings[0].Average, result.Duration))

	if r.repo != nil {
		if err := r.persist(ctx, runID, startedAt, result); err != nil {
			r.logger.Error(fmt.Sprintf("Failed to persist run %s: %v", runID, err))
			return runID, result, err
		}
	}

	return runID, result, nil
}

func (r *Runner) appendEvent(e events.Event) {
	if r.eventLog != nil {
		r.eventLog.Append(e)
	}
}

func (r *Runner) persist(ctx context.Context, runID string, startedAt time.Time, result *TournamentResult) error {
	run := storage.RunRecord{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Rounds:     result.Rounds,
		Seed:       result.Seed,
		Strategies: len(result.Standings),
		Matches:    len(result.Matches),
	}

	standings := make([]storage.StandingRecord, len(result.Standings))
	for i, s := range result.Standings {
		standings[i] = storage.StandingRecord{
			RunID: runID, Rank: s.Rank, Name: s.Name,
			Matches: s.Matches, Total: s.Total, Average: s.Average,
			Wins: s.Wins, Losses: s.Losses, Ties: s.Ties,
		}
	}

	matches := make([]storage.MatchRecord, len(result.Matches))
	for i, m := range result.Matches {
		matches[i] = storage.MatchRecord{
			RunID: runID, Seq: i,
			NameA: m.NameA, NameB: m.NameB,
			ScoreA: m.ScoreA, ScoreB: m.ScoreB,
			Rounds: m.Rounds,
		}
	}

	return r.repo.SaveRun(ctx, run, standings, matches)
}

// expectedMatches counts the scheduled pairings for a roster of n.
func expectedMatches(n int, selfPlay bool) int {
	m := n * (n - 1) / 2
	if selfPlay {
		m += n
	}
	return m
}
