// Package storage provides the persistence layer for the arena server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// RunRecord is the persisted header of one tournament run.
type RunRecord struct {
	RunID      string    `json:"run_id" db:"run_id"`
	StartedAt  time.Time `json:"started_at" db:"started_at"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
	Rounds     int       `json:"rounds" db:"rounds"`
	Seed       int64     `json:"seed" db:"seed"`
	Strategies int       `json:"strategies" db:"strategies"`
	Matches    int       `json:"matches" db:"matches"`
}

// StandingRecord is one row of a run's final score table. Per-round
// history is never persisted; only aggregates survive a run.
type StandingRecord struct {
	RunID   string  `json:"run_id" db:"run_id"`
	Rank    int     `json:"rank" db:"rank"`
	Name    string  `json:"name" db:"name"`
	Matches int     `json:"matches" db:"matches"`
	Total   float64 `json:"total" db:"total"`
	Average float64 `json:"average" db:"average"`
	Wins    int     `json:"wins" db:"wins"`
	Losses  int     `json:"losses" db:"losses"`
	Ties    int     `json:"ties" db:"ties"`
}

// MatchRecord is the persisted outcome of one match within a run.
type MatchRecord struct {
	RunID  string  `json:"run_id" db:"run_id"`
	Seq    int     `json:"seq" db:"seq"`
	NameA  string  `json:"name_a" db:"name_a"`
	NameB  string  `json:"name_b" db:"name_b"`
	ScoreA float64 `json:"score_a" db:"score_a"`
	ScoreB float64 `json:"score_b" db:"score_b"`
	Rounds int     `json:"rounds" db:"rounds"`
}

// ResultsRepository defines the interface for run persistence.
// The engine uses this interface; the implementation is in infra.
type ResultsRepository interface {
	// SaveRun persists a run header with its standings and match
	// outcomes in one transaction.
	SaveRun(ctx context.Context, run RunRecord, standings []StandingRecord, matches []MatchRecord) error

	// GetRun retrieves a run header, or nil when unknown.
	GetRun(ctx context.Context, runID string) (*RunRecord, error)

	// ListRuns retrieves the most recent run headers, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// GetStandings retrieves a run's score table in rank order.
	GetStandings(ctx context.Context, runID string) ([]StandingRecord, error)

	// GetMatches retrieves a run's match outcomes in pairing order.
	GetMatches(ctx context.Context, runID string) ([]MatchRecord, error)
}
