package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteResultsRepository implements ResultsRepository for SQLite.
type SQLiteResultsRepository struct {
	db *sql.DB
}

func NewSQLiteResultsRepository(db *sql.DB) *SQLiteResultsRepository {
	return &SQLiteResultsRepository{db: db}
}

func (r *SQLiteResultsRepository) SaveRun(ctx context.Context, run RunRecord, standings []StandingRecord, matches []MatchRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin run transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, finished_at, rounds, seed, strategies, matches)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.StartedAt, run.FinishedAt, run.Rounds, run.Seed, run.Strategies, run.Matches)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, s := range standings {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO standings (run_id, rank, name, matches, total, average, wins, losses, ties)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.RunID, s.Rank, s.Name, s.Matches, s.Total, s.Average, s.Wins, s.Losses, s.Ties)
		if err != nil {
			return fmt.Errorf("failed to insert standing %d: %w", s.Rank, err)
		}
	}

	for _, m := range matches {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO matches (run_id, seq, name_a, name_b, score_a, score_b, rounds)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.RunID, m.Seq, m.NameA, m.NameB, m.ScoreA, m.ScoreB, m.Rounds)
		if err != nil {
			return fmt.Errorf("failed to insert match %d: %w", m.Seq, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteResultsRepository) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	query := `SELECT run_id, started_at, finished_at, rounds, seed, strategies, matches FROM runs WHERE run_id = ?`
	var run RunRecord
	err := r.db.QueryRowContext(ctx, query, runID).Scan(
		&run.RunID, &run.StartedAt, &run.FinishedAt, &run.Rounds, &run.Seed, &run.Strategies, &run.Matches,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *SQLiteResultsRepository) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT run_id, started_at, finished_at, rounds, seed, strategies, matches FROM runs ORDER BY started_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		if err := rows.Scan(&run.RunID, &run.StartedAt, &run.FinishedAt, &run.Rounds, &run.Seed, &run.Strategies, &run.Matches); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteResultsRepository) GetStandings(ctx context.Context, runID string) ([]StandingRecord, error) {
	query := `SELECT run_id, rank, name, matches, total, average, wins, losses, ties FROM standings WHERE run_id = ? ORDER BY rank ASC`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standings []StandingRecord
	for rows.Next() {
		var s StandingRecord
		if err := rows.Scan(&s.RunID, &s.Rank, &s.Name, &s.Matches, &s.Total, &s.Average, &s.Wins, &s.Losses, &s.Ties); err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *SQLiteResultsRepository) GetMatches(ctx context.Context, runID string) ([]MatchRecord, error) {
	query := `SELECT run_id, seq, name_a, name_b, score_a, score_b, rounds FROM matches WHERE run_id = ? ORDER BY seq ASC`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		var m MatchRecord
		if err := rows.Scan(&m.RunID, &m.Seq, &m.NameA, &m.NameB, &m.ScoreA, &m.ScoreB, &m.Rounds); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
