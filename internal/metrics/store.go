package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StageMetric records the execution of a single pipeline stage.
type StageMetric struct {
	RunID     string
	Stage     string
	Status    string
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of stage metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m StageMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stage_metrics (run_id, stage, status, latency_ms, timestamp) VALUES (?, ?, ?, ?, ?)`,
		m.RunID, m.Stage, m.Status, m.LatencyMS, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to record stage metric: %w", err)
	}
	return nil
}

// StageSummary aggregates executions of a single stage.
type StageSummary struct {
	Stage        string
	Executions   int
	Failures     int
	AvgLatencyMS float64
}

// Summarize aggregates per-stage metrics over the last N days.
func (s *Store) Summarize(ctx context.Context, days int) ([]StageSummary, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx, `
		SELECT stage,
		       COUNT(1),
		       SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END),
		       AVG(latency_ms)
		FROM stage_metrics
		WHERE timestamp >= ?
		GROUP BY stage
		ORDER BY stage`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize stage metrics: %w", err)
	}
	defer rows.Close()

	var summaries []StageSummary
	for rows.Next() {
		var sum StageSummary
		var avg sql.NullFloat64
		if err := rows.Scan(&sum.Stage, &sum.Executions, &sum.Failures, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan stage summary: %w", err)
		}
		if avg.Valid {
			sum.AvgLatencyMS = avg.Float64
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns the number of rows removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	result, err := s.db.ExecContext(ctx, `DELETE FROM stage_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up stage metrics: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}
