package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ArchivedPlan is one row of the plan archive.
type ArchivedPlan struct {
	ID        int64
	RunID     string
	ZipCode   string
	Result    Result
	CreatedAt time.Time
}

// PlanRepository persists finished plan results for the history command.
type PlanRepository struct {
	db *sql.DB
}

func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Save archives a finished plan result as JSON.
func (r *PlanRepository) Save(ctx context.Context, result Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal plan result: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO plans (run_id, zip_code, plan_data) VALUES (?, ?, ?)`,
		result.RunID, result.ZipCode, string(data))
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// ListRecent returns the most recent archived plans, newest first.
func (r *PlanRepository) ListRecent(ctx context.Context, limit int) ([]ArchivedPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, run_id, zip_code, plan_data, created_at
		 FROM plans ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []ArchivedPlan
	for rows.Next() {
		var p ArchivedPlan
		var data string
		if err := rows.Scan(&p.ID, &p.RunID, &p.ZipCode, &data, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &p.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan %s: %w", p.RunID, err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
