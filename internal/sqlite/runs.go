package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tour-planner/internal/database"
	"tour-planner/internal/models"
)

type runRepository struct {
	store *Store
}

const runColumns = `id, point_set_id, point_count, params, best_route, best_distance,
	evaluations, duration_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	var pointSetID sql.NullInt64
	var params, route string
	if err := row.Scan(
		&run.ID, &pointSetID, &run.PointCount, &params, &route, &run.BestDistance,
		&run.Evaluations, &run.DurationMs, &run.CreatedAt,
	); err != nil {
		return nil, err
	}
	if pointSetID.Valid {
		run.PointSetID = &pointSetID.Int64
	}
	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return nil, fmt.Errorf("failed to decode run params: %w", err)
	}
	if err := json.Unmarshal([]byte(route), &run.BestRoute); err != nil {
		return nil, fmt.Errorf("failed to decode run route: %w", err)
	}
	return &run, nil
}

func (r *runRepository) List(ctx context.Context, limit, offset int) ([]models.Run, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var total int
	if err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	query := `SELECT ` + runColumns + `
	          FROM runs
	          ORDER BY created_at DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.store.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, total, nil
}

func (r *runRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	run, err := scanRun(r.store.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	genQuery := `SELECT generation, min, max, mean, std, evaluations
	             FROM run_generations
	             WHERE run_id = ?
	             ORDER BY generation`

	rows, err := r.store.db.QueryContext(ctx, genQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run generations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g models.GenerationStats
		if err := rows.Scan(&g.Generation, &g.Min, &g.Max, &g.Mean, &g.Std, &g.Evaluations); err != nil {
			return nil, fmt.Errorf("failed to scan run generation: %w", err)
		}
		run.Generations = append(run.Generations, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run generations: %w", err)
	}

	return run, nil
}

func (r *runRepository) Create(ctx context.Context, run *models.Run) (*models.Run, error) {
	params, err := json.Marshal(run.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run params: %w", err)
	}
	route, err := json.Marshal(run.BestRoute)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run route: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	runQuery := `INSERT INTO runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, runQuery,
		run.ID, run.PointSetID, run.PointCount, string(params), string(route), run.BestDistance,
		run.Evaluations, run.DurationMs, run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	genQuery := `INSERT INTO run_generations
	             (run_id, generation, min, max, mean, std, evaluations)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, g := range run.Generations {
		_, err := tx.ExecContext(ctx, genQuery, run.ID, g.Generation, g.Min, g.Max, g.Mean, g.Std, g.Evaluations)
		if err != nil {
			return nil, fmt.Errorf("failed to create run generation %d: %w", g.Generation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return run, nil
}

func (r *runRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Foreign key cascade will delete generation stats
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return database.ErrNotFound
	}

	return nil
}
