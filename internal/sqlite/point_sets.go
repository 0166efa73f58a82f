package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tour-planner/internal/database"
	"tour-planner/internal/models"
)

type pointSetRepository struct {
	store *Store
}

func (r *pointSetRepository) List(ctx context.Context, search string) ([]models.PointSet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rows *sql.Rows
	var err error

	if search != "" {
		query := `SELECT id, name, created_at, updated_at
		          FROM point_sets
		          WHERE name LIKE ?
		          ORDER BY name`
		rows, err = r.store.db.QueryContext(ctx, query, "%"+search+"%")
	} else {
		query := `SELECT id, name, created_at, updated_at
		          FROM point_sets
		          ORDER BY name`
		rows, err = r.store.db.QueryContext(ctx, query)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query point sets: %w", err)
	}

	var sets []models.PointSet
	for rows.Next() {
		var ps models.PointSet
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.CreatedAt, &ps.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan point set: %w", err)
		}
		sets = append(sets, ps)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating point sets: %w", err)
	}
	// release the connection before loading points
	rows.Close()

	for i := range sets {
		points, err := r.loadPoints(ctx, sets[i].ID)
		if err != nil {
			return nil, err
		}
		sets[i].Points = points
	}

	return sets, nil
}

func (r *pointSetRepository) GetByID(ctx context.Context, id int64) (*models.PointSet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, name, created_at, updated_at FROM point_sets WHERE id = ?`

	var ps models.PointSet
	err := r.store.db.QueryRowContext(ctx, query, id).Scan(&ps.ID, &ps.Name, &ps.CreatedAt, &ps.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get point set: %w", err)
	}

	ps.Points, err = r.loadPoints(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

func (r *pointSetRepository) Create(ctx context.Context, ps *models.PointSet) (*models.PointSet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	ps.CreatedAt = now
	ps.UpdatedAt = now

	query := `INSERT INTO point_sets (name, created_at, updated_at) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, query, ps.Name, ps.CreatedAt, ps.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create point set: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	ps.ID = id

	if err := insertPoints(ctx, tx, id, ps.Points); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ps, nil
}

func (r *pointSetRepository) Update(ctx context.Context, ps *models.PointSet) (*models.PointSet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ps.UpdatedAt = time.Now()

	query := `UPDATE point_sets SET name = ?, updated_at = ? WHERE id = ?`
	result, err := tx.ExecContext(ctx, query, ps.Name, ps.UpdatedAt, ps.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update point set: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, database.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM points WHERE point_set_id = ?`, ps.ID); err != nil {
		return nil, fmt.Errorf("failed to clear points: %w", err)
	}
	if err := insertPoints(ctx, tx, ps.ID, ps.Points); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ps, nil
}

func (r *pointSetRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Foreign key cascade removes the points; runs keep their history with a NULL set
	query := `DELETE FROM point_sets WHERE id = ?`
	result, err := r.store.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete point set: %w", err)
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

func (r *pointSetRepository) loadPoints(ctx context.Context, setID int64) ([]models.Point, error) {
	query := `SELECT x, y FROM points WHERE point_set_id = ? ORDER BY position`

	rows, err := r.store.db.QueryContext(ctx, query, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	points := []models.Point{}
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

func insertPoints(ctx context.Context, tx *sql.Tx, setID int64, points []models.Point) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO points (point_set_id, position, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.ExecContext(ctx, setID, i, p.X, p.Y); err != nil {
			return fmt.Errorf("failed to insert point %d: %w", i, err)
		}
	}
	return nil
}
