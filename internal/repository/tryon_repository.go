package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Manoj5621/Fashion-virtual/internal/models"
)

// StoredPaths holds the uploads-root-relative locations of the image files
// written for one record.
type StoredPaths struct {
	Input  string
	Cloth  string
	Output string
}

// SaveFilesFunc writes the image files for a freshly flushed record id and
// reports where they landed. Any error rolls back the whole save.
type SaveFilesFunc func(recordID int64) (StoredPaths, error)

type TryOnRepository struct {
	pool *pgxpool.Pool
}

func NewTryOnRepository(pool *pgxpool.Pool) *TryOnRepository {
	return &TryOnRepository{pool: pool}
}

// SaveResult runs the whole persistence step in one transaction: resolve the
// owner, insert a placeholder row to obtain the generated id, let the caller
// write the files, then update the row with the real paths. A failure at any
// point leaves no partially written row behind.
func (r *TryOnRepository) SaveResult(ctx context.Context, username string, write SaveFilesFunc) (models.TryOnRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.TryOnRecord{}, err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TryOnRecord{}, ErrUserNotFound
		}
		return models.TryOnRecord{}, err
	}

	record := models.TryOnRecord{UserID: userID}

	const insert = `
		INSERT INTO tryon_records (user_id, input_path, cloth_path, output_path, created_at)
		VALUES ($1, '', '', '', NOW())
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, insert, userID).Scan(&record.ID, &record.CreatedAt); err != nil {
		return models.TryOnRecord{}, err
	}

	paths, err := write(record.ID)
	if err != nil {
		return models.TryOnRecord{}, err
	}

	const update = `
		UPDATE tryon_records
		SET input_path = $2, cloth_path = $3, output_path = $4
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, update, record.ID, paths.Input, paths.Cloth, paths.Output); err != nil {
		return models.TryOnRecord{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.TryOnRecord{}, err
	}

	record.InputPath = paths.Input
	record.ClothPath = paths.Cloth
	record.OutputPath = paths.Output
	return record, nil
}

func (r *TryOnRepository) ListAll(ctx context.Context) ([]models.TryOnRecord, error) {
	const query = `
		SELECT id, user_id, input_path, cloth_path, output_path, created_at
		FROM tryon_records
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *TryOnRepository) ListByUser(ctx context.Context, userID int64) ([]models.TryOnRecord, error) {
	const query = `
		SELECT id, user_id, input_path, cloth_path, output_path, created_at
		FROM tryon_records
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *TryOnRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tryon_records WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func scanRecords(rows pgx.Rows) ([]models.TryOnRecord, error) {
	var records []models.TryOnRecord
	for rows.Next() {
		var record models.TryOnRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.InputPath,
			&record.ClothPath,
			&record.OutputPath,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
