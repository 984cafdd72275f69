package scans

import (
	"context"
	"fmt"

	"github.com/riceguard/riceguard/internal/client/models"
	"github.com/riceguard/riceguard/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, item *models.ScanItem) error {
	query := `INSERT INTO scan_cache (id, label, confidence, model_version, notes, image_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET label = excluded.label,
				confidence = excluded.confidence,
				model_version = excluded.model_version,
				notes = excluded.notes,
				image_url = excluded.image_url,
				created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Label, item.Confidence, item.ModelVersion, item.Notes, item.ImageURL, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cached scan: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.ScanItem, error) {
	query := `SELECT id, label, confidence, model_version, notes, image_url, created_at
			FROM scan_cache ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select cached scans: %w", err)
	}
	defer rows.Close()

	var result []models.ScanItem
	for rows.Next() {
		var item models.ScanItem
		if err := rows.Scan(&item.ID, &item.Label, &item.Confidence,
			&item.ModelVersion, &item.Notes, &item.ImageURL, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scan_cache WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete cached scan: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scan_cache`); err != nil {
		return fmt.Errorf("failed to clear scan cache: %w", err)
	}
	return nil
}
