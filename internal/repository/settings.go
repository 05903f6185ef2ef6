package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func scanSetting(row interface{ Scan(...interface{}) error }) (*models.Setting, error) {
	var s models.Setting
	var raw []byte
	if err := row.Scan(&s.Key, &raw, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Value = json.RawMessage(raw)
	if len(raw) == 0 {
		s.Value = json.RawMessage("null")
	}
	return &s, nil
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	s, err := scanSetting(r.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM app_settings WHERE key = $1`, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("setting", key)
		}
		return nil, apperrors.NewStorageError("get setting", err)
	}
	return s, nil
}

func (r *SettingsRepository) List(ctx context.Context) ([]models.Setting, error) {
	const op = "list settings"

	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM app_settings ORDER BY key`)
	if err != nil {
		return nil, apperrors.NewStorageError(op, err)
	}
	defer rows.Close()

	out := make([]models.Setting, 0)
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, apperrors.NewStorageError(op, err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(op, err)
	}
	return out, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, key string, value json.RawMessage) (*models.Setting, error) {
	s, err := scanSetting(r.db.QueryRowContext(ctx, `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		RETURNING key, value, updated_at`, key, string(value)))
	if err != nil {
		return nil, apperrors.NewStorageError("upsert setting", err)
	}
	return s, nil
}
