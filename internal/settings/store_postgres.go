// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pollenlabs/pollen/internal/platform/database/schema"
	"github.com/pollenlabs/pollen/internal/platform/dberr"
	"github.com/pollenlabs/pollen/pkg/uuid"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (store *PostgresStore) GetByKey(ctx context.Context, key string) (*Setting, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.SystemSetting.ID, schema.SystemSetting.Key, schema.SystemSetting.Value,
		schema.SystemSetting.Description, schema.SystemSetting.CreatedAt, schema.SystemSetting.UpdatedAt,
		schema.SystemSetting.Table, schema.SystemSetting.Key)

	s := &Setting{}
	err := store.db.QueryRow(ctx, query, key).Scan(
		&s.ID, &s.Key, &s.Value, &s.Description, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_setting_by_key")
	}
	return s, nil
}

func (store *PostgresStore) Upsert(ctx context.Context, setting *Setting) error {
	if setting.ID == "" {
		setting.ID = uuid.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
		RETURNING %s, %s, %s
	`,
		schema.SystemSetting.Table,
		schema.SystemSetting.ID, schema.SystemSetting.Key, schema.SystemSetting.Value, schema.SystemSetting.Description,
		schema.SystemSetting.Key,
		schema.SystemSetting.Value, schema.SystemSetting.Value,
		schema.SystemSetting.Description, schema.SystemSetting.Description,
		schema.SystemSetting.UpdatedAt,
		schema.SystemSetting.ID, schema.SystemSetting.CreatedAt, schema.SystemSetting.UpdatedAt,
	)

	err := store.db.QueryRow(ctx, query,
		setting.ID, setting.Key, setting.Value, setting.Description,
	).Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "upsert_setting")
	}
	return nil
}

func (store *PostgresStore) DeleteByKey(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.SystemSetting.Table, schema.SystemSetting.Key)

	if _, err := store.db.Exec(ctx, query, key); err != nil {
		return dberr.Wrap(err, "delete_setting_by_key")
	}
	return nil
}

func (store *PostgresStore) List(ctx context.Context) ([]Setting, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.SystemSetting.ID, schema.SystemSetting.Key, schema.SystemSetting.Value,
		schema.SystemSetting.Description, schema.SystemSetting.CreatedAt, schema.SystemSetting.UpdatedAt,
		schema.SystemSetting.Table, schema.SystemSetting.Key)

	rows, err := store.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_settings")
	}
	defer rows.Close()

	out := make([]Setting, 0)
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_setting")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
