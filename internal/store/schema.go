package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Tables lists every storyboard table in dependency order.
var Tables = []string{
	"scenes",
	"scene_characters",
	"scene_analyses",
	"key_moments",
	"shots",
	"visual_plans",
	"visual_plan_props",
	"visual_plan_effects",
	"shot_image_specs",
	"shot_spec_props",
	"shot_spec_effects",
	"shot_spec_characters",
}

// initSchema creates any missing tables and records the schema version. It is
// safe to call on every open, including from several processes at once.
func (s *Store) initSchema(ctx context.Context) error {
	var version int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO schema_version (id, version) VALUES (1, ?)", schemaVersion,
		); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		if err := tx.QueryRowContext(ctx, "SELECT version FROM schema_version WHERE id = 1").Scan(&version); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete the database or re-run with a matching binary)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}
