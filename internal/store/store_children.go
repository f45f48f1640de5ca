package store

import (
	"context"
	"database/sql"
	"fmt"

	"hitchcock/internal/storyboard"
)

// childTable describes a single-value child collection of a parent entity.
type childTable struct {
	name   string
	parent string
	value  string
	// set collapses duplicate values per parent.
	set bool
}

var (
	sceneCharacters    = childTable{name: "scene_characters", parent: "scene_id", value: "character_name", set: true}
	keyMoments         = childTable{name: "key_moments", parent: "scene_id", value: "moment"}
	visualPlanProps    = childTable{name: "visual_plan_props", parent: "scene_id", value: "prop", set: true}
	visualPlanEffects  = childTable{name: "visual_plan_effects", parent: "scene_id", value: "effect", set: true}
	shotSpecProps      = childTable{name: "shot_spec_props", parent: "shot_id", value: "prop", set: true}
	shotSpecEffects    = childTable{name: "shot_spec_effects", parent: "shot_id", value: "effect", set: true}
	shotSpecCharacters = childTable{name: "shot_spec_characters", parent: "shot_id", value: "character_name", set: true}
)

// replace deletes every row owned by parentID and inserts values in order.
func (c childTable) replace(ctx context.Context, tx *sql.Tx, parentID string, values []string) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", c.name, c.parent), parentID); err != nil {
		return fmt.Errorf("clear %s: %w", c.name, err)
	}
	if len(values) == 0 {
		return nil
	}

	verb := "INSERT"
	if c.set {
		verb = "INSERT OR IGNORE"
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("%s INTO %s (%s, %s) VALUES (?, ?)", verb, c.name, c.parent, c.value))
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", c.name, err)
	}
	defer stmt.Close()

	for _, value := range values {
		if _, err := stmt.ExecContext(ctx, parentID, value); err != nil {
			return fmt.Errorf("insert %s: %w", c.name, err)
		}
	}
	return nil
}

// load groups child values by parent key in insertion order. An empty
// parentID loads every parent.
func (c childTable) load(ctx context.Context, tx *sql.Tx, parentID string) (map[string][]string, error) {
	if parentID == "" {
		return c.query(ctx, tx, "")
	}
	return c.query(ctx, tx, fmt.Sprintf("WHERE c.%s = ?", c.parent), parentID)
}

// loadForScene loads the values of every shot image spec belonging to
// sceneID. Only valid for tables keyed by shot_id.
func (c childTable) loadForScene(ctx context.Context, tx *sql.Tx, sceneID string) (map[string][]string, error) {
	return c.query(ctx, tx,
		fmt.Sprintf("JOIN shot_image_specs s ON s.shot_id = c.%s WHERE s.scene_id = ?", c.parent), sceneID)
}

func (c childTable) query(ctx context.Context, tx *sql.Tx, clause string, args ...any) (map[string][]string, error) {
	query := fmt.Sprintf("SELECT c.%s, c.%s FROM %s c %s ORDER BY c.id", c.parent, c.value, c.name, clause)
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.name, err)
	}
	defer rows.Close()

	grouped := make(map[string][]string)
	for rows.Next() {
		var (
			parent string
			value  sql.NullString
		)
		if err := rows.Scan(&parent, &value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.name, err)
		}
		grouped[parent] = append(grouped[parent], nullToString(value))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.name, err)
	}
	return grouped, nil
}

func replaceShots(ctx context.Context, tx *sql.Tx, sceneID string, shots []storyboard.Shot) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM shots WHERE scene_id = ?", sceneID); err != nil {
		return fmt.Errorf("clear shots: %w", err)
	}
	if len(shots) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO shots
		(scene_id, shot_type, camera, description, duration, camera_movement, focus)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare shot insert: %w", err)
	}
	defer stmt.Close()

	for i, shot := range shots {
		if _, err := stmt.ExecContext(ctx, encodeShot(sceneID, shot)...); err != nil {
			return fmt.Errorf("insert shot %d: %w", i+1, err)
		}
	}
	return nil
}

func loadShots(ctx context.Context, tx *sql.Tx, sceneID string) (map[string][]storyboard.Shot, error) {
	query := "SELECT " + shotColumns + " FROM shots"
	var args []any
	if sceneID != "" {
		query += " WHERE scene_id = ?"
		args = append(args, sceneID)
	}
	query += " ORDER BY id"

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shots: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]storyboard.Shot)
	for rows.Next() {
		var row shotRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("scan shot: %w", err)
		}
		grouped[row.SceneID] = append(grouped[row.SceneID], row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shots: %w", err)
	}
	return grouped, nil
}
