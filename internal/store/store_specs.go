package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hitchcock/internal/storyboard"
)

const upsertSpecSQL = `INSERT INTO shot_image_specs (` + specColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(shot_id) DO UPDATE SET
		scene_id = excluded.scene_id,
		description = excluded.description,
		camera_type = excluded.camera_type,
		camera_movement = excluded.camera_movement,
		camera_focus = excluded.camera_focus,
		lighting = excluded.lighting,
		atmosphere = excluded.atmosphere,
		time_of_day = excluded.time_of_day`

// specOrder sorts specs by scene, then by the numeric shot position encoded
// in the "{scene}_shot_{n}" id. Ids without a position fall back to text order.
const specOrder = "scene_id, CAST(substr(shot_id, length(scene_id) + 7) AS INTEGER), shot_id"

var specChildren = []childTable{shotSpecProps, shotSpecEffects, shotSpecCharacters}

// SaveShotImageSpecs upserts each spec keyed by shot id and replaces its
// props, effects and characters.
func (s *Store) SaveShotImageSpecs(ctx context.Context, specs []storyboard.ShotImageSpec) error {
	ctx = ensureContext(ctx)
	for _, spec := range specs {
		if strings.TrimSpace(spec.ShotID) == "" {
			return fmt.Errorf("save shot image spec %q: %w", spec.ShotID, errMissingID)
		}
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			return writeSpec(ctx, tx, spec)
		})
		if err != nil {
			return fmt.Errorf("save shot image spec %q: %w", spec.ShotID, err)
		}
	}
	return nil
}

// ReplaceSceneShotImageSpecs makes specs the complete spec set of sceneID.
// Specs of the scene that are not in specs are deleted with their child rows.
// Everything happens in one transaction.
func (s *Store) ReplaceSceneShotImageSpecs(ctx context.Context, sceneID string, specs []storyboard.ShotImageSpec) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(sceneID) == "" {
		return errMissingID
	}
	keep := make([]any, 0, len(specs)+1)
	keep = append(keep, sceneID)
	for _, spec := range specs {
		if strings.TrimSpace(spec.ShotID) == "" {
			return fmt.Errorf("replace shot image specs for scene %q: %w", sceneID, errMissingID)
		}
		if spec.SceneID != sceneID {
			return fmt.Errorf("replace shot image specs for scene %q: spec %q belongs to scene %q", sceneID, spec.ShotID, spec.SceneID)
		}
		keep = append(keep, spec.ShotID)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, spec := range specs {
			if err := writeSpec(ctx, tx, spec); err != nil {
				return fmt.Errorf("save shot image spec %q: %w", spec.ShotID, err)
			}
		}
		return pruneSceneSpecs(ctx, tx, keep)
	})
	if err != nil {
		return fmt.Errorf("replace shot image specs for scene %q: %w", sceneID, err)
	}
	return nil
}

// pruneSceneSpecs deletes the specs of keep[0] whose ids are not in keep[1:].
func pruneSceneSpecs(ctx context.Context, tx *sql.Tx, keep []any) error {
	stale := "SELECT shot_id FROM shot_image_specs WHERE scene_id = ?"
	if len(keep) > 1 {
		stale += " AND shot_id NOT IN (?" + strings.Repeat(", ?", len(keep)-2) + ")"
	}
	for _, child := range specChildren {
		query := fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s)", child.name, child.parent, stale)
		if _, err := tx.ExecContext(ctx, query, keep...); err != nil {
			return fmt.Errorf("prune %s: %w", child.name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM shot_image_specs WHERE shot_id IN ("+stale+")", keep...); err != nil {
		return fmt.Errorf("prune shot image specs: %w", err)
	}
	return nil
}

func writeSpec(ctx context.Context, tx *sql.Tx, spec storyboard.ShotImageSpec) error {
	if _, err := tx.ExecContext(ctx, upsertSpecSQL, encodeSpec(spec)...); err != nil {
		return fmt.Errorf("upsert shot image spec: %w", err)
	}
	if err := shotSpecProps.replace(ctx, tx, spec.ShotID, spec.Props); err != nil {
		return err
	}
	if err := shotSpecEffects.replace(ctx, tx, spec.ShotID, spec.SpecialEffects); err != nil {
		return err
	}
	return shotSpecCharacters.replace(ctx, tx, spec.ShotID, spec.Characters)
}

// LoadShotImageSpecs returns every stored spec ordered by scene and shot
// position.
func (s *Store) LoadShotImageSpecs(ctx context.Context) ([]storyboard.ShotImageSpec, error) {
	specs, err := s.loadSpecs(ensureContext(ctx), specFilter{})
	if err != nil {
		return nil, fmt.Errorf("load shot image specs: %w", err)
	}
	return specs, nil
}

// GetShotImageSpec returns the spec for shotID, or nil when none exists.
func (s *Store) GetShotImageSpec(ctx context.Context, shotID string) (*storyboard.ShotImageSpec, error) {
	if strings.TrimSpace(shotID) == "" {
		return nil, nil
	}
	specs, err := s.loadSpecs(ensureContext(ctx), specFilter{shotID: shotID})
	if err != nil {
		return nil, fmt.Errorf("get shot image spec %q: %w", shotID, err)
	}
	if len(specs) == 0 {
		return nil, nil
	}
	return &specs[0], nil
}

// GetShotImageSpecsBySceneID returns the specs of one scene. A scene without
// specs yields an empty slice.
func (s *Store) GetShotImageSpecsBySceneID(ctx context.Context, sceneID string) ([]storyboard.ShotImageSpec, error) {
	if strings.TrimSpace(sceneID) == "" {
		return []storyboard.ShotImageSpec{}, nil
	}
	specs, err := s.loadSpecs(ensureContext(ctx), specFilter{sceneID: sceneID})
	if err != nil {
		return nil, fmt.Errorf("get shot image specs for scene %q: %w", sceneID, err)
	}
	return specs, nil
}

type specFilter struct {
	shotID  string
	sceneID string
}

func (s *Store) loadSpecs(ctx context.Context, filter specFilter) ([]storyboard.ShotImageSpec, error) {
	specs := make([]storyboard.ShotImageSpec, 0)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		specs = specs[:0]
		query := "SELECT " + specColumns + " FROM shot_image_specs"
		var args []any
		switch {
		case filter.shotID != "":
			query += " WHERE shot_id = ?"
			args = append(args, filter.shotID)
		case filter.sceneID != "":
			query += " WHERE scene_id = ?"
			args = append(args, filter.sceneID)
		}
		query += " ORDER BY " + specOrder

		rows, err := queryRows[specRow](ctx, tx, query, args...)
		if err != nil {
			return fmt.Errorf("query shot image specs: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		children := make([]map[string][]string, len(specChildren))
		for i, child := range specChildren {
			var values map[string][]string
			if filter.sceneID != "" {
				values, err = child.loadForScene(ctx, tx, filter.sceneID)
			} else {
				values, err = child.load(ctx, tx, filter.shotID)
			}
			if err != nil {
				return err
			}
			children[i] = values
		}
		props, effects, characters := children[0], children[1], children[2]
		for i := range rows {
			id := rows[i].ShotID
			specs = append(specs, rows[i].toDomain(
				valuesFor(props, id),
				valuesFor(effects, id),
				valuesFor(characters, id),
			))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return specs, nil
}
