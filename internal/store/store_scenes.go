package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hitchcock/internal/storyboard"
)

var errMissingID = errors.New("entity id is required")

const upsertSceneSQL = `INSERT INTO scenes (` + sceneColumns + `)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(scene_id) DO UPDATE SET
		title = excluded.title,
		script_text = excluded.script_text,
		importance = excluded.importance,
		description = excluded.description`

// SaveScenes upserts each scene and replaces its character set. Every scene
// commits in its own transaction, so a failure leaves earlier scenes saved.
func (s *Store) SaveScenes(ctx context.Context, scenes []storyboard.Scene) error {
	ctx = ensureContext(ctx)
	for _, scene := range scenes {
		if err := s.saveScene(ctx, scene); err != nil {
			return fmt.Errorf("save scene %q: %w", scene.SceneID, err)
		}
	}
	return nil
}

func (s *Store) saveScene(ctx context.Context, scene storyboard.Scene) error {
	if strings.TrimSpace(scene.SceneID) == "" {
		return errMissingID
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertSceneSQL, encodeScene(scene)...); err != nil {
			return fmt.Errorf("upsert scene: %w", err)
		}
		return sceneCharacters.replace(ctx, tx, scene.SceneID, scene.Characters)
	})
}

// LoadScenes returns every stored scene ordered by scene id.
func (s *Store) LoadScenes(ctx context.Context) ([]storyboard.Scene, error) {
	scenes, err := s.loadScenes(ensureContext(ctx), "")
	if err != nil {
		return nil, fmt.Errorf("load scenes: %w", err)
	}
	return scenes, nil
}

// GetScene returns the scene with the given id, or nil when none exists.
func (s *Store) GetScene(ctx context.Context, sceneID string) (*storyboard.Scene, error) {
	if strings.TrimSpace(sceneID) == "" {
		return nil, nil
	}
	scenes, err := s.loadScenes(ensureContext(ctx), sceneID)
	if err != nil {
		return nil, fmt.Errorf("get scene %q: %w", sceneID, err)
	}
	if len(scenes) == 0 {
		return nil, nil
	}
	return &scenes[0], nil
}

func (s *Store) loadScenes(ctx context.Context, sceneID string) ([]storyboard.Scene, error) {
	scenes := make([]storyboard.Scene, 0)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		scenes = scenes[:0]
		query := "SELECT " + sceneColumns + " FROM scenes"
		var args []any
		if sceneID != "" {
			query += " WHERE scene_id = ?"
			args = append(args, sceneID)
		}
		query += " ORDER BY scene_id"

		rows, err := queryRows[sceneRow](ctx, tx, query, args...)
		if err != nil {
			return fmt.Errorf("query scenes: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		characters, err := sceneCharacters.load(ctx, tx, sceneID)
		if err != nil {
			return err
		}
		for i := range rows {
			scenes = append(scenes, rows[i].toDomain(valuesFor(characters, rows[i].SceneID)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scenes, nil
}
