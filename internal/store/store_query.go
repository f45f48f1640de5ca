package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hitchcock/internal/storyboard"
)

// TableCounts maps each storyboard table to its row count.
type TableCounts map[string]int

// SceneMetadata reports how far one scene has progressed. Every field is read
// by its own query against current storage. Unknown scenes return nil.
func (s *Store) SceneMetadata(ctx context.Context, sceneID string) (*storyboard.SceneMetadata, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(sceneID) == "" {
		return nil, nil
	}

	var row sceneRow
	err := s.db.QueryRowContext(ctx, "SELECT "+sceneColumns+" FROM scenes WHERE scene_id = ?", sceneID).
		Scan(row.scanArgs()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scene metadata %q: %w", sceneID, err)
	}

	meta := &storyboard.SceneMetadata{
		SceneID:     row.SceneID,
		Title:       nullToString(row.Title),
		Importance:  storyboard.Importance(nullToString(row.Importance)),
		Description: nullToString(row.Description),
	}

	if meta.CharacterCount, err = s.countWhere(ctx, "scene_characters", "scene_id", sceneID); err != nil {
		return nil, fmt.Errorf("scene metadata %q: %w", sceneID, err)
	}
	analyses, err := s.countWhere(ctx, "scene_analyses", "scene_id", sceneID)
	if err != nil {
		return nil, fmt.Errorf("scene metadata %q: %w", sceneID, err)
	}
	meta.HasAnalysis = analyses > 0
	plans, err := s.countWhere(ctx, "visual_plans", "scene_id", sceneID)
	if err != nil {
		return nil, fmt.Errorf("scene metadata %q: %w", sceneID, err)
	}
	meta.HasVisualPlan = plans > 0
	if meta.ShotSpecCount, err = s.countWhere(ctx, "shot_image_specs", "scene_id", sceneID); err != nil {
		return nil, fmt.Errorf("scene metadata %q: %w", sceneID, err)
	}
	return meta, nil
}

func (s *Store) countWhere(ctx context.Context, table, column, value string) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE %s = ?", table, column)
	if err := s.db.QueryRowContext(ctx, query, value).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// SceneIDs lists every stored scene id in ascending order.
func (s *Store) SceneIDs(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT scene_id FROM scenes ORDER BY scene_id")
	if err != nil {
		return nil, fmt.Errorf("list scene ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan scene id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ScriptText returns the stored script text of a scene. ok is false when the
// scene does not exist.
func (s *Store) ScriptText(ctx context.Context, sceneID string) (string, bool, error) {
	ctx = ensureContext(ctx)
	var text sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT script_text FROM scenes WHERE scene_id = ?", sceneID).Scan(&text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("script text %q: %w", sceneID, err)
	}
	return nullToString(text), true, nil
}

// Counts returns the row count of every storyboard table.
func (s *Store) Counts(ctx context.Context) (TableCounts, error) {
	ctx = ensureContext(ctx)
	counts := make(TableCounts, len(Tables))
	for _, table := range Tables {
		var count int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
