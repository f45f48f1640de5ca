package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hitchcock/internal/storyboard"
)

const upsertAnalysisSQL = `INSERT INTO scene_analyses (` + analysisColumns + `)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(scene_id) DO UPDATE SET
		setting = excluded.setting,
		mood = excluded.mood,
		pacing = excluded.pacing,
		time_of_day = excluded.time_of_day`

// SaveSceneAnalyses upserts each analysis and replaces its key moments and
// shots. Shot order is preserved through the shots table's row id.
func (s *Store) SaveSceneAnalyses(ctx context.Context, analyses []storyboard.SceneAnalysis) error {
	ctx = ensureContext(ctx)
	for _, analysis := range analyses {
		if err := s.saveAnalysis(ctx, analysis); err != nil {
			return fmt.Errorf("save scene analysis %q: %w", analysis.SceneID, err)
		}
	}
	return nil
}

func (s *Store) saveAnalysis(ctx context.Context, analysis storyboard.SceneAnalysis) error {
	if strings.TrimSpace(analysis.SceneID) == "" {
		return errMissingID
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertAnalysisSQL, encodeAnalysis(analysis)...); err != nil {
			return fmt.Errorf("upsert scene analysis: %w", err)
		}
		if err := keyMoments.replace(ctx, tx, analysis.SceneID, analysis.KeyMoments); err != nil {
			return err
		}
		return replaceShots(ctx, tx, analysis.SceneID, analysis.Shots)
	})
}

// LoadSceneAnalyses returns every stored analysis ordered by scene id.
func (s *Store) LoadSceneAnalyses(ctx context.Context) ([]storyboard.SceneAnalysis, error) {
	analyses, err := s.loadAnalyses(ensureContext(ctx), "")
	if err != nil {
		return nil, fmt.Errorf("load scene analyses: %w", err)
	}
	return analyses, nil
}

// GetSceneAnalysis returns the analysis for sceneID, or nil when the scene has
// not been analyzed.
func (s *Store) GetSceneAnalysis(ctx context.Context, sceneID string) (*storyboard.SceneAnalysis, error) {
	if strings.TrimSpace(sceneID) == "" {
		return nil, nil
	}
	analyses, err := s.loadAnalyses(ensureContext(ctx), sceneID)
	if err != nil {
		return nil, fmt.Errorf("get scene analysis %q: %w", sceneID, err)
	}
	if len(analyses) == 0 {
		return nil, nil
	}
	return &analyses[0], nil
}

func (s *Store) loadAnalyses(ctx context.Context, sceneID string) ([]storyboard.SceneAnalysis, error) {
	analyses := make([]storyboard.SceneAnalysis, 0)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		analyses = analyses[:0]
		query := "SELECT " + analysisColumns + " FROM scene_analyses"
		var args []any
		if sceneID != "" {
			query += " WHERE scene_id = ?"
			args = append(args, sceneID)
		}
		query += " ORDER BY scene_id"

		rows, err := queryRows[analysisRow](ctx, tx, query, args...)
		if err != nil {
			return fmt.Errorf("query scene analyses: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		moments, err := keyMoments.load(ctx, tx, sceneID)
		if err != nil {
			return err
		}
		shots, err := loadShots(ctx, tx, sceneID)
		if err != nil {
			return err
		}
		for i := range rows {
			id := rows[i].SceneID
			analyses = append(analyses, rows[i].toDomain(valuesFor(moments, id), shots[id]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return analyses, nil
}
