package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hitchcock/internal/storyboard"
)

const upsertPlanSQL = `INSERT INTO visual_plans (` + planColumns + `)
	VALUES (?, ?, ?)
	ON CONFLICT(scene_id) DO UPDATE SET
		lighting = excluded.lighting,
		atmosphere = excluded.atmosphere`

// SaveVisualPlans upserts each plan and replaces its props and effects.
func (s *Store) SaveVisualPlans(ctx context.Context, plans []storyboard.VisualPlan) error {
	ctx = ensureContext(ctx)
	for _, plan := range plans {
		if err := s.savePlan(ctx, plan); err != nil {
			return fmt.Errorf("save visual plan %q: %w", plan.SceneID, err)
		}
	}
	return nil
}

func (s *Store) savePlan(ctx context.Context, plan storyboard.VisualPlan) error {
	if strings.TrimSpace(plan.SceneID) == "" {
		return errMissingID
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertPlanSQL, encodePlan(plan)...); err != nil {
			return fmt.Errorf("upsert visual plan: %w", err)
		}
		if err := visualPlanProps.replace(ctx, tx, plan.SceneID, plan.Props); err != nil {
			return err
		}
		return visualPlanEffects.replace(ctx, tx, plan.SceneID, plan.SpecialEffects)
	})
}

// LoadVisualPlans returns every stored visual plan ordered by scene id.
func (s *Store) LoadVisualPlans(ctx context.Context) ([]storyboard.VisualPlan, error) {
	plans, err := s.loadPlans(ensureContext(ctx), "")
	if err != nil {
		return nil, fmt.Errorf("load visual plans: %w", err)
	}
	return plans, nil
}

// GetVisualPlan returns the plan for sceneID, or nil when none exists.
func (s *Store) GetVisualPlan(ctx context.Context, sceneID string) (*storyboard.VisualPlan, error) {
	if strings.TrimSpace(sceneID) == "" {
		return nil, nil
	}
	plans, err := s.loadPlans(ensureContext(ctx), sceneID)
	if err != nil {
		return nil, fmt.Errorf("get visual plan %q: %w", sceneID, err)
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return &plans[0], nil
}

func (s *Store) loadPlans(ctx context.Context, sceneID string) ([]storyboard.VisualPlan, error) {
	plans := make([]storyboard.VisualPlan, 0)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		plans = plans[:0]
		query := "SELECT " + planColumns + " FROM visual_plans"
		var args []any
		if sceneID != "" {
			query += " WHERE scene_id = ?"
			args = append(args, sceneID)
		}
		query += " ORDER BY scene_id"

		rows, err := queryRows[planRow](ctx, tx, query, args...)
		if err != nil {
			return fmt.Errorf("query visual plans: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		props, err := visualPlanProps.load(ctx, tx, sceneID)
		if err != nil {
			return err
		}
		effects, err := visualPlanEffects.load(ctx, tx, sceneID)
		if err != nil {
			return err
		}
		for i := range rows {
			id := rows[i].SceneID
			plans = append(plans, rows[i].toDomain(valuesFor(props, id), valuesFor(effects, id)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plans, nil
}
