package pipeline

import (
	"context"
	"log/slog"

	"hitchcock/internal/logging"
	"hitchcock/internal/services"
	"hitchcock/internal/store"
	"hitchcock/internal/storyboard"
)

// VisualPlanStage plans the look of every analysed scene.
type VisualPlanStage struct {
	store    *store.Store
	producer Producer
	logger   *slog.Logger
}

func NewVisualPlanStage(st *store.Store, producer Producer) *VisualPlanStage {
	return &VisualPlanStage{store: st, producer: producer}
}

func (s *VisualPlanStage) Name() string { return StageVisualPlan }

func (s *VisualPlanStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *VisualPlanStage) Execute(ctx context.Context) (Report, error) {
	report := Report{Stage: StageVisualPlan}
	analyses, err := s.store.LoadSceneAnalyses(ctx)
	if err != nil {
		return report, services.Wrap(services.ErrTransient, StageVisualPlan, "load analyses", "", err)
	}
	scenes, err := s.store.LoadScenes(ctx)
	if err != nil {
		return report, services.Wrap(services.ErrTransient, StageVisualPlan, "load scenes", "", err)
	}
	sceneByID := make(map[string]storyboard.Scene, len(scenes))
	for _, scene := range scenes {
		sceneByID[scene.SceneID] = scene
	}

	plans := make([]storyboard.VisualPlan, 0, len(analyses))
	for _, analysis := range analyses {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sceneCtx := services.WithSceneID(ctx, analysis.SceneID)
		logger := logging.WithContext(sceneCtx, s.logger)

		var scene *storyboard.Scene
		if found, ok := sceneByID[analysis.SceneID]; ok {
			scene = &found
		}
		plan, err := s.producer.PlanVisuals(sceneCtx, scene, analysis)
		if err != nil {
			logging.WarnWithContext(logger, "visual planning failed; storing placeholder plan", "visual_plan_fallback",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, llmErrorHint(err)),
				logging.String(logging.FieldImpact, "scene uses the default forest look"),
			)
			plan = FallbackVisualPlan(analysis.SceneID)
			report.Fallbacks++
		}
		plans = append(plans, normalizePlan(analysis.SceneID, plan))
	}

	if err := s.store.SaveVisualPlans(ctx, plans); err != nil {
		return report, services.Wrap(services.ErrTransient, StageVisualPlan, "save visual plans", "", err)
	}
	report.Saved = len(plans)
	logging.WithContext(ctx, s.logger).Info("visual plans stored", logging.Int("plan_count", len(plans)))
	return report, nil
}
