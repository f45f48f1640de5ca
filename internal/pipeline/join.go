package pipeline

import (
	"context"
	"log/slog"

	"hitchcock/internal/logging"
	"hitchcock/internal/services"
	"hitchcock/internal/store"
	"hitchcock/internal/storyboard"
)

// JoinStage fans stored analyses out into shot image specs. Each joined scene
// gets its spec set replaced, so specs for shots an analysis no longer has
// are removed.
type JoinStage struct {
	store  *store.Store
	logger *slog.Logger
}

func NewJoinStage(st *store.Store) *JoinStage {
	return &JoinStage{store: st}
}

func (s *JoinStage) Name() string { return StageJoin }

func (s *JoinStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *JoinStage) Execute(ctx context.Context) (Report, error) {
	report := Report{Stage: StageJoin}
	scenes, err := s.store.LoadScenes(ctx)
	if err != nil {
		return report, services.Wrap(services.ErrTransient, StageJoin, "load scenes", "", err)
	}
	analyses, err := s.store.LoadSceneAnalyses(ctx)
	if err != nil {
		return report, services.Wrap(services.ErrTransient, StageJoin, "load analyses", "", err)
	}
	plans, err := s.store.LoadVisualPlans(ctx)
	if err != nil {
		return report, services.Wrap(services.ErrTransient, StageJoin, "load visual plans", "", err)
	}

	specs, skipped := storyboard.BuildShotImageSpecs(scenes, analyses, plans)
	logger := logging.WithContext(ctx, s.logger)
	for _, skip := range skipped {
		logger.Info("analysis skipped",
			logging.String(logging.FieldEventType, "join_skip"),
			logging.String(logging.FieldSceneID, skip.SceneID),
			logging.String("reason", skip.Reason),
		)
	}

	skippedIDs := make(map[string]struct{}, len(skipped))
	for _, skip := range skipped {
		skippedIDs[skip.SceneID] = struct{}{}
	}
	bySceneID := make(map[string][]storyboard.ShotImageSpec)
	for _, spec := range specs {
		bySceneID[spec.SceneID] = append(bySceneID[spec.SceneID], spec)
	}
	for _, analysis := range analyses {
		if _, ok := skippedIDs[analysis.SceneID]; ok {
			continue
		}
		if err := s.store.ReplaceSceneShotImageSpecs(ctx, analysis.SceneID, bySceneID[analysis.SceneID]); err != nil {
			return report, services.Wrap(services.ErrTransient, StageJoin, "save shot image specs", "scene "+analysis.SceneID, err)
		}
	}
	report.Saved = len(specs)
	report.Skipped = len(skipped)
	logger.Info("shot image specs stored", logging.Int("spec_count", len(specs)))
	return report, nil
}
