package pipeline

import (
	"context"
	"log/slog"
	"slices"

	"hitchcock/internal/logging"
	"hitchcock/internal/services"
	"hitchcock/internal/store"
	"hitchcock/internal/storyboard"
)

// AnalysisStage plans shots for every stored scene whose importance is in
// the configured set.
type AnalysisStage struct {
	store      *store.Store
	producer   Producer
	importance []storyboard.Importance
	logger     *slog.Logger
}

// NewAnalysisStage builds the analysis stage. importance lists the scene
// importance values to analyze.
func NewAnalysisStage(st *store.Store, producer Producer, importance []string) *AnalysisStage {
	levels := make([]storyboard.Importance, 0, len(importance))
	for _, raw := range importance {
		if level, ok := storyboard.ParseImportance(raw); ok {
			levels = append(levels, level)
		}
	}
	return &AnalysisStage{store: st, producer: producer, importance: levels}
}

func (s *AnalysisStage) Name() string { return StageAnalysis }

func (s *AnalysisStage) SetLogger(logger *slog.Logger) { s.logger = logger }

// Execute analyzes the selected scenes one by one. A failed analysis is
// replaced by the placeholder analysis for that scene.
func (s *AnalysisStage) Execute(ctx context.Context) (Report, error) {
	report := Report{Stage: StageAnalysis}
	scenes, err := s.store.LoadScenes(ctx)
	if err != nil {
		return report, services.Wrap(services.ErrTransient, StageAnalysis, "load scenes", "", err)
	}

	analyses := make([]storyboard.SceneAnalysis, 0, len(scenes))
	for _, scene := range scenes {
		if !slices.Contains(s.importance, scene.Importance) {
			report.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sceneCtx := services.WithSceneID(ctx, scene.SceneID)
		logger := logging.WithContext(sceneCtx, s.logger)

		analysis, err := s.producer.AnalyzeScene(sceneCtx, scene)
		if err != nil {
			logging.WarnWithContext(logger, "scene analysis failed; storing placeholder shots", "analysis_fallback",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, llmErrorHint(err)),
				logging.String(logging.FieldImpact, "scene gets a generic two-shot breakdown"),
			)
			analysis = FallbackAnalysis(scene)
			report.Fallbacks++
		}
		analysis = normalizeAnalysis(scene.SceneID, analysis)
		logger.Debug("scene analyzed",
			logging.Int("shot_count", len(analysis.Shots)),
			logging.Int("key_moment_count", len(analysis.KeyMoments)),
		)
		analyses = append(analyses, analysis)
	}

	if err := s.store.SaveSceneAnalyses(ctx, analyses); err != nil {
		return report, services.Wrap(services.ErrTransient, StageAnalysis, "save analyses", "", err)
	}
	report.Saved = len(analyses)
	logging.WithContext(ctx, s.logger).Info("scene analyses stored",
		logging.Int("analysis_count", len(analyses)),
		logging.Int("skipped_scenes", report.Skipped),
	)
	return report, nil
}
