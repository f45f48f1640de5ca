package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"hitchcock/internal/logging"
	"hitchcock/internal/services"
	"hitchcock/internal/store"
)

// BreakdownStage splits a script into scenes and stores them.
type BreakdownStage struct {
	store    *store.Store
	producer Producer
	script   string
	maxChars int
	logger   *slog.Logger
}

// NewBreakdownStage builds the breakdown stage for script. maxChars caps the
// text sent to the producer; zero disables the cap.
func NewBreakdownStage(st *store.Store, producer Producer, script string, maxChars int) *BreakdownStage {
	return &BreakdownStage{store: st, producer: producer, script: script, maxChars: maxChars}
}

func (s *BreakdownStage) Name() string { return StageBreakdown }

func (s *BreakdownStage) SetLogger(logger *slog.Logger) { s.logger = logger }

// Execute stores the scenes of the script, or a single placeholder scene when
// the producer fails.
func (s *BreakdownStage) Execute(ctx context.Context) (Report, error) {
	report := Report{Stage: StageBreakdown}
	script := strings.TrimSpace(s.script)
	if script == "" {
		return report, services.Wrap(services.ErrValidation, StageBreakdown, "read script", "script text is empty", nil)
	}
	logger := logging.WithContext(ctx, s.logger)

	prompt := script
	if runes := []rune(prompt); s.maxChars > 0 && len(runes) > s.maxChars {
		prompt = string(runes[:s.maxChars])
		logger.Info("script truncated for breakdown",
			logging.Int("script_chars", len(runes)),
			logging.Int("max_script_chars", s.maxChars),
		)
	}

	scenes, err := s.producer.BreakdownScript(ctx, prompt)
	if err != nil {
		logging.WarnWithContext(logger, "scene breakdown failed; storing placeholder scene", "breakdown_fallback",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, llmErrorHint(err)),
			logging.String(logging.FieldImpact, "storyboard has a single placeholder scene"),
		)
		scenes = FallbackScenes(script)
		report.Fallbacks = 1
	}
	scenes = normalizeScenes(scenes)

	if err := s.store.SaveScenes(ctx, scenes); err != nil {
		return report, services.Wrap(services.ErrTransient, StageBreakdown, "save scenes", "", err)
	}
	report.Saved = len(scenes)
	logger.Info("scenes stored", logging.Int("scene_count", len(scenes)))
	return report, nil
}
