package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"hitchcock/internal/config"
	"hitchcock/internal/logging"
	"hitchcock/internal/preflight"
	"hitchcock/internal/services"
	"hitchcock/internal/services/llm"
	"hitchcock/internal/store"
)

// ErrRunInProgress is returned when another process holds the pipeline lock.
var ErrRunInProgress = errors.New("another pipeline run is in progress")

// Runner executes stages against a store while holding the pipeline lock.
type Runner struct {
	cfg      *config.Config
	store    *store.Store
	producer Producer
	logger   *slog.Logger
	lockPath string
}

// NewRunner wires a runner. A nil producer falls back to an LLMProducer built
// from the config.
func NewRunner(cfg *config.Config, st *store.Store, producer Producer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if producer == nil {
		llmCfg := cfg.GetLLM()
		producer = NewLLMProducer(llm.NewClient(llm.Config{
			APIKey:         llmCfg.APIKey,
			BaseURL:        llmCfg.BaseURL,
			Model:          llmCfg.Model,
			Referer:        llmCfg.Referer,
			Title:          llmCfg.Title,
			TimeoutSeconds: llmCfg.TimeoutSeconds,
		}, llm.WithLogger(logging.NewComponentLogger(logger, "llm"))))
	}
	return &Runner{
		cfg:      cfg,
		store:    st,
		producer: producer,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		lockPath: cfg.LockPath(),
	}
}

// BreakdownStage returns the breakdown stage for script.
func (r *Runner) BreakdownStage(script string) Stage {
	return NewBreakdownStage(r.store, r.producer, script, r.cfg.Pipeline.MaxScriptChars)
}

// AnalysisStage returns the analysis stage using the configured importance policy.
func (r *Runner) AnalysisStage() Stage {
	return NewAnalysisStage(r.store, r.producer, r.cfg.Pipeline.AnalyzeImportance)
}

func (r *Runner) VisualPlanStage() Stage {
	return NewVisualPlanStage(r.store, r.producer)
}

func (r *Runner) JoinStage() Stage {
	return NewJoinStage(r.store)
}

// Run executes all four stages for script.
func (r *Runner) Run(ctx context.Context, script string) ([]Report, error) {
	return r.RunStages(ctx,
		r.BreakdownStage(script),
		r.AnalysisStage(),
		r.VisualPlanStage(),
		r.JoinStage(),
	)
}

// RunStages executes stages in order under the pipeline lock and a fresh run
// id. It stops at the first failing stage and returns the reports of the
// stages that completed.
func (r *Runner) RunStages(ctx context.Context, stages ...Stage) ([]Report, error) {
	if len(stages) == 0 {
		return nil, nil
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "prepare directories", "", err)
	}
	if failed := preflight.Failed(preflight.RunAll(ctx, r.cfg, preflight.Options{SkipLLM: true})); len(failed) > 0 {
		detail := fmt.Sprintf("%s: %s", failed[0].Name, failed[0].Detail)
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "preflight", detail, nil)
	}

	lock := flock.New(r.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire pipeline lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunInProgress, r.lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release pipeline lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.String(logging.FieldErrorHint, "remove the lock file if no run is active"),
				logging.String(logging.FieldImpact, "next run may report a run in progress"),
			)
		}
	}()

	runCtx := services.WithRunID(ctx, uuid.NewString())
	runLogger := logging.WithContext(runCtx, r.logger)
	runLogger.Info("pipeline run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("stage_count", len(stages)),
	)

	reports := make([]Report, 0, len(stages))
	for _, stage := range stages {
		report, err := r.runStage(runCtx, stage)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}

	runLogger.Info("pipeline run completed", logging.String(logging.FieldEventType, "run_complete"))
	return reports, nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage) (Report, error) {
	stageCtx := services.WithStage(ctx, stage.Name())
	stageLogger := logging.WithContext(stageCtx, r.logger)
	if aware, ok := stage.(loggerAware); ok {
		aware.SetLogger(r.logger)
	}

	started := time.Now()
	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

	report, err := stage.Execute(stageCtx)
	report.Stage = stage.Name()
	report.Duration = time.Since(started)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			stageLogger.Debug("stage interrupted")
			return report, err
		}
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.String(logging.FieldErrorKind, services.ErrorKind(err)),
			logging.String(logging.FieldErrorHint, "check database access and rerun the stage"),
			logging.Error(err),
		)
		return report, err
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("saved", report.Saved),
		logging.Int("fallbacks", report.Fallbacks),
		logging.Int("skipped", report.Skipped),
		logging.Duration("duration", report.Duration),
	)
	return report, nil
}

func llmErrorHint(err error) string {
	if errors.Is(err, llm.ErrNotConfigured) {
		return "set llm.api_key or HITCHCOCK_LLM_API_KEY"
	}
	return "run hitchcock status to check LLM connectivity"
}
