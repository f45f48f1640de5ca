package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Stage names used in logs, reports and the run context.
const (
	StageBreakdown  = "breakdown"
	StageAnalysis   = "analysis"
	StageVisualPlan = "visual_plan"
	StageJoin       = "join"
)

// Stage is a single step of the storyboard pipeline.
type Stage interface {
	Name() string
	Execute(ctx context.Context) (Report, error)
}

// loggerAware stages accept a logger enriched with run and stage fields
// before they execute.
type loggerAware interface {
	SetLogger(*slog.Logger)
}

// Report summarizes what a stage wrote.
type Report struct {
	Stage     string        `json:"stage"`
	Saved     int           `json:"saved"`
	Fallbacks int           `json:"fallbacks"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration_ns"`
}
