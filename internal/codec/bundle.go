package codec

import (
	"context"
	"fmt"

	"hitchcock/internal/storyboard"
)

// Source loads every entity kind.
type Source interface {
	LoadScenes(ctx context.Context) ([]storyboard.Scene, error)
	LoadSceneAnalyses(ctx context.Context) ([]storyboard.SceneAnalysis, error)
	LoadVisualPlans(ctx context.Context) ([]storyboard.VisualPlan, error)
	LoadShotImageSpecs(ctx context.Context) ([]storyboard.ShotImageSpec, error)
}

// Sink saves every entity kind.
type Sink interface {
	SaveScenes(ctx context.Context, scenes []storyboard.Scene) error
	SaveSceneAnalyses(ctx context.Context, analyses []storyboard.SceneAnalysis) error
	SaveVisualPlans(ctx context.Context, plans []storyboard.VisualPlan) error
	SaveShotImageSpecs(ctx context.Context, specs []storyboard.ShotImageSpec) error
}

// Collect loads the whole storyboard into a bundle.
func Collect(ctx context.Context, src Source) (*Bundle, error) {
	bundle := &Bundle{Version: BundleVersion}
	var err error
	if bundle.Scenes, err = src.LoadScenes(ctx); err != nil {
		return nil, fmt.Errorf("load scenes: %w", err)
	}
	if bundle.Analyses, err = src.LoadSceneAnalyses(ctx); err != nil {
		return nil, fmt.Errorf("load scene analyses: %w", err)
	}
	if bundle.VisualPlans, err = src.LoadVisualPlans(ctx); err != nil {
		return nil, fmt.Errorf("load visual plans: %w", err)
	}
	if bundle.ShotImageSpecs, err = src.LoadShotImageSpecs(ctx); err != nil {
		return nil, fmt.Errorf("load shot image specs: %w", err)
	}
	return bundle, nil
}

// Apply saves a bundle in pipeline order. Each entity is saved in its own
// transaction, so a failure leaves the earlier entities stored.
func Apply(ctx context.Context, sink Sink, bundle *Bundle) error {
	if bundle == nil {
		return nil
	}
	if bundle.Version > BundleVersion {
		return fmt.Errorf("bundle version %d is newer than supported version %d", bundle.Version, BundleVersion)
	}
	if err := sink.SaveScenes(ctx, bundle.Scenes); err != nil {
		return fmt.Errorf("import scenes: %w", err)
	}
	if err := sink.SaveSceneAnalyses(ctx, bundle.Analyses); err != nil {
		return fmt.Errorf("import scene analyses: %w", err)
	}
	if err := sink.SaveVisualPlans(ctx, bundle.VisualPlans); err != nil {
		return fmt.Errorf("import visual plans: %w", err)
	}
	if err := sink.SaveShotImageSpecs(ctx, bundle.ShotImageSpecs); err != nil {
		return fmt.Errorf("import shot image specs: %w", err)
	}
	return nil
}

// Counts reports how many entities of each kind a bundle holds.
func (b *Bundle) Counts() map[string]int {
	return map[string]int{
		"scenes":           len(b.Scenes),
		"scene_analyses":   len(b.Analyses),
		"visual_plans":     len(b.VisualPlans),
		"shot_image_specs": len(b.ShotImageSpecs),
	}
}
