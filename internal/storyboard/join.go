package storyboard

import "strings"

// Skip reasons reported by BuildShotImageSpecs.
const (
	SkipMissingScene      = "missing_scene"
	SkipMissingVisualPlan = "missing_visual_plan"
)

// SkippedAnalysis records an analysis that produced no specs.
type SkippedAnalysis struct {
	SceneID string
	Reason  string
}

// BuildShotImageSpecs fans each analysis out into one spec per shot by
// combining it with its scene and visual plan. Analyses without a matching
// scene or plan are skipped and reported, never treated as errors.
func BuildShotImageSpecs(scenes []Scene, analyses []SceneAnalysis, plans []VisualPlan) ([]ShotImageSpec, []SkippedAnalysis) {
	sceneByID := make(map[string]Scene, len(scenes))
	for _, scene := range scenes {
		sceneByID[scene.SceneID] = scene
	}
	planByID := make(map[string]VisualPlan, len(plans))
	for _, plan := range plans {
		planByID[plan.SceneID] = plan
	}

	specs := make([]ShotImageSpec, 0)
	var skipped []SkippedAnalysis
	for _, analysis := range analyses {
		scene, ok := sceneByID[analysis.SceneID]
		if !ok {
			skipped = append(skipped, SkippedAnalysis{SceneID: analysis.SceneID, Reason: SkipMissingScene})
			continue
		}
		plan, ok := planByID[analysis.SceneID]
		if !ok {
			skipped = append(skipped, SkippedAnalysis{SceneID: analysis.SceneID, Reason: SkipMissingVisualPlan})
			continue
		}
		for i, shot := range analysis.Shots {
			specs = append(specs, ShotImageSpec{
				ShotID:      ShotID(scene.SceneID, i),
				SceneID:     scene.SceneID,
				Description: strings.TrimSpace(scene.Description + " " + shot.Description),
				CameraSpecs: CameraSpecs{
					Type:     shot.Camera,
					Movement: shot.CameraMovement,
					Focus:    shot.Focus,
				},
				VisualElements: VisualElements{
					Lighting:   plan.Lighting,
					Atmosphere: plan.Atmosphere,
					TimeOfDay:  analysis.TimeOfDay,
				},
				Props:          cloneStrings(plan.Props),
				SpecialEffects: cloneStrings(plan.SpecialEffects),
				Characters:     cloneStrings(scene.Characters),
			})
		}
	}
	return specs, skipped
}

func cloneStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
