package testsupport

import (
	"context"
	"testing"

	"hitchcock/internal/store"
	"hitchcock/internal/storyboard"
)

// SampleScene returns a scene with two characters.
func SampleScene(id string) storyboard.Scene {
	return storyboard.Scene{
		SceneID:     id,
		Title:       "The Lighthouse",
		ScriptText:  "INT. LIGHTHOUSE - NIGHT. Mei climbs the stairs while Thaddeus waits below.",
		Importance:  storyboard.ImportanceCritical,
		Description: "Mei climbs the lighthouse.",
		Characters:  []string{"Mei", "Thaddeus"},
	}
}

// SampleAnalysis returns an analysis with an establishing and an action shot.
func SampleAnalysis(id string) storyboard.SceneAnalysis {
	return storyboard.SceneAnalysis{
		SceneID:    id,
		KeyMoments: []string{"Mei reaches the lamp", "The beam sweeps the sea"},
		Shots: []storyboard.Shot{
			{
				Type:           "establishing",
				Camera:         "wide shot",
				Description:    "The lighthouse against the storm.",
				Duration:       "3-4 seconds",
				CameraMovement: "slow push",
				Focus:          "lighthouse",
			},
			{
				Type:        "action",
				Camera:      "medium shot",
				Description: "Mei climbs.",
				Duration:    "4-5 seconds",
			},
		},
		Setting:   "A lighthouse on a cliff",
		Mood:      "tense",
		Pacing:    storyboard.PacingMedium,
		TimeOfDay: "night",
	}
}

// SamplePlan returns a visual plan with one prop and one effect.
func SamplePlan(id string) storyboard.VisualPlan {
	return storyboard.VisualPlan{
		SceneID:        id,
		Lighting:       "Cold moonlight",
		Atmosphere:     "Brooding",
		Props:          []string{"lantern"},
		SpecialEffects: []string{"fog"},
	}
}

// SeedScene saves the sample scene, analysis and plan for id.
func SeedScene(t testing.TB, st *store.Store, id string) {
	t.Helper()

	ctx := context.Background()
	if err := st.SaveScenes(ctx, []storyboard.Scene{SampleScene(id)}); err != nil {
		t.Fatalf("SaveScenes: %v", err)
	}
	if err := st.SaveSceneAnalyses(ctx, []storyboard.SceneAnalysis{SampleAnalysis(id)}); err != nil {
		t.Fatalf("SaveSceneAnalyses: %v", err)
	}
	if err := st.SaveVisualPlans(ctx, []storyboard.VisualPlan{SamplePlan(id)}); err != nil {
		t.Fatalf("SaveVisualPlans: %v", err)
	}
}
