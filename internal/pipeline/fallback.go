package pipeline

import (
	"fmt"

	"hitchcock/internal/storyboard"
)

const (
	fallbackSceneID        = "error_001"
	fallbackSceneTitle     = "Error Processing Scene"
	fallbackScriptRunes    = 100
	fallbackSceneCharacter = "Unknown"
	fallbackSceneSummary   = "Error occurred during scene analysis"
)

// FallbackScenes is stored when the script cannot be broken down.
func FallbackScenes(script string) []storyboard.Scene {
	excerpt := []rune(script)
	if len(excerpt) > fallbackScriptRunes {
		excerpt = excerpt[:fallbackScriptRunes]
	}
	return []storyboard.Scene{{
		SceneID:     fallbackSceneID,
		Title:       fallbackSceneTitle,
		ScriptText:  string(excerpt) + "...",
		Importance:  storyboard.ImportanceMedium,
		Description: fallbackSceneSummary,
		Characters:  []string{fallbackSceneCharacter},
	}}
}

// FallbackAnalysis is stored for a scene whose analysis failed: an
// establishing wide shot followed by a medium shot on the main character.
func FallbackAnalysis(scene storyboard.Scene) storyboard.SceneAnalysis {
	return storyboard.SceneAnalysis{
		SceneID:    scene.SceneID,
		KeyMoments: []string{"Scene start", "Main action", "Scene end"},
		Shots: []storyboard.Shot{
			{
				Type:           "establishing",
				Camera:         "wide shot",
				Description:    fmt.Sprintf("Establish the scene: %s", scene.Description),
				Duration:       "3-4 seconds",
				CameraMovement: "static",
				Focus:          "Overall setting",
			},
			{
				Type:           "medium",
				Camera:         "medium shot",
				Description:    "Focus on main character action",
				Duration:       "4-5 seconds",
				CameraMovement: "static",
				Focus:          "Main character",
			},
		},
		Setting:   scene.Description,
		Mood:      "neutral",
		Pacing:    storyboard.PacingMedium,
		TimeOfDay: "day",
	}
}

// FallbackVisualPlan is stored when a visual plan cannot be produced.
func FallbackVisualPlan(sceneID string) storyboard.VisualPlan {
	return storyboard.VisualPlan{
		SceneID:        sceneID,
		Lighting:       "Natural morning light with fog",
		Atmosphere:     "Mysterious and tense",
		Props:          []string{"Fallen trees", "Moss-covered rocks"},
		SpecialEffects: []string{"Morning mist", "Dappled sunlight"},
	}
}
