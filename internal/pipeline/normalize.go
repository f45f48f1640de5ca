package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hitchcock/internal/storyboard"
)

// normalizeScenes fills missing ids, clamps importance to the known values
// and cleans up character lists. Duplicate ids get a numeric suffix so no
// scene overwrites another.
func normalizeScenes(scenes []storyboard.Scene) []storyboard.Scene {
	out := make([]storyboard.Scene, 0, len(scenes))
	seen := make(map[string]int, len(scenes))
	for i, scene := range scenes {
		id := strings.TrimSpace(scene.SceneID)
		if id == "" {
			id = fmt.Sprintf("scene_%03d", i+1)
		}
		if n := seen[id]; n > 0 {
			seen[id] = n + 1
			id = fmt.Sprintf("%s_%d", id, n+1)
		}
		seen[id]++
		scene.SceneID = id

		importance, ok := storyboard.ParseImportance(string(scene.Importance))
		if !ok {
			importance = storyboard.ImportanceMedium
		}
		scene.Importance = importance
		scene.Title = strings.TrimSpace(scene.Title)
		scene.Description = strings.TrimSpace(scene.Description)
		scene.Characters = normalizeCharacters(scene.Characters)
		out = append(out, scene)
	}
	return out
}

// normalizeCharacters collapses whitespace, title-cases names written in a
// single case (screenplays shout character names) and drops case-insensitive
// duplicates while keeping first-seen order.
func normalizeCharacters(names []string) []string {
	folder := cases.Fold()
	titler := cases.Title(language.Und)
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		display := displayName(titler, name)
		if display == "" {
			continue
		}
		key := folder.String(display)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, display)
	}
	return out
}

func displayName(titler cases.Caser, name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	if name == strings.ToUpper(name) || name == strings.ToLower(name) {
		return titler.String(name)
	}
	return name
}

// normalizeAnalysis pins the analysis to sceneID and replaces unknown pacing
// with medium.
func normalizeAnalysis(sceneID string, analysis storyboard.SceneAnalysis) storyboard.SceneAnalysis {
	analysis.SceneID = sceneID
	switch pacing := storyboard.Pacing(strings.ToLower(strings.TrimSpace(string(analysis.Pacing)))); pacing {
	case storyboard.PacingSlow, storyboard.PacingMedium, storyboard.PacingFast:
		analysis.Pacing = pacing
	default:
		analysis.Pacing = storyboard.PacingMedium
	}
	analysis.KeyMoments = trimValues(analysis.KeyMoments)
	if analysis.Shots == nil {
		analysis.Shots = []storyboard.Shot{}
	}
	return analysis
}

// normalizePlan pins the plan to sceneID and drops blank and repeated props
// and effects.
func normalizePlan(sceneID string, plan storyboard.VisualPlan) storyboard.VisualPlan {
	plan.SceneID = sceneID
	plan.Lighting = strings.TrimSpace(plan.Lighting)
	plan.Atmosphere = strings.TrimSpace(plan.Atmosphere)
	plan.Props = uniqueValues(plan.Props)
	plan.SpecialEffects = uniqueValues(plan.SpecialEffects)
	return plan
}

func trimValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func uniqueValues(values []string) []string {
	folder := cases.Fold()
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range trimValues(values) {
		key := folder.String(value)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}
