package pipeline

import (
	"fmt"
	"strings"

	"hitchcock/internal/storyboard"
)

const breakdownSystemPrompt = `You are a professional script analyst breaking scripts down into structured scene information.
Respond with a JSON object of the form:
{"scenes":[{"scene_id":"scene_001","title":"...","script_text":"...","importance":"critical|high|medium|low","characters":["..."],"description":"..."}]}
Use the script's own wording for script_text. Rank importance by the scene's impact on the story.`

const analysisSystemPrompt = `You are a professional storyboard artist and cinematographer breaking scenes down into shot sequences.
Respond with a JSON object of the form:
{"key_moments":["..."],"shots":[{"type":"establishing|action|reaction|detail","camera":"wide shot|medium shot|close-up|...","description":"...","duration":"3-4 seconds","camera_movement":"static|pan|tilt|dolly|...","focus":"..."}],"setting":"...","mood":"...","pacing":"slow|medium|fast","time_of_day":"..."}`

const visualPlanSystemPrompt = `You are a production designer planning the look of a storyboard scene.
Respond with a JSON object of the form:
{"lighting":"...","atmosphere":"...","props":["..."],"special_effects":["..."]}`

func breakdownPrompt(script string) string {
	var b strings.Builder
	b.WriteString("Break this script down into scenes. For each scene give a unique scene id, a descriptive title, ")
	b.WriteString("the script text of the scene, its importance, the characters present and a brief description.\n\n")
	b.WriteString("Script:\n")
	b.WriteString(script)
	return b.String()
}

func analysisPrompt(scene storyboard.Scene) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", scene.Title)
	fmt.Fprintf(&b, "Description: %s\n", scene.Description)
	fmt.Fprintf(&b, "Characters: %s\n", strings.Join(scene.Characters, ", "))
	fmt.Fprintf(&b, "Script:\n%s\n\n", scene.ScriptText)
	b.WriteString("Identify 3-5 key dramatic moments and design a sequence of shots that captures them. ")
	b.WriteString("Consider setting, mood and pacing. Give each shot a type, camera angle, camera movement, focus and approximate duration.")
	return b.String()
}

func visualPlanPrompt(scene *storyboard.Scene, analysis storyboard.SceneAnalysis) string {
	var b strings.Builder
	if scene != nil {
		fmt.Fprintf(&b, "Title: %s\n", scene.Title)
		fmt.Fprintf(&b, "Description: %s\n", scene.Description)
	}
	fmt.Fprintf(&b, "Setting: %s\n", analysis.Setting)
	fmt.Fprintf(&b, "Mood: %s\n", analysis.Mood)
	fmt.Fprintf(&b, "Time of day: %s\n", analysis.TimeOfDay)
	if len(analysis.KeyMoments) > 0 {
		fmt.Fprintf(&b, "Key moments: %s\n", strings.Join(analysis.KeyMoments, "; "))
	}
	b.WriteString("Shots:\n")
	for i, shot := range analysis.Shots {
		fmt.Fprintf(&b, "%d. %s, %s: %s\n", i+1, shot.Type, shot.Camera, shot.Description)
	}
	b.WriteString("\nPlan the lighting, atmosphere, props and special effects shared by these shots.")
	return b.String()
}
