package storyboard

import (
	"fmt"
	"strings"
)

// Importance ranks a scene's weight in the story.
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

var knownImportance = map[Importance]struct{}{
	ImportanceCritical: {},
	ImportanceHigh:     {},
	ImportanceMedium:   {},
	ImportanceLow:      {},
}

// ParseImportance normalizes raw text into an Importance. Unknown values
// report ok=false.
func ParseImportance(raw string) (Importance, bool) {
	value := Importance(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := knownImportance[value]
	return value, ok
}

// Pacing describes how quickly a scene plays.
type Pacing string

const (
	PacingSlow   Pacing = "slow"
	PacingMedium Pacing = "medium"
	PacingFast   Pacing = "fast"
)

// Scene is a narrative unit of the script.
type Scene struct {
	SceneID     string     `json:"scene_id" yaml:"scene_id"`
	Title       string     `json:"title" yaml:"title"`
	ScriptText  string     `json:"script_text" yaml:"script_text"`
	Importance  Importance `json:"importance" yaml:"importance"`
	Description string     `json:"description" yaml:"description"`
	Characters  []string   `json:"characters" yaml:"characters"`
}

// Shot is a single camera setup within a scene analysis. It has no identifier
// of its own; its index in SceneAnalysis.Shots is its identity.
type Shot struct {
	Type           string `json:"type" yaml:"type"`
	Camera         string `json:"camera" yaml:"camera"`
	Description    string `json:"description" yaml:"description"`
	Duration       string `json:"duration" yaml:"duration"`
	CameraMovement string `json:"camera_movement" yaml:"camera_movement"`
	Focus          string `json:"focus" yaml:"focus"`
}

// SceneAnalysis holds the shot breakdown and dramatic beats of one scene.
type SceneAnalysis struct {
	SceneID    string   `json:"scene_id" yaml:"scene_id"`
	KeyMoments []string `json:"key_moments" yaml:"key_moments"`
	Shots      []Shot   `json:"shots" yaml:"shots"`
	Setting    string   `json:"setting" yaml:"setting"`
	Mood       string   `json:"mood" yaml:"mood"`
	Pacing     Pacing   `json:"pacing" yaml:"pacing"`
	TimeOfDay  string   `json:"time_of_day" yaml:"time_of_day"`
}

// VisualPlan captures lighting, props, atmosphere and effects for one scene.
type VisualPlan struct {
	SceneID        string   `json:"scene_id" yaml:"scene_id"`
	Lighting       string   `json:"lighting" yaml:"lighting"`
	Atmosphere     string   `json:"atmosphere" yaml:"atmosphere"`
	Props          []string `json:"props" yaml:"props"`
	SpecialEffects []string `json:"special_effects" yaml:"special_effects"`
}

// CameraSpecs is the camera portion of a shot image spec.
type CameraSpecs struct {
	Type     string `json:"type" yaml:"type"`
	Movement string `json:"movement" yaml:"movement"`
	Focus    string `json:"focus" yaml:"focus"`
}

// VisualElements is the look portion of a shot image spec.
type VisualElements struct {
	Lighting   string `json:"lighting" yaml:"lighting"`
	Atmosphere string `json:"atmosphere" yaml:"atmosphere"`
	TimeOfDay  string `json:"time_of_day" yaml:"time_of_day"`
}

// ShotImageSpec is the self-contained description used to generate the image
// for one shot.
type ShotImageSpec struct {
	ShotID         string         `json:"shot_id" yaml:"shot_id"`
	SceneID        string         `json:"scene_id" yaml:"scene_id"`
	Description    string         `json:"description" yaml:"description"`
	CameraSpecs    CameraSpecs    `json:"camera_specs" yaml:"camera_specs"`
	VisualElements VisualElements `json:"visual_elements" yaml:"visual_elements"`
	Props          []string       `json:"props" yaml:"props"`
	SpecialEffects []string       `json:"special_effects" yaml:"special_effects"`
	Characters     []string       `json:"characters" yaml:"characters"`
}

// SceneMetadata summarizes how far a scene has progressed through the
// pipeline.
type SceneMetadata struct {
	SceneID        string     `json:"scene_id"`
	Title          string     `json:"title"`
	Importance     Importance `json:"importance"`
	Description    string     `json:"description"`
	CharacterCount int        `json:"character_count"`
	HasAnalysis    bool       `json:"has_analysis"`
	HasVisualPlan  bool       `json:"has_visual_plan"`
	ShotSpecCount  int        `json:"shot_spec_count"`
}

// ShotID synthesizes the identifier of the shot at the given zero-based
// position within a scene.
func ShotID(sceneID string, position int) string {
	return fmt.Sprintf("%s_shot_%d", sceneID, position+1)
}
