package handoff

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"hitchcock/internal/storyboard"
)

const (
	defaultCameraAngle = "wide"
	defaultLighting    = "natural daylight"
	defaultMood        = "neutral"
	defaultColors      = "natural, vibrant"
	defaultKeyElements = "detailed composition, high quality"
	defaultImageFormat = "jpg"
)

var knownCameraAngles = map[string]struct{}{
	"wide":             {},
	"medium":           {},
	"close_up":         {},
	"extreme_close_up": {},
	"birds_eye":        {},
	"low_angle":        {},
	"dutch_angle":      {},
	"over_shoulder":    {},
}

// SpecSource loads shot image specs.
type SpecSource interface {
	LoadShotImageSpecs(ctx context.Context) ([]storyboard.ShotImageSpec, error)
	GetShotImageSpecsBySceneID(ctx context.Context, sceneID string) ([]storyboard.ShotImageSpec, error)
}

// ImageOptions controls where image requests point.
type ImageOptions struct {
	OutputDir string
	Format    string
}

// Visuals is the style block of an image request.
type Visuals struct {
	Lighting    string `json:"lighting"`
	Colors      string `json:"colors"`
	KeyElements string `json:"key_elements"`
	Mood        string `json:"mood"`
}

// ImageRequest asks an image collaborator to render one shot.
type ImageRequest struct {
	ShotID      string   `json:"shot_id"`
	SceneID     string   `json:"scene_id"`
	Prompt      string   `json:"prompt"`
	Description string   `json:"description"`
	CameraAngle string   `json:"camera_angle"`
	AspectRatio string   `json:"aspect_ratio"`
	Visuals     Visuals  `json:"visuals"`
	Characters  []string `json:"characters"`
	FileName    string   `json:"file_name"`
	OutputPath  string   `json:"output_path,omitempty"`
}

// ImageRequests builds one request per shot image spec. An empty sceneID
// covers every stored spec.
func ImageRequests(ctx context.Context, src SpecSource, sceneID string, opts ImageOptions) ([]ImageRequest, error) {
	var (
		specs []storyboard.ShotImageSpec
		err   error
	)
	if strings.TrimSpace(sceneID) == "" {
		specs, err = src.LoadShotImageSpecs(ctx)
	} else {
		specs, err = src.GetShotImageSpecsBySceneID(ctx, sceneID)
	}
	if err != nil {
		return nil, fmt.Errorf("load shot image specs: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(opts.Format)), ".")
	if format == "" {
		format = defaultImageFormat
	}

	requests := make([]ImageRequest, 0, len(specs))
	for _, spec := range specs {
		requests = append(requests, imageRequest(spec, format, opts.OutputDir))
	}
	return requests, nil
}

func imageRequest(spec storyboard.ShotImageSpec, format, outputDir string) ImageRequest {
	angle := CameraAngle(spec.CameraSpecs.Type)
	visuals := Visuals{
		Lighting:    valueOr(spec.VisualElements.Lighting, defaultLighting),
		Colors:      defaultColors,
		KeyElements: defaultKeyElements,
		Mood:        valueOr(spec.VisualElements.Atmosphere, defaultMood),
	}
	req := ImageRequest{
		ShotID:      spec.ShotID,
		SceneID:     spec.SceneID,
		Description: spec.Description,
		CameraAngle: angle,
		AspectRatio: AspectRatio(angle),
		Visuals:     visuals,
		Characters:  append([]string{}, spec.Characters...),
		FileName:    spec.ShotID + "." + format,
	}
	req.Prompt = imagePrompt(req)
	if outputDir != "" {
		req.OutputPath = filepath.Join(outputDir, req.FileName)
	}
	return req
}

func imagePrompt(req ImageRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Camera angle: %s. %s", req.CameraAngle, req.Description)
	if len(req.Characters) > 0 {
		fmt.Fprintf(&b, "\nCharacters: %s", strings.Join(req.Characters, ", "))
	}
	fmt.Fprintf(&b, "\nVisual style: lighting: %s, colors: %s, key_elements: %s, mood: %s",
		req.Visuals.Lighting, req.Visuals.Colors, req.Visuals.KeyElements, req.Visuals.Mood)
	return b.String()
}

// CameraAngle maps a shot's camera type ("close-up shot", "Wide Shot") onto
// the angle vocabulary image collaborators accept. Unknown or empty types
// map to "wide".
func CameraAngle(cameraType string) string {
	angle := strings.ToLower(strings.TrimSpace(cameraType))
	angle = strings.TrimSpace(strings.ReplaceAll(angle, " shot", ""))
	angle = strings.NewReplacer("-", "_", " ", "_", "'", "").Replace(angle)
	if _, ok := knownCameraAngles[angle]; ok {
		return angle
	}
	return defaultCameraAngle
}

// AspectRatio picks the frame shape for a camera angle.
func AspectRatio(angle string) string {
	switch angle {
	case "wide", "birds_eye":
		return "16:9"
	case "close_up", "extreme_close_up":
		return "4:3"
	default:
		return "3:2"
	}
}

func valueOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
