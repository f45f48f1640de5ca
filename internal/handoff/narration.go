package handoff

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"hitchcock/internal/storyboard"
)

// NarrationSource loads the specs and the scene scripts narrated for them.
type NarrationSource interface {
	LoadShotImageSpecs(ctx context.Context) ([]storyboard.ShotImageSpec, error)
	ScriptText(ctx context.Context, sceneID string) (string, bool, error)
}

// NarrationRequest asks an audio collaborator to voice one scene.
type NarrationRequest struct {
	SceneID    string `json:"scene_id"`
	ScriptText string `json:"script_text"`
	FileName   string `json:"file_name"`
	OutputPath string `json:"output_path,omitempty"`
}

// NarrationRequests returns one request per scene referenced by a shot image
// spec, in first-seen order. Scenes without stored script text are skipped.
func NarrationRequests(ctx context.Context, src NarrationSource, outputDir string) ([]NarrationRequest, error) {
	specs, err := src.LoadShotImageSpecs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shot image specs: %w", err)
	}

	seen := make(map[string]struct{})
	requests := make([]NarrationRequest, 0)
	for _, spec := range specs {
		if _, dup := seen[spec.SceneID]; dup {
			continue
		}
		seen[spec.SceneID] = struct{}{}

		text, ok, err := src.ScriptText(ctx, spec.SceneID)
		if err != nil {
			return nil, fmt.Errorf("load script for scene %q: %w", spec.SceneID, err)
		}
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		req := NarrationRequest{
			SceneID:    spec.SceneID,
			ScriptText: text,
			FileName:   spec.SceneID + ".mp3",
		}
		if outputDir != "" {
			req.OutputPath = filepath.Join(outputDir, req.FileName)
		}
		requests = append(requests, req)
	}
	return requests, nil
}
