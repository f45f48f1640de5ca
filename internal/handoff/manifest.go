package handoff

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"hitchcock/internal/fileutil"
)

// Manifest file names written into the collaborator directories.
const (
	ImageManifestName = "image_requests.json"
	AudioManifestName = "narration_requests.json"
)

// WriteManifest writes requests as indented JSON to dir/name and returns the
// file path.
func WriteManifest(dir, name string, requests any) (string, error) {
	data, err := json.MarshalIndent(requests, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	target := filepath.Join(dir, name)
	if err := fileutil.WriteFileAtomic(target, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return target, nil
}
