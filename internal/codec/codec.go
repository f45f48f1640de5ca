package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"hitchcock/internal/storyboard"
)

// BundleVersion is written into every exported bundle.
const BundleVersion = 1

// Bundle is a complete storyboard in one document.
type Bundle struct {
	Version        int                        `json:"version" yaml:"version"`
	Scenes         []storyboard.Scene         `json:"scenes" yaml:"scenes"`
	Analyses       []storyboard.SceneAnalysis `json:"scene_analyses" yaml:"scene_analyses"`
	VisualPlans    []storyboard.VisualPlan    `json:"visual_plans" yaml:"visual_plans"`
	ShotImageSpecs []storyboard.ShotImageSpec `json:"shot_image_specs" yaml:"shot_image_specs"`
}

// Importer parses a bundle from a reader.
type Importer interface {
	Parse(r io.Reader) (*Bundle, error)
	Format() string
}

// Exporter writes a bundle to a writer.
type Exporter interface {
	Export(bundle *Bundle, w io.Writer) error
	Format() string
}

// Codec is both an Importer and an Exporter.
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for "json" or "yaml" ("yml" is accepted).
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported bundle format %q (expected json or yaml)", format)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to json.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
