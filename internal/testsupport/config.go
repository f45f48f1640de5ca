package testsupport

import (
	"path/filepath"
	"testing"

	"hitchcock/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The LLM has no API key, so stages run their fallbacks unless a test opts in
// with WithLLM.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")
	cfgVal.Handoff.ImageDir = filepath.Join(base, "images")
	cfgVal.Handoff.AudioDir = filepath.Join(base, "audio")
	cfgVal.LLM.APIKey = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLM points the LLM client at baseURL with the given key.
func WithLLM(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = baseURL
		b.cfg.LLM.APIKey = apiKey
		b.cfg.LLM.TimeoutSeconds = 5
	}
}

// WithAnalyzeImportance overrides which scene importances the analysis stage
// selects.
func WithAnalyzeImportance(levels ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.AnalyzeImportance = append([]string(nil), levels...)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
