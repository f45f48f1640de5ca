package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var knownImportance = map[string]struct{}{
	"critical": {},
	"high":     {},
	"medium":   {},
	"low":      {},
}

// Validate ensures the configuration is usable. A missing LLM key is not an
// error: producers fall back to placeholder output without one.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateHandoff(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStorage() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	dbFile := c.Storage.DatabaseFile
	if dbFile == "." || (!filepath.IsAbs(dbFile) && filepath.Base(dbFile) != dbFile) {
		return fmt.Errorf("storage.database_file %q must be a file name or an absolute path", dbFile)
	}
	if c.Storage.BusyTimeoutMS <= 0 {
		return errors.New("storage.busy_timeout_ms must be positive")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if !strings.HasPrefix(c.LLM.BaseURL, "http://") && !strings.HasPrefix(c.LLM.BaseURL, "https://") {
		return fmt.Errorf("llm.base_url %q must be an http(s) URL", c.LLM.BaseURL)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	for _, level := range c.Pipeline.AnalyzeImportance {
		if _, ok := knownImportance[level]; !ok {
			return fmt.Errorf("pipeline.analyze_importance: unknown importance %q (use critical, high, medium or low)", level)
		}
	}
	if c.Pipeline.MaxScriptChars <= 0 {
		return errors.New("pipeline.max_script_chars must be positive")
	}
	return nil
}

func (c *Config) validateHandoff() error {
	switch c.Handoff.ImageFormat {
	case "jpg", "jpeg", "png", "webp":
		return nil
	default:
		return fmt.Errorf("handoff.image_format: unsupported value %q", c.Handoff.ImageFormat)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
