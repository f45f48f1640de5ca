package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeLLM()
	c.normalizePipeline()
	if err := c.normalizeHandoff(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.DatabaseFile = strings.TrimSpace(c.Storage.DatabaseFile)
	if c.Storage.DatabaseFile == "" {
		c.Storage.DatabaseFile = defaultDatabaseFile
	}
	if c.Storage.BusyTimeoutMS <= 0 {
		c.Storage.BusyTimeoutMS = defaultBusyTimeoutMS
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		for _, name := range []string{"HITCHCOCK_LLM_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY"} {
			if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
				c.LLM.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
}

func (c *Config) normalizePipeline() {
	levels := make([]string, 0, len(c.Pipeline.AnalyzeImportance))
	seen := make(map[string]struct{}, len(c.Pipeline.AnalyzeImportance))
	for _, level := range c.Pipeline.AnalyzeImportance {
		normalized := strings.ToLower(strings.TrimSpace(level))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		levels = append(levels, normalized)
	}
	if len(levels) == 0 {
		levels = []string{defaultImportanceLevel, secondImportanceLevel}
	}
	c.Pipeline.AnalyzeImportance = levels
	if c.Pipeline.MaxScriptChars <= 0 {
		c.Pipeline.MaxScriptChars = defaultMaxScriptChars
	}
}

func (c *Config) normalizeHandoff() error {
	var err error
	if strings.TrimSpace(c.Handoff.ImageDir) == "" {
		c.Handoff.ImageDir = defaultImageDir
	}
	if c.Handoff.ImageDir, err = expandPath(c.Handoff.ImageDir); err != nil {
		return fmt.Errorf("handoff.image_dir: %w", err)
	}
	if strings.TrimSpace(c.Handoff.AudioDir) == "" {
		c.Handoff.AudioDir = defaultAudioDir
	}
	if c.Handoff.AudioDir, err = expandPath(c.Handoff.AudioDir); err != nil {
		return fmt.Errorf("handoff.audio_dir: %w", err)
	}
	c.Handoff.ImageFormat = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Handoff.ImageFormat)), ".")
	if c.Handoff.ImageFormat == "" {
		c.Handoff.ImageFormat = defaultImageFormat
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
