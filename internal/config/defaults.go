package config

const (
	defaultConfigPath      = "~/.config/hitchcock/config.toml"
	defaultDataDir         = "~/.local/share/hitchcock"
	defaultLogDir          = "~/.local/share/hitchcock/logs"
	defaultExportDir       = "~/.local/share/hitchcock/exports"
	defaultDatabaseFile    = "storyboard.db"
	defaultBusyTimeoutMS   = 5000
	defaultLLMBaseURL      = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel        = "openai/gpt-4o"
	defaultLLMReferer      = "https://github.com/ayushnangia/hitchcock"
	defaultLLMTitle        = "Hitchcock Storyboard"
	defaultLLMTimeout      = 60
	defaultMaxScriptChars  = 60000
	defaultImageDir        = "~/.local/share/hitchcock/images"
	defaultAudioDir        = "~/.local/share/hitchcock/audio"
	defaultImageFormat     = "jpg"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultImportanceLevel = "critical"
	secondImportanceLevel  = "high"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Storage: Storage{
			DatabaseFile:  defaultDatabaseFile,
			BusyTimeoutMS: defaultBusyTimeoutMS,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Pipeline: Pipeline{
			AnalyzeImportance: []string{defaultImportanceLevel, secondImportanceLevel},
			MaxScriptChars:    defaultMaxScriptChars,
		},
		Handoff: Handoff{
			ImageDir:    defaultImageDir,
			AudioDir:    defaultAudioDir,
			ImageFormat: defaultImageFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
