package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	Review    ReviewConfig    `mapstructure:"review" validate:"required"`
	Translate TranslateConfig `mapstructure:"translate" validate:"required"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json text"`
}

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// StorageConfig selects where the vocabulary collection lives.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=json sqlite"`
	// Path is the JSON file or sqlite database file. A leading ~ is expanded.
	Path string `mapstructure:"path" validate:"required"`
}

// ReviewConfig contains review session defaults.
type ReviewConfig struct {
	Limit int    `mapstructure:"limit" validate:"gt=0"`
	Mode  string `mapstructure:"mode" validate:"required,oneof=word-first definition-first"`
}

// Translation providers.
const (
	ProviderMyMemory = "mymemory"
	ProviderGemini   = "gemini"
	ProviderNone     = "none"
)

// TranslateConfig contains settings for the word lookup collaborator.
type TranslateConfig struct {
	Provider          string  `mapstructure:"provider" validate:"required,oneof=mymemory gemini none"`
	Endpoint          string  `mapstructure:"endpoint" validate:"omitempty,url"`
	LangPair          string  `mapstructure:"lang_pair" validate:"required"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	CacheSize         int     `mapstructure:"cache_size" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Retries           int     `mapstructure:"retries" validate:"gte=0,lte=10"`
	GeminiAPIKey      string  `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	ModelName         string  `mapstructure:"model_name" validate:"required_if=Provider gemini"`
}

// ReminderConfig controls the scheduled due-count digest in the server.
type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}
