// Package config loads and validates the backend configuration.
package config

// Config is the full backend configuration.
type Config struct {
	Server   ServerConfig   `json:"server" mapstructure:"server"`
	GoogleAI GoogleAIConfig `json:"google_ai" mapstructure:"google_ai"`
	History  HistoryConfig  `json:"history" mapstructure:"history"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// GoogleAIConfig holds Gemini API settings. The API key may also come from
// the GOOGLE_AI_API_KEY environment variable.
type GoogleAIConfig struct {
	APIKey         string `json:"api_key" mapstructure:"api_key"`
	BaseURL        string `json:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// HistoryConfig holds the session store settings.
type HistoryConfig struct {
	Dir       string  `json:"dir" mapstructure:"dir"`
	Threshold float64 `json:"threshold" mapstructure:"threshold"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 4000,
		},
		GoogleAI: GoogleAIConfig{
			TimeoutSeconds: 60,
		},
		History: HistoryConfig{
			Dir:       "history",
			Threshold: 0.8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}
