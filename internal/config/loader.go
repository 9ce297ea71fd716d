package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Loader handles configuration loading.
type Loader struct {
	configPath string
}

// NewLoader creates a config loader. An empty path falls back to
// vachanamrut.json in the working directory.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load reads the config file, applies environment overrides, and fills
// defaults. A missing config file is not an error; env-only setups are the
// common deployment.
func (l *Loader) Load() (*Config, error) {
	configPath := l.configPath
	if configPath == "" {
		configPath = "vachanamrut.json"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		v := viper.New()
		v.SetConfigFile(configPath)
		v.SetConfigType("json")
		v.SetEnvPrefix("VACHANAMRUT")
		v.AutomaticEnv()

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	// Deployment environment variables take precedence over file values.
	if key := os.Getenv("GOOGLE_AI_API_KEY"); key != "" {
		cfg.GoogleAI.APIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if dir := os.Getenv("HISTORY_DIR"); dir != "" {
		cfg.History.Dir = dir
	}

	return cfg, nil
}
