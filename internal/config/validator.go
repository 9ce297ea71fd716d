package config

import "fmt"

// Validate checks that the configuration can actually run the backend.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.GoogleAI.APIKey == "" {
		return fmt.Errorf("google AI API key is required (set GOOGLE_AI_API_KEY)")
	}
	if c.GoogleAI.TimeoutSeconds < 0 {
		return fmt.Errorf("google AI timeout cannot be negative")
	}
	if c.History.Dir == "" {
		return fmt.Errorf("history directory cannot be empty")
	}
	if c.History.Threshold <= 0 || c.History.Threshold > 1 {
		return fmt.Errorf("history threshold must be in (0, 1], got %v", c.History.Threshold)
	}
	return nil
}
