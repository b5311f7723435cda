package config

import "fmt"

// ValidLogLevels lists the accepted logging.level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // console, json
	File       string          `yaml:"file"`   // extra output path, stderr is always written
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// IsCategoryEnabled reports whether the named stage logger should emit.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	if c.Level != "" {
		ok := false
		for _, l := range ValidLogLevels {
			if c.Level == l {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("invalid log level: %s (valid: %v)", c.Level, ValidLogLevels)
		}
	}
	switch c.Format {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format: %s (valid: console, json)", c.Format)
	}
}
