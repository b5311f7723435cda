package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"focusgfx/internal/extract"
	"focusgfx/internal/fsutil"
	"focusgfx/internal/gfx"
	"focusgfx/internal/report"
	"focusgfx/internal/resolve"
)

// FileName is the config file looked up in the working directory when --config is not given.
const FileName = ".focusgfx.yaml"

// Config holds all focusgfx configuration.
type Config struct {
	// Mod layout
	ModRoot             string `yaml:"mod_root"`
	GameRoot            string `yaml:"game_root"`
	IconsPath           string `yaml:"icons_path"`
	DefaultImage        string `yaml:"default_image"`
	GeneratePlaceholder bool   `yaml:"generate_placeholder"`

	// Source scanning
	Keyword string `yaml:"keyword"`

	// Identifier selection
	Filter FilterConfig `yaml:"filter"`

	// Output file
	Output OutputConfig `yaml:"output"`

	// Run report
	Report ReportConfig `yaml:"report"`

	// Strict turns "no entries" and "nothing selected" into errors.
	Strict bool `yaml:"strict"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// FilterConfig configures identifier filtering.
type FilterConfig struct {
	Prefix  string   `yaml:"prefix"`
	Suffix  string   `yaml:"suffix"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// OutputConfig configures the generated interface file.
type OutputConfig struct {
	Style     string `yaml:"style"` // standard, compact, pretty
	Indent    int    `yaml:"indent"`
	Versioned bool   `yaml:"versioned"`
	Backup    bool   `yaml:"backup"`
}

// ReportConfig configures the optional run report.
type ReportConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // txt, json, csv, md, yaml
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		IconsPath:    resolve.DefaultIconsPath,
		DefaultImage: resolve.DefaultImage,
		Keyword:      extract.DefaultKeyword,

		Output: OutputConfig{
			Style:  gfx.StyleStandard.String(),
			Indent: 4,
			Backup: true,
		},

		Report: ReportConfig{
			Format: string(report.FormatText),
		},

		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing file means defaults plus environment.
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fsutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FOCUSGFX_MOD_ROOT"); v != "" {
		c.ModRoot = v
	}
	if v := os.Getenv("FOCUSGFX_GAME_ROOT"); v != "" {
		c.GameRoot = v
	}
	if v := os.Getenv("FOCUSGFX_DEFAULT_IMAGE"); v != "" {
		c.DefaultImage = v
	}
	if v := os.Getenv("FOCUSGFX_ICONS_PATH"); v != "" {
		c.IconsPath = v
	}
	if v := os.Getenv("FOCUSGFX_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := gfx.ParseStyle(c.Output.Style); err != nil {
		return err
	}
	if !gfx.ValidIndent(c.Output.Indent) {
		return fmt.Errorf("invalid indent: %d (valid: %v)", c.Output.Indent, gfx.ValidIndents)
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return err
	}
	if filepath.IsAbs(c.IconsPath) {
		return fmt.Errorf("icons path must be relative to the mod root: %s", c.IconsPath)
	}
	if c.ModRoot == "" {
		if c.IconsPath != "" && c.IconsPath != resolve.DefaultIconsPath {
			return fmt.Errorf("--icons-path requires --mod-root")
		}
		if c.GeneratePlaceholder {
			return fmt.Errorf("--generate-placeholder requires --mod-root")
		}
	}
	if c.ModRoot != "" && !fsutil.Exists(c.ModRoot) {
		return fmt.Errorf("mod root does not exist: %s", c.ModRoot)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

// Style returns the parsed output style. Call Validate first.
func (c *Config) Style() gfx.Style {
	s, err := gfx.ParseStyle(c.Output.Style)
	if err != nil {
		return gfx.StyleStandard
	}
	return s
}

// ReportFormat returns the parsed report format. Call Validate first.
func (c *Config) ReportFormat() report.Format {
	f, err := report.ParseFormat(c.Report.Format)
	if err != nil {
		return report.FormatText
	}
	return f
}
