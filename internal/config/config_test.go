package config

import (
	"os"
	"path/filepath"
	"testing"

	"focusgfx/internal/gfx"
	"focusgfx/internal/report"
	"focusgfx/internal/resolve"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IconsPath != resolve.DefaultIconsPath {
		t.Errorf("expected IconsPath=%s, got %s", resolve.DefaultIconsPath, cfg.IconsPath)
	}
	if cfg.Keyword != "focus" {
		t.Errorf("expected Keyword=focus, got %s", cfg.Keyword)
	}
	if cfg.Output.Indent != 4 {
		t.Errorf("expected Indent=4, got %d", cfg.Output.Indent)
	}
	if !cfg.Output.Backup {
		t.Error("expected backups enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	// Ensure no env vars interfere
	t.Setenv("FOCUSGFX_MOD_ROOT", "")
	t.Setenv("FOCUSGFX_ICONS_PATH", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", FileName)

	cfg := DefaultConfig()
	cfg.ModRoot = tmpDir
	cfg.Filter.Prefix = "MOD_"
	cfg.Filter.Exclude = []string{"MOD_old"}
	cfg.Output.Style = "pretty"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.ModRoot != tmpDir {
		t.Errorf("expected ModRoot=%s, got %s", tmpDir, loaded.ModRoot)
	}
	if loaded.Filter.Prefix != "MOD_" {
		t.Errorf("expected Prefix=MOD_, got %s", loaded.Filter.Prefix)
	}
	if len(loaded.Filter.Exclude) != 1 || loaded.Filter.Exclude[0] != "MOD_old" {
		t.Errorf("expected Exclude=[MOD_old], got %v", loaded.Filter.Exclude)
	}
	if loaded.Style() != gfx.StylePretty {
		t.Errorf("expected pretty style, got %s", loaded.Style())
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("FOCUSGFX_MOD_ROOT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultImage != resolve.DefaultImage {
		t.Errorf("expected default image, got %s", cfg.DefaultImage)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("output:\n  indent: 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("expected Indent=2, got %d", cfg.Output.Indent)
	}
	if cfg.Output.Style != "standard" {
		t.Errorf("expected Style=standard, got %s", cfg.Output.Style)
	}
	if cfg.Keyword != "focus" {
		t.Errorf("expected Keyword=focus, got %s", cfg.Keyword)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("output: [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	modRoot := t.TempDir()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad style", func(c *Config) { c.Output.Style = "fancy" }, true},
		{"bad indent", func(c *Config) { c.Output.Indent = 3 }, true},
		{"bad report format", func(c *Config) { c.Report.Format = "xml" }, true},
		{"custom icons path needs mod root", func(c *Config) { c.IconsPath = "gfx/custom" }, true},
		{"absolute icons path", func(c *Config) {
			c.ModRoot = modRoot
			c.IconsPath = filepath.Join(modRoot, "gfx", "custom")
		}, true},
		{"relative icons path with mod root", func(c *Config) {
			c.ModRoot = modRoot
			c.IconsPath = "gfx/custom"
		}, false},
		{"placeholder needs mod root", func(c *Config) { c.GeneratePlaceholder = true }, true},
		{"placeholder with mod root", func(c *Config) {
			c.GeneratePlaceholder = true
			c.ModRoot = modRoot
		}, false},
		{"missing mod root", func(c *Config) { c.ModRoot = filepath.Join(modRoot, "nope") }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected valid config, got error: %v", err)
			}
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ReportFormat() != report.FormatText {
		t.Errorf("expected txt report format, got %s", cfg.ReportFormat())
	}
	cfg.Report.Format = "CSV"
	if cfg.ReportFormat() != report.FormatCSV {
		t.Errorf("expected csv report format, got %s", cfg.ReportFormat())
	}
	cfg.Output.Style = "compact"
	if cfg.Style() != gfx.StyleCompact {
		t.Errorf("expected compact style, got %s", cfg.Style())
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	if !lc.IsCategoryEnabled("resolve") {
		t.Error("categories should default to enabled")
	}
	lc.Categories = map[string]bool{"resolve": false}
	if lc.IsCategoryEnabled("resolve") {
		t.Error("resolve should be disabled")
	}
	if !lc.IsCategoryEnabled("emit") {
		t.Error("unlisted category should be enabled")
	}
}
