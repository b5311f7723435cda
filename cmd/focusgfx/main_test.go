package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"focusgfx/internal/config"
	"focusgfx/internal/pipeline"
	"focusgfx/internal/ui"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// resetGlobals puts every flag variable back to its zero value and installs a default
// config with a no-op logger.
func resetGlobals(t *testing.T) {
	t.Helper()
	reset := func() {
		verbosity, quiet, configPath = 0, false, ""
		dryRun, showDiff, force, interactive, watchSource = false, false, false, false, false
		modRoot, gameRoot, iconsPath, defaultImage = "", "", "", ""
		generatePlaceholder, versionedOutput, noBackup, strict = false, false, false, false
		keyword, prefix, suffix, outputFormat, reportPath, reportFormat = "", "", "", "", "", ""
		focusIDs, excludeIDs = nil, nil
		indent = 0
		configInitForce = false
		cfg = config.DefaultConfig()
		logger = zap.NewNop()
		logs = nil
	}
	reset()
	t.Cleanup(reset)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"refused overwrite", fmt.Errorf("out.gfx: %w", pipeline.ErrOverwriteRefused), 1},
		{"interrupted", context.Canceled, 130},
		{"wrapped interrupt", fmt.Errorf("resolving X: %w", context.Canceled), 130},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	plain := ui.PlainStyles()
	assert.Equal(t, "Error: boom", errorMessage(errors.New("boom"), plain))
	assert.Equal(t, "interrupted", errorMessage(fmt.Errorf("resolving X: %w", context.Canceled), plain))
}

func TestApplyFlags_OnlyChanged(t *testing.T) {
	resetGlobals(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindRunFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--prefix", "MOD_",
		"--focus-ids", "MOD_a,MOD_b",
		"--output-format", "pretty",
		"--indent", "2",
		"--no-backup",
		"-p",
		"-m", "/mods/x",
	}))

	c := config.DefaultConfig()
	c.Filter.Suffix = "_end"
	c.Report.Format = "json"
	applyFlags(fs, c)

	assert.Equal(t, "MOD_", c.Filter.Prefix)
	assert.Equal(t, []string{"MOD_a", "MOD_b"}, c.Filter.Include)
	assert.Equal(t, "pretty", c.Output.Style)
	assert.Equal(t, 2, c.Output.Indent)
	assert.False(t, c.Output.Backup)
	assert.True(t, c.GeneratePlaceholder)
	assert.Equal(t, "/mods/x", c.ModRoot)

	// Unset flags leave file values alone.
	assert.Equal(t, "_end", c.Filter.Suffix)
	assert.Equal(t, "json", c.Report.Format)
}

func TestRootCmd_ExclusiveFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"force and interactive", []string{"--force", "--interactive"}, "[force interactive]"},
		{"verbose and quiet", []string{"-v", "-q"}, "[verbose quiet]"},
		{"force alone", []string{"--force", "-vv"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			t.Cleanup(func() {
				rootCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
			})

			require.NoError(t, rootCmd.ParseFlags(tt.args))
			err := rootCmd.ValidateFlagGroups()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	resetGlobals(t)

	t.Run("explicit path must exist", func(t *testing.T) {
		configPath = "/does/not/exist.yaml"
		defer func() { configPath = "" }()
		_, err := loadConfig(pflag.NewFlagSet("test", pflag.ContinueOnError))
		assert.ErrorContains(t, err, "config file not found")
	})

	t.Run("flags beat file", func(t *testing.T) {
		path := t.TempDir() + "/focusgfx.yaml"
		fileCfg := config.DefaultConfig()
		fileCfg.Filter.Prefix = "FILE_"
		fileCfg.Keyword = "shared_focus"
		require.NoError(t, fileCfg.Save(path))

		configPath = path
		defer func() { configPath = "" }()

		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		bindRunFlags(fs)
		require.NoError(t, fs.Parse([]string{"--prefix", "FLAG_"}))

		c, err := loadConfig(fs)
		require.NoError(t, err)
		assert.Equal(t, "FLAG_", c.Filter.Prefix)
		assert.Equal(t, "shared_focus", c.Keyword)
	})
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}
