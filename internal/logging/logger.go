// Package logging builds the zap logger used by focusgfx and hands out one named child
// logger per pipeline stage.
//
// Verbosity comes from the command line (-q, -v, -vv, -vvv) and falls back to the
// configured level. Console output always goes to stderr; logging.file adds a second sink.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"focusgfx/internal/config"
)

// Category names a pipeline stage logger.
type Category string

const (
	CategoryExtract Category = "extract" // Source scanning
	CategoryFilter  Category = "filter"  // Dedup and selection rules
	CategoryResolve Category = "resolve" // Icon lookup and placeholders
	CategoryEmit    Category = "emit"    // Rendering and output writes
	CategoryReport  Category = "report"  // Run report
	CategoryWatch   Category = "watch"   // Watch mode
)

// Categories lists every stage logger name.
var Categories = []Category{
	CategoryExtract,
	CategoryFilter,
	CategoryResolve,
	CategoryEmit,
	CategoryReport,
	CategoryWatch,
}

// Verbosity levels as counted from -v flags.
const (
	VerbosityDefault = 0
	VerbosityInfo    = 1
	VerbosityDebug   = 2
	VerbosityTrace   = 3
)

// Options selects how the root logger is built.
type Options struct {
	Verbosity int
	Quiet     bool
	Config    config.LoggingConfig
}

// Level maps command-line verbosity onto a zap level. Flags win over the configured level;
// an unknown or empty configured level means warn.
func Level(verbosity int, quiet bool, configured string) zapcore.Level {
	switch {
	case quiet:
		return zapcore.ErrorLevel
	case verbosity >= VerbosityDebug:
		return zapcore.DebugLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(configured)); err != nil || configured == "" {
		return zapcore.WarnLevel
	}
	return lvl
}

// New builds the root logger.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(Level(opts.Verbosity, opts.Quiet, opts.Config.Level))
	cfg.Sampling = nil
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true

	if opts.Config.Format == "json" {
		cfg.Encoding = "json"
	} else {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	}

	if opts.Verbosity >= VerbosityTrace {
		cfg.Development = true
		cfg.DisableCaller = false
		cfg.DisableStacktrace = false
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if opts.Config.File != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, opts.Config.File)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Set hands out named stage loggers derived from one root logger.
type Set struct {
	root *zap.Logger
	cfg  config.LoggingConfig

	mu      sync.Mutex
	loggers map[Category]*zap.Logger
}

// NewSet wraps root. A nil root yields no-op loggers.
func NewSet(root *zap.Logger, cfg config.LoggingConfig) *Set {
	if root == nil {
		root = zap.NewNop()
	}
	return &Set{root: root, cfg: cfg, loggers: make(map[Category]*zap.Logger)}
}

// Root returns the unnamed root logger.
func (s *Set) Root() *zap.Logger {
	return s.root
}

// Get returns the logger for category. Categories disabled in logging.categories get a
// no-op logger.
func (s *Set) Get(category Category) *zap.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.loggers[category]; ok {
		return l
	}
	l := zap.NewNop()
	if s.cfg.IsCategoryEnabled(string(category)) {
		l = s.root.Named(string(category))
	}
	s.loggers[category] = l
	return l
}

// Sync flushes the root logger.
func (s *Set) Sync() error {
	return s.root.Sync()
}
