// Package pipeline runs one focusgfx generation: extract, filter, resolve, emit.
//
// It owns the file policy around the stages: the overwrite check, the backup copy, the
// atomic output write and the optional report file. A Runner keeps no state between runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"focusgfx/internal/config"
	"focusgfx/internal/extract"
	"focusgfx/internal/filter"
	"focusgfx/internal/fsutil"
	"focusgfx/internal/gfx"
	"focusgfx/internal/logging"
	"focusgfx/internal/report"
	"focusgfx/internal/resolve"
)

var (
	// ErrNothingSelected is returned under strict mode when filtering leaves no identifiers.
	ErrNothingSelected = errors.New("no identifiers left after filtering")
	// ErrOverwriteRefused is returned when the output exists and overwriting was not allowed.
	ErrOverwriteRefused = errors.New("output file exists (use --force or --interactive to overwrite)")
)

// OverwritePolicy decides what happens when the output file already exists.
type OverwritePolicy int

const (
	OverwriteRefuse OverwritePolicy = iota
	OverwriteForce
	OverwritePrompt
)

// Prompter asks the user whether an existing output may be replaced.
type Prompter interface {
	ConfirmOverwrite(path string) (bool, error)
}

// Options is everything one run needs.
type Options struct {
	Source string
	Output string

	Keyword string
	Filter  filter.Rules
	Resolve resolve.Options

	Style     gfx.Style
	Indent    int
	Versioned bool

	DryRun    bool
	Backup    bool
	Overwrite OverwritePolicy
	Prompter  Prompter
	Strict    bool

	ReportPath   string
	ReportFormat report.Format
	// Arguments are echoed into the report.
	Arguments map[string]any

	// Now defaults to time.Now.
	Now func() time.Time
}

// Result describes a finished run.
type Result struct {
	// Skipped is set when the run stopped early without writing anything.
	Skipped    bool
	SkipReason error

	// Content is the rendered document, written or not.
	Content    string
	Written    bool
	BackupPath string
	ReportPath string
	Report     *report.Report
}

// Runner executes runs.
type Runner struct {
	logs *logging.Set
}

// New creates a Runner logging through logs. A nil set logs nothing.
func New(logs *logging.Set) *Runner {
	if logs == nil {
		logs = logging.NewSet(nil, config.LoggingConfig{})
	}
	return &Runner{logs: logs}
}

// Run performs one generation. Fatal problems are returned as errors; recoverable ones
// are logged and the run carries on with fallbacks.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	rep := report.New(opts.Source, opts.Output, now())
	rep.DryRun = opts.DryRun
	rep.Arguments = opts.Arguments
	res := &Result{Report: rep}

	ids, data, err := r.extract(opts)
	if err != nil {
		if errors.Is(err, extract.ErrNoEntries) && !opts.Strict {
			r.logs.Get(logging.CategoryExtract).Warn("no entries found, nothing to do",
				zap.String("source", opts.Source))
			return skip(res, err, now()), nil
		}
		return nil, err
	}

	selected := r.filter(ids, opts.Filter)
	rep.IDs = selected.IDs
	rep.Duplicates = selected.Duplicates
	if len(selected.IDs) == 0 {
		if opts.Strict {
			return nil, ErrNothingSelected
		}
		r.logs.Get(logging.CategoryFilter).Warn("no identifiers left after filtering, nothing to do",
			zap.Int("extracted", len(ids)))
		return skip(res, ErrNothingSelected, now()), nil
	}

	if !opts.DryRun {
		if err := checkOverwrite(opts); err != nil {
			return nil, err
		}
	}

	entries, err := r.resolve(ctx, selected.IDs, opts, rep)
	if err != nil {
		return nil, err
	}

	renderOpts := gfx.RenderOptions{Style: opts.Style, Indent: opts.Indent}
	if opts.Versioned {
		renderOpts.Header = &gfx.HeaderInfo{
			Time:       now(),
			SourceHash: gfx.SourceHash(data),
			SourcePath: opts.Source,
		}
	}
	res.Content = gfx.Render(entries, renderOpts)

	emitLog := r.logs.Get(logging.CategoryEmit)
	if opts.DryRun {
		emitLog.Info("dry run, output not written", zap.String("output", opts.Output))
		rep.Finish(now())
		return res, nil
	}

	if opts.Backup {
		backup, err := fsutil.Backup(opts.Output)
		if err != nil {
			emitLog.Warn("failed to back up existing output", zap.String("output", opts.Output), zap.Error(err))
		} else if backup != "" {
			res.BackupPath = backup
			emitLog.Info("backed up existing output", zap.String("backup", backup))
		}
	}

	if err := fsutil.WriteFileAtomic(opts.Output, []byte(res.Content)); err != nil {
		return nil, fmt.Errorf("failed to write output %s: %w", opts.Output, err)
	}
	res.Written = true
	emitLog.Info("wrote output", zap.String("output", opts.Output), zap.Int("entries", len(entries)))

	rep.Finish(now())
	if opts.ReportPath != "" {
		if err := rep.WriteFile(opts.ReportPath, opts.ReportFormat); err != nil {
			return nil, err
		}
		res.ReportPath = opts.ReportPath
		r.logs.Get(logging.CategoryReport).Info("wrote report",
			zap.String("path", opts.ReportPath), zap.String("format", string(opts.ReportFormat)))
	}
	return res, nil
}

func skip(res *Result, reason error, at time.Time) *Result {
	res.Skipped = true
	res.SkipReason = reason
	res.Report.Finish(at)
	return res
}

// extract reads the source once and returns its identifiers and raw bytes.
func (r *Runner) extract(opts Options) ([]string, []byte, error) {
	log := r.logs.Get(logging.CategoryExtract)

	data, err := extract.ReadSource(opts.Source)
	if err != nil {
		return nil, nil, err
	}

	ex := extract.New(opts.Keyword)
	ids, err := ex.Extract(string(extract.StripBOM(data)))
	if err != nil {
		return nil, data, fmt.Errorf("%s: %w", opts.Source, err)
	}
	log.Info("extracted identifiers",
		zap.String("source", opts.Source),
		zap.String("keyword", ex.Keyword()),
		zap.Int("count", len(ids)))
	return ids, data, nil
}

func (r *Runner) filter(ids []string, rules filter.Rules) filter.Result {
	log := r.logs.Get(logging.CategoryFilter)

	selected := filter.Apply(ids, rules)
	for _, dup := range selected.Duplicates {
		log.Warn("duplicate identifier", zap.String("id", dup))
	}
	log.Info("filtered identifiers",
		zap.Int("extracted", len(ids)),
		zap.Int("selected", len(selected.IDs)),
		zap.Int("duplicates", len(selected.Duplicates)))
	return selected
}

// resolve looks up every identifier, stopping between identifiers when ctx is done.
func (r *Runner) resolve(ctx context.Context, ids []string, opts Options, rep *report.Report) ([]gfx.Entry, error) {
	log := r.logs.Get(logging.CategoryResolve)

	ropts := opts.Resolve
	ropts.DryRun = opts.DryRun
	if ropts.IconsPath == "" {
		ropts.IconsPath = resolve.DefaultIconsPath
	}
	resolver := resolve.New(ropts, log)

	entries := make([]gfx.Entry, 0, len(ids))
	for _, id := range ids {
		res, err := resolver.Resolve(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", id, err)
		}
		if !res.Found && !res.Placeholder && resolver.SearchDir() != "" {
			log.Warn("no icon found, using default image",
				zap.String("id", id),
				zap.String("search_dir", res.SearchDir),
				zap.String("default_image", resolver.DefaultImage()))
		}
		rep.Record(res, ropts.IconsPath)
		entries = append(entries, gfx.Entry{ID: id, Path: res.Path})
	}
	return entries, nil
}

func checkOverwrite(opts Options) error {
	if !fsutil.Exists(opts.Output) {
		return nil
	}
	switch opts.Overwrite {
	case OverwriteForce:
		return nil
	case OverwritePrompt:
		if opts.Prompter == nil {
			return fmt.Errorf("%s: %w", opts.Output, ErrOverwriteRefused)
		}
		ok, err := opts.Prompter.ConfirmOverwrite(opts.Output)
		if err != nil {
			return fmt.Errorf("overwrite prompt: %w", err)
		}
		if !ok {
			return fmt.Errorf("%s: %w", opts.Output, ErrOverwriteRefused)
		}
		return nil
	default:
		return fmt.Errorf("%s: %w", opts.Output, ErrOverwriteRefused)
	}
}
