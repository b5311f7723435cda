package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"focusgfx/internal/config"
	"focusgfx/internal/diff"
	"focusgfx/internal/filter"
	"focusgfx/internal/logging"
	"focusgfx/internal/pipeline"
	"focusgfx/internal/resolve"
	"focusgfx/internal/ui"
)

// runGenerate is the root command: one generation, or a watch loop with --watch.
func runGenerate(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if showDiff && !dryRun {
		return errors.New("--diff requires --dry-run")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := buildOptions(args[0], args[1])
	runner := pipeline.New(stageLoggers())

	if watchSource {
		return runWatch(ctx, runner, opts)
	}
	_, err := generateOnce(ctx, runner, opts)
	return err
}

func stageLoggers() *logging.Set {
	if logs != nil {
		return logs
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logs = logging.NewSet(logger, cfg.Logging)
	return logs
}

// buildOptions turns the effective configuration and run flags into pipeline options.
func buildOptions(source, output string) pipeline.Options {
	opts := pipeline.Options{
		Source:  source,
		Output:  output,
		Keyword: cfg.Keyword,
		Filter: filter.Rules{
			Prefix:  cfg.Filter.Prefix,
			Suffix:  cfg.Filter.Suffix,
			Include: cfg.Filter.Include,
			Exclude: cfg.Filter.Exclude,
		},
		Resolve: resolve.Options{
			ModRoot:             cfg.ModRoot,
			IconsPath:           cfg.IconsPath,
			GameRoot:            cfg.GameRoot,
			DefaultImage:        cfg.DefaultImage,
			GeneratePlaceholder: cfg.GeneratePlaceholder,
		},
		Style:        cfg.Style(),
		Indent:       cfg.Output.Indent,
		Versioned:    cfg.Output.Versioned,
		DryRun:       dryRun,
		Backup:       cfg.Output.Backup,
		Strict:       cfg.Strict,
		ReportPath:   cfg.Report.Path,
		ReportFormat: cfg.ReportFormat(),
	}

	switch {
	case force:
		opts.Overwrite = pipeline.OverwriteForce
	case interactive:
		opts.Overwrite = pipeline.OverwritePrompt
		opts.Prompter = terminalPrompter{}
	default:
		opts.Overwrite = pipeline.OverwriteRefuse
	}

	opts.Arguments = map[string]any{
		"source_file":          source,
		"output_file":          output,
		"mod_root":             cfg.ModRoot,
		"game_root":            cfg.GameRoot,
		"icons_path":           cfg.IconsPath,
		"default_image":        cfg.DefaultImage,
		"generate_placeholder": cfg.GeneratePlaceholder,
		"keyword":              cfg.Keyword,
		"prefix":               cfg.Filter.Prefix,
		"suffix":               cfg.Filter.Suffix,
		"focus_ids":            cfg.Filter.Include,
		"exclude_ids":          cfg.Filter.Exclude,
		"output_format":        cfg.Output.Style,
		"indent":               cfg.Output.Indent,
		"versioned_output":     cfg.Output.Versioned,
		"backup":               cfg.Output.Backup,
		"strict":               cfg.Strict,
		"dry_run":              dryRun,
		"force":                force,
		"interactive":          interactive,
	}
	return opts
}

// generateOnce runs the pipeline and prints the outcome.
func generateOnce(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	res, err := runner.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	styles := ui.DefaultStyles()
	switch {
	case res.Skipped:
		if !quiet {
			fmt.Println(styles.Warning.Render(fmt.Sprintf("Nothing to do: %v", res.SkipReason)))
		}
	case opts.DryRun:
		if err := printDryRun(res, opts, styles); err != nil {
			return nil, err
		}
	default:
		if !quiet {
			printSummary(res, styles)
		}
	}
	return res, nil
}

func printSummary(res *pipeline.Result, styles ui.Styles) {
	fmt.Print(ui.Summary(res.Report, styles))
	fmt.Println(styles.Success.Render(fmt.Sprintf("Wrote %d sprite pairs to %s", len(res.Report.IDs), res.Report.Output)))
	if res.BackupPath != "" {
		fmt.Println(styles.Muted.Render("Backup: " + res.BackupPath))
	}
	if res.ReportPath != "" {
		fmt.Println(styles.Muted.Render("Report: " + res.ReportPath))
	}
}

// printDryRun shows what a real run would write: the document, its statistics, a
// preview of the requested report and optionally the change against the existing output.
func printDryRun(res *pipeline.Result, opts pipeline.Options, styles ui.Styles) error {
	fmt.Println(styles.Title.Render("Generated output (dry run)"))
	fmt.Println(styles.RenderDivider(ui.Width()))
	fmt.Print(res.Content)
	fmt.Println(styles.RenderDivider(ui.Width()))
	fmt.Print(ui.Summary(res.Report, styles))

	if opts.ReportPath != "" {
		fmt.Println(styles.Info.Render("Report preview (not written to " + opts.ReportPath + ")"))
		md, err := ui.RenderMarkdown(res.Report.Markdown(), ui.Width(), styles)
		if err != nil {
			return err
		}
		fmt.Print(md)
	}

	if showDiff {
		fd, err := diff.NewEngine(diff.DefaultContext).Preview(opts.Output, res.Content)
		if err != nil {
			return err
		}
		fmt.Print(ui.Diff(fd, styles))
	}
	return nil
}

// terminalPrompter asks on the terminal before an overwrite.
type terminalPrompter struct{}

func (terminalPrompter) ConfirmOverwrite(path string) (bool, error) {
	desc := "A .backup copy is kept unless --no-backup is set."
	if !cfg.Output.Backup {
		desc = "No backup will be made."
	}
	ok, err := ui.Confirm(fmt.Sprintf("Overwrite %s?", path), desc)
	if errors.Is(err, ui.ErrNotInteractive) {
		fmt.Fprintln(os.Stderr, "Not a terminal, refusing to overwrite (use --force).")
		return false, nil
	}
	return ok, err
}
