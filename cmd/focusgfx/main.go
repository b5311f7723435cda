package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"focusgfx/internal/config"
	"focusgfx/internal/fsutil"
	"focusgfx/internal/logging"
	"focusgfx/internal/ui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	verbosity  int
	quiet      bool
	configPath string

	// Run flags that have no config file equivalent
	dryRun      bool
	showDiff    bool
	force       bool
	interactive bool
	watchSource bool

	// Flags mirrored in the config file; applied only when set on the command line.
	modRoot             string
	gameRoot            string
	iconsPath           string
	defaultImage        string
	generatePlaceholder bool
	keyword             string
	prefix              string
	suffix              string
	focusIDs            []string
	excludeIDs          []string
	versionedOutput     bool
	outputFormat        string
	indent              int
	reportPath          string
	reportFormat        string
	noBackup            bool
	strict              bool

	// Effective configuration and loggers, set by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
	logs   *logging.Set
)

// rootCmd generates the interface file
var rootCmd = &cobra.Command{
	Use:   "focusgfx [flags] <source> <output>",
	Short: "Generate a spriteTypes interface file for a national focus tree",
	Long: `focusgfx scans a focus tree file for focus = { id = ... } blocks and writes a
spriteTypes file with a primary and a shine sprite for every identifier.

Icons are looked up under <mod-root>/<icons-path> by trying ID, GFX_ID, goal_id and
GFX_goal_id with .dds, .tga and .png. Identifiers without an icon point at the default
image, and --generate-placeholder copies it into the mod under GFX_<ID>.

Examples:
  focusgfx common/national_focus/tree.txt interface/goals.gfx --prefix MOD_
  focusgfx -m . -p tree.txt interface/goals.gfx --report report.md --report-format md
  focusgfx --dry-run --diff tree.txt interface/goals.gfx`,
	Version:       version,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd.Flags())
		if err != nil {
			return err
		}

		logger, err = logging.New(logging.Options{
			Verbosity: verbosity,
			Quiet:     quiet,
			Config:    cfg.Logging,
		})
		if err != nil {
			return err
		}
		logs = logging.NewSet(logger, cfg.Logging)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logs != nil {
			_ = logs.Sync()
		}
	},
	RunE: runGenerate,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: "+config.FileName+" if present)")

	bindRunFlags(rootCmd.Flags())
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.MarkFlagsMutuallyExclusive("force", "interactive")

	// Config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// bindRunFlags registers the generation flags on fs.
func bindRunFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&dryRun, "dry-run", false, "Print the output and statistics instead of writing")
	fs.BoolVar(&showDiff, "diff", false, "With --dry-run, show a unified diff against the existing output")
	fs.BoolVar(&force, "force", false, "Overwrite an existing output file")
	fs.BoolVar(&interactive, "interactive", false, "Ask before overwriting an existing output file")
	fs.BoolVar(&watchSource, "watch", false, "Regenerate whenever the source file changes")

	fs.StringVarP(&modRoot, "mod-root", "m", "", "Mod root directory (env: FOCUSGFX_MOD_ROOT)")
	fs.StringVarP(&gameRoot, "game-root", "g", "", "Game install directory, used to find the default image (env: FOCUSGFX_GAME_ROOT)")
	fs.StringVar(&iconsPath, "icons-path", "", "Icon directory relative to the mod root (env: FOCUSGFX_ICONS_PATH)")
	fs.StringVar(&defaultImage, "default-image", "", "Texture used when no icon is found (env: FOCUSGFX_DEFAULT_IMAGE)")
	fs.BoolVarP(&generatePlaceholder, "generate-placeholder", "p", false, "Copy the default image to GFX_<ID> for missing icons")
	fs.StringVar(&keyword, "keyword", "", "Block keyword to scan for (default: focus)")
	fs.StringVar(&prefix, "prefix", "", "Only keep identifiers starting with this prefix")
	fs.StringVar(&suffix, "suffix", "", "Only keep identifiers ending with this suffix")
	fs.StringSliceVar(&focusIDs, "focus-ids", nil, "Only keep these identifiers (comma separated)")
	fs.StringSliceVar(&excludeIDs, "exclude-ids", nil, "Drop these identifiers (comma separated)")
	fs.BoolVar(&versionedOutput, "versioned-output", false, "Prefix the output with a generation header")
	fs.StringVar(&outputFormat, "output-format", "", "Output style: standard, compact or pretty")
	fs.IntVar(&indent, "indent", 0, "Indentation width: 2, 4 or 8")
	fs.StringVar(&reportPath, "report", "", "Write a run report to this file")
	fs.StringVar(&reportFormat, "report-format", "", "Report format: txt, json, csv, md or yaml")
	fs.BoolVar(&noBackup, "no-backup", false, "Do not keep a .backup copy of an overwritten output")
	fs.BoolVar(&strict, "strict", false, "Fail when nothing is found or nothing is left after filtering")
}

// loadConfig reads the config file and layers the explicitly set flags on top.
func loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.FileName
	} else if !fsutil.Exists(path) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlags(fs, c)
	return c, nil
}

// applyFlags copies every flag the user set into c.
func applyFlags(fs *pflag.FlagSet, c *config.Config) {
	if fs.Changed("mod-root") {
		c.ModRoot = modRoot
	}
	if fs.Changed("game-root") {
		c.GameRoot = gameRoot
	}
	if fs.Changed("icons-path") {
		c.IconsPath = iconsPath
	}
	if fs.Changed("default-image") {
		c.DefaultImage = defaultImage
	}
	if fs.Changed("generate-placeholder") {
		c.GeneratePlaceholder = generatePlaceholder
	}
	if fs.Changed("keyword") {
		c.Keyword = keyword
	}
	if fs.Changed("prefix") {
		c.Filter.Prefix = prefix
	}
	if fs.Changed("suffix") {
		c.Filter.Suffix = suffix
	}
	if fs.Changed("focus-ids") {
		c.Filter.Include = focusIDs
	}
	if fs.Changed("exclude-ids") {
		c.Filter.Exclude = excludeIDs
	}
	if fs.Changed("versioned-output") {
		c.Output.Versioned = versionedOutput
	}
	if fs.Changed("output-format") {
		c.Output.Style = outputFormat
	}
	if fs.Changed("indent") {
		c.Output.Indent = indent
	}
	if fs.Changed("report") {
		c.Report.Path = reportPath
	}
	if fs.Changed("report-format") {
		c.Report.Format = reportFormat
	}
	if fs.Changed("no-backup") {
		c.Output.Backup = !noBackup
	}
	if fs.Changed("strict") {
		c.Strict = strict
	}
}

// exitCode maps a command error onto the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

// errorMessage formats a command error for stderr.
func errorMessage(err error, styles ui.Styles) string {
	if errors.Is(err, context.Canceled) {
		return styles.Warning.Render("interrupted")
	}
	return styles.Error.Render("Error: " + err.Error())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err, ui.DefaultStyles()))
	}
	os.Exit(exitCode(err))
}
