package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/config"
	"github.com/yaklabco/mdpreview/pkg/reporter"
	"github.com/yaklabco/mdpreview/pkg/runner"
)

type renderFlags struct {
	format    string
	ignore    []string
	width     int
	noDetect  bool
	compact   bool
	noSummary bool
	follow    bool
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render Markdown files to the terminal",
		Long:  renderLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, rows (default from config)")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.width, "width", 0, "output width in columns (0 = terminal width)")
	cmd.Flags().BoolVar(&cfg.SideBySide, "side-by-side", false, "print the source next to the preview")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "fail on span invariant violations instead of repairing them")
	cmd.Flags().BoolVar(&flags.noDetect, "no-detect", false, "do not label unlabelled code blocks")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary line")
	cmd.Flags().BoolVar(&flags.follow, "follow-symlinks", false, "follow directory symlinks during discovery")

	return cmd
}

const renderLongDescription = `Render Markdown files as preview rows.

By default, renders all .md and .markdown files in the current directory
and subdirectories. Specify paths to render specific files or directories.

Examples:
  mdpreview render README.md                 # Paint one file
  mdpreview render docs/ --ignore 'drafts/**'
  mdpreview render README.md --side-by-side  # Source and preview in columns
  mdpreview render --format rows README.md   # Row table with source spans
  mdpreview render --format json docs/       # Rows and offsets as JSON`

func runRender(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *renderFlags) error {
	logger := logging.Default()

	if flags.format != "" {
		format, err := config.ParseOutputFormat(flags.format)
		if err != nil {
			return err
		}
		cliCfg.Output.Format = format
	}
	cliCfg.Output.Width = flags.width
	cliCfg.Ignore = flags.ignore

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}
	if flags.noDetect {
		cfg.LanguageDetection = false
	}

	ctx := commandContext(cmd)

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir
	runOpts.FollowSymlinks = flags.follow

	logger.Debug("starting render run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(cfg, logger).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("render run failed: %w", err)
	}

	repOpts := reporter.OptionsFromConfig(cfg)
	repOpts.Writer = cmd.OutOrStdout()
	repOpts.ShowSummary = !flags.noSummary
	repOpts.SideBySide = cfg.SideBySide
	repOpts.Compact = flags.compact
	repOpts.WorkingDir = workDir

	rep, err := reporter.New(repOpts)
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("render run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesRendered, result.Stats.FilesProcessed,
	)

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrRenderFailed
	}
	return nil
}
