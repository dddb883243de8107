// Package cli provides the Cobra command structure for mdpreview.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpreview/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdpreview command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdpreview",
		Short: "A live Markdown preview for the terminal",
		Long: `mdpreview parses Markdown into a tree of elements with exact source spans,
renders it into logical rows and keeps a preview scrolled in step with the
source as it changes.

It renders files once, watches a file and repaints on every save, exports
HTML, and exposes the offset mapping and text normalization it uses for
synchronized scrolling.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "",
		"colorize output: auto, always, never (default from config)")

	// Add subcommands.
	rootCmd.AddGroup(commandGroups()...)
	for _, sub := range []*cobra.Command{newRenderCommand(), newWatchCommand(), newLocateCommand()} {
		sub.GroupID = groupPreview
		rootCmd.AddCommand(sub)
	}
	for _, sub := range []*cobra.Command{newNormalizeCommand(), newExportCommand(), newInitCommand()} {
		sub.GroupID = groupUtility
		rootCmd.AddCommand(sub)
	}
	rootCmd.AddCommand(newVersionCommand(info))

	installHelp(rootCmd)

	return rootCmd
}
