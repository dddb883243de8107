package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/export"
	"github.com/yaklabco/mdpreview/pkg/fsutil"
)

type exportFlags struct {
	output     string
	flavor     string
	standalone bool
	title      string
	unsafe     bool
	force      bool
	outline    bool
}

func newExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a Markdown file as HTML",
		Long: `Convert a Markdown file to HTML. Headings get id attributes so the
output can be linked into. Use "-" to read standard input.

Examples:
  mdpreview export README.md                    # HTML fragment to stdout
  mdpreview export README.md -o README.html --standalone
  mdpreview export notes.md --flavor commonmark
  mdpreview export README.md --outline          # Heading outline only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringVar(&flags.flavor, "flavor", export.FlavorGFM, "Markdown flavor: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "write a complete HTML page")
	cmd.Flags().StringVar(&flags.title, "title", "", "page title for --standalone (default: first heading)")
	cmd.Flags().BoolVar(&flags.unsafe, "unsafe", false, "pass raw HTML in the source through")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing output file")
	cmd.Flags().BoolVar(&flags.outline, "outline", false, "print the heading outline instead of HTML")

	return cmd
}

func runExport(cmd *cobra.Command, path string, flags *exportFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	switch flags.flavor {
	case export.FlavorGFM, export.FlavorCommonMark:
	default:
		return fmt.Errorf("invalid flavor %q: must be commonmark or gfm", flags.flavor)
	}

	src, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	opts := []export.Option{export.WithFlavor(flags.flavor)}
	if flags.standalone {
		opts = append(opts, export.WithStandalone(flags.title))
	}
	if flags.unsafe {
		opts = append(opts, export.WithUnsafeHTML())
	}
	exporter := export.New(opts...)

	if flags.outline {
		out := cmd.OutOrStdout()
		for _, h := range exporter.Outline(src) {
			fmt.Fprintf(out, "%s%s #%s\n", strings.Repeat("  ", h.Level-1), h.Text, h.ID)
		}
		return nil
	}

	if flags.output == "" {
		return exporter.Export(ctx, cmd.OutOrStdout(), src)
	}

	content, err := exporter.Bytes(ctx, src)
	if err != nil {
		return err
	}
	written, err := fsutil.WriteFile(ctx, flags.output, content, fsutil.WriteOptions{Overwrite: flags.force})
	if err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}

	if written {
		logger.Info("exported", logging.FieldInput, path, logging.FieldOutput, flags.output)
	} else {
		logger.Info("output unchanged", logging.FieldOutput, flags.output)
	}
	return nil
}
