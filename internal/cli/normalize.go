package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpreview/pkg/fsutil"
	"github.com/yaklabco/mdpreview/pkg/minify"
)

// ErrNotCanonical is returned by normalize --check when the input is not in
// canonical form.
var ErrNotCanonical = errors.New("input is not in canonical form")

// stdinPath names standard input in file arguments.
const stdinPath = "-"

type normalizeFlags struct {
	check bool
}

func newNormalizeCommand() *cobra.Command {
	flags := &normalizeFlags{}

	cmd := &cobra.Command{
		Use:   "normalize <file> [other]",
		Short: "Print the canonical form used for change detection",
		Long: `Print the canonical form of a Markdown file. Line endings become LF,
trailing whitespace is trimmed (a hard break keeps two spaces), runs of
blank lines collapse to one and leading or trailing blank lines go. The preview skips reparsing when the canonical form
is unchanged.

With a second file, report whether going from the first to the second
would trigger a reparse. Use "-" to read standard input.

Examples:
  mdpreview normalize README.md
  mdpreview normalize --check README.md
  mdpreview normalize old.md new.md`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.check, "check", false, "fail when the file is not already canonical")

	return cmd
}

func runNormalize(cmd *cobra.Command, args []string, flags *normalizeFlags) error {
	src, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	normalized := minify.Normalize(src)
	out := cmd.OutOrStdout()

	if len(args) == 2 {
		other, err := readInput(cmd, args[1])
		if err != nil {
			return err
		}
		if minify.ShouldReparse(normalized, minify.Normalize(other)) {
			fmt.Fprintln(out, "changed: reparse needed")
		} else {
			fmt.Fprintln(out, "unchanged: reparse skipped")
		}
		return nil
	}

	if flags.check {
		if !bytes.Equal(src, normalized.Canonical()) {
			return fmt.Errorf("%w: %s (%d bytes, %d canonical)",
				ErrNotCanonical, args[0], normalized.RawLen(), normalized.Len())
		}
		return nil
	}

	if _, err := out.Write(normalized.Canonical()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// readInput reads a file argument, or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return src, nil
	}
	src, _, err := fsutil.ReadFile(commandContext(cmd), path)
	return src, err
}
