package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdpreview/internal/ui/pretty"
	"github.com/yaklabco/mdpreview/pkg/config"
)

// Command groups shown in the root help.
const (
	groupPreview = "preview"
	groupUtility = "utility"
)

func commandGroups() []*cobra.Group {
	return []*cobra.Group{
		{ID: groupPreview, Title: "Preview Commands:"},
		{ID: groupUtility, Title: "Utility Commands:"},
	}
}

type helpStyles struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{heading: plain, command: plain, flag: plain, dim: plain}
	}
	return helpStyles{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// installHelp replaces cobra's help and usage output for root and all of
// its subcommands. Color follows the --color flag as parsed for the
// command being described.
func installHelp(root *cobra.Command) {
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		writeHelp(cmd.OutOrStdout(), cmd, helpStylesFor(cmd))
	})
	root.SetUsageFunc(func(cmd *cobra.Command) error {
		out := cmd.OutOrStderr()
		writeUsage(out, cmd, helpStylesFor(cmd))
		return nil
	})
}

func helpStylesFor(cmd *cobra.Command) helpStyles {
	mode := config.ColorAuto
	if raw, err := cmd.Flags().GetString("color"); err == nil && raw != "" {
		if parsed, err := config.ParseColorMode(raw); err == nil {
			mode = parsed
		}
	}
	return newHelpStyles(pretty.IsColorEnabled(mode, cmd.OutOrStdout()))
}

func writeHelp(out io.Writer, cmd *cobra.Command, st helpStyles) {
	title := cmd.CommandPath()
	if cmd.Version != "" {
		title += " " + st.dim.Render(cmd.Version)
	}
	fmt.Fprintln(out, st.command.Render(title))
	fmt.Fprintln(out)

	if text := strings.TrimSpace(cmd.Long); text != "" {
		fmt.Fprintln(out, trimLines(text))
		fmt.Fprintln(out)
	} else if cmd.Short != "" {
		fmt.Fprintln(out, cmd.Short)
		fmt.Fprintln(out)
	}
	writeUsage(out, cmd, st)
}

func writeUsage(out io.Writer, cmd *cobra.Command, st helpStyles) {
	section := func(title string) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, st.heading.Render(title))
	}

	fmt.Fprintln(out, st.heading.Render("Usage:"))
	if cmd.Runnable() {
		fmt.Fprintln(out, "  "+st.command.Render(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, "  "+st.command.Render(cmd.CommandPath()+" [command]"))
	}

	if len(cmd.Aliases) > 0 {
		section("Aliases:")
		fmt.Fprintln(out, "  "+strings.Join(cmd.Aliases, ", "))
	}

	if cmd.HasAvailableSubCommands() {
		pad := 0
		for _, sub := range cmd.Commands() {
			pad = max(pad, len(sub.Name()))
		}
		grouped := make(map[string][]*cobra.Command)
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() || sub.Name() == "help" {
				grouped[sub.GroupID] = append(grouped[sub.GroupID], sub)
			}
		}
		titles := make([]string, 0, len(cmd.Groups())+1)
		ids := make([]string, 0, len(cmd.Groups())+1)
		for _, g := range cmd.Groups() {
			titles = append(titles, g.Title)
			ids = append(ids, g.ID)
		}
		titles = append(titles, "Additional Commands:")
		ids = append(ids, "")
		for i, id := range ids {
			if len(grouped[id]) == 0 {
				continue
			}
			section(titles[i])
			for _, sub := range grouped[id] {
				name := sub.Name() + strings.Repeat(" ", pad-len(sub.Name()))
				fmt.Fprintf(out, "  %s   %s\n", st.command.Render(name), sub.Short)
			}
		}
	}

	if cmd.HasExample() {
		section("Examples:")
		fmt.Fprintln(out, st.dim.Render(cmd.Example))
	}

	if cmd.HasAvailableLocalFlags() {
		section("Flags:")
		fmt.Fprint(out, styleFlags(cmd.LocalFlags(), st))
	}
	if cmd.HasAvailableInheritedFlags() {
		section("Global Flags:")
		fmt.Fprint(out, styleFlags(cmd.InheritedFlags(), st))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, "\nUse \"%s\" for more information about a command.\n",
			st.command.Render(cmd.CommandPath()+" [command] --help"))
	}
}

// styleFlags colors the flag names in pflag's usage listing. Each line
// looks like "  -f, --flag type   description".
func styleFlags(flags *pflag.FlagSet, st helpStyles) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(flags.FlagUsages(), "\n") {
		body := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(body)]
		names, rest, ok := strings.Cut(body, "   ")
		if !ok {
			b.WriteString(line)
			continue
		}
		b.WriteString(indent)
		for i, tok := range strings.Fields(names) {
			if i > 0 {
				b.WriteByte(' ')
			}
			switch {
			case strings.HasPrefix(tok, "-"):
				comma := strings.HasSuffix(tok, ",")
				b.WriteString(st.flag.Render(strings.TrimSuffix(tok, ",")))
				if comma {
					b.WriteByte(',')
				}
			default:
				b.WriteString(st.dim.Render(tok))
			}
		}
		b.WriteString("   " + rest)
	}
	return b.String()
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
