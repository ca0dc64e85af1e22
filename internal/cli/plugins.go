package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/svgo/internal/presentation/tui"
	"github.com/aretw0/svgo/pkg/plugins"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newPluginsCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the available plugins",
		Args:  cobra.NoArgs,
		RunE: traced(func(cmd *cobra.Command, args []string) error {
			md := pluginsMarkdown()
			out := cmd.OutOrStdout()
			if raw {
				_, err := io.WriteString(out, md)
				return err
			}
			render, err := tui.NewRenderer(isTerminal(out), 100)
			if err != nil {
				return err
			}
			text, err := render(md)
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, text)
			return err
		}),
	}
	cmd.Flags().BoolVar(&raw, "markdown", false, "Print the raw markdown table")
	return cmd
}

func pluginsMarkdown() string {
	var b strings.Builder
	b.WriteString("# svgo plugins\n\n")
	b.WriteString("| Plugin | preset-default | Description |\n")
	b.WriteString("|---|---|---|\n")
	for _, p := range plugins.NewRegistry().List() {
		inPreset := "no"
		if slices.Contains(plugins.DefaultPreset, p.Name) {
			inPreset = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Name, inPreset, p.Description)
	}
	return b.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
