package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/svgo"
	"github.com/aretw0/svgo/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var banner bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of svgo",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			version := strings.TrimSpace(svgo.Version)
			if banner {
				tui.PrintBanner(out, termenv.NewOutput(out).EnvColorProfile(), version)
				return
			}
			fmt.Fprintf(out, "svgo version %s\n", version)
		},
	}
	cmd.Flags().BoolVar(&banner, "banner", false, "Print the banner")
	return cmd
}
