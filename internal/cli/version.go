package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/tagseek/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tagseek %s\n", info.Version)
			fmt.Fprintf(w, "  commit: %s\n", info.Commit)
			fmt.Fprintf(w, "  built:  %s\n", info.Date)
		},
	}
}
