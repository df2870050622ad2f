package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	searchuc "github.com/kailas-cloud/tagseek/internal/usecase/search"
)

func newHistoryCmd(o *options) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the query history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				w := cmd.OutOrStdout()
				if clearAll {
					sess.ClearSearchHistory(cmd.Context())
					fmt.Fprintln(w, "Cleared search history.")
					return nil
				}
				if o.json {
					return writeJSON(w, sess.History())
				}
				for _, q := range sess.History() {
					fmt.Fprintln(w, q)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget every recorded query")
	return cmd
}
