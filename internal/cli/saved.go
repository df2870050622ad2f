package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/tagseek/internal/domain"
	searchuc "github.com/kailas-cloud/tagseek/internal/usecase/search"
)

func newSavedCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved queries",
	}
	cmd.AddCommand(
		newSavedSaveCmd(o),
		newSavedListCmd(o),
		newSavedLoadCmd(o),
		newSavedRemoveCmd(o),
	)
	return cmd
}

func newSavedSaveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> [query]",
		Short: "Save a query together with the active filters",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				sq, err := sess.SaveQuery(cmd.Context(), args[0], query, sess.ActiveFilters())
				if err != nil {
					return err
				}
				if o.json {
					return writeJSON(cmd.OutOrStdout(), savedToOutput(sq))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s  %s\n", sq.ID(), sq.Name())
				return nil
			})
		},
	}
}

func newSavedListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved queries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				saved := sess.SavedQueries()
				w := cmd.OutOrStdout()
				if o.json {
					items := make([]savedOutput, len(saved))
					for i, sq := range saved {
						items[i] = savedToOutput(sq)
					}
					return writeJSON(w, items)
				}
				if len(saved) == 0 {
					fmt.Fprintln(w, "No saved queries.")
					return nil
				}
				for _, sq := range saved {
					fmt.Fprintf(w, "%s  %-20s %q (%d filters)\n", sq.ID(), sq.Name(), sq.Query(), len(sq.Filters()))
				}
				return nil
			})
		},
	}
}

func newSavedLoadCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "load <id>",
		Short: "Restore a saved query's filters and print its query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				query := sess.LoadSavedQuery(cmd.Context(), args[0])
				if o.json {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"query": query})
				}
				fmt.Fprintln(cmd.OutOrStdout(), query)
				return nil
			})
		},
	}
}

func newSavedRemoveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a saved query",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				if !sess.DeleteSavedQuery(cmd.Context(), args[0]) {
					return fmt.Errorf("saved query %q: %w", args[0], domain.ErrNotFound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
