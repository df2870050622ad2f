package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/tagseek/internal/domain"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	searchuc "github.com/kailas-cloud/tagseek/internal/usecase/search"
)

func newFilterCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Manage the session's active filters",
	}
	cmd.AddCommand(
		newFilterAddCmd(o),
		newFilterListCmd(o),
		newFilterRemoveCmd(o),
		newFilterClearCmd(o),
	)
	return cmd
}

// parseFilterValue accepts JSON for structured values and bare words for text values.
func parseFilterValue(kind filter.Kind, arg string) (filter.Value, error) {
	if json.Valid([]byte(arg)) {
		if v, err := filter.DecodeValue(kind, json.RawMessage(arg)); err == nil {
			return v, nil
		}
	}
	quoted, err := json.Marshal(arg)
	if err != nil {
		return nil, fmt.Errorf("encode filter value: %w", err)
	}
	return filter.DecodeValue(kind, quoted)
}

func newFilterAddCmd(o *options) *cobra.Command {
	var operator string

	cmd := &cobra.Command{
		Use:   "add <type> <value>",
		Short: "Activate a filter",
		Long: `Activate a filter. Text types take a word, ranges take JSON.

Examples:
  tagseek filter add type user
  tagseek filter add tags platform
  tagseek filter add created '{"start":"2024-01-01","end":"2024-02-01"}'
  tagseek filter add size '{"min":0,"max":4096}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := filter.Kind(args[0])
			if !kind.IsValid() {
				return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidFilter, args[0])
			}
			val, err := parseFilterValue(kind, args[1])
			if err != nil {
				return err
			}
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				f, err := sess.AddFilter(cmd.Context(), kind, val, operator)
				if err != nil {
					return err
				}
				if o.json {
					return writeJSON(cmd.OutOrStdout(), filterToOutput(f))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", f.ID(), f.Label())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "", "operator label (default depends on the type)")
	return cmd
}

func newFilterListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List active filters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				if o.json {
					return writeJSON(cmd.OutOrStdout(), filtersToOutput(sess.ActiveFilters()))
				}
				printFilters(cmd.OutOrStdout(), sess.ActiveFilters())
				return nil
			})
		},
	}
}

func newFilterRemoveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Deactivate a filter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				if !sess.RemoveFilter(cmd.Context(), args[0]) {
					return fmt.Errorf("filter %q: %w", args[0], domain.ErrNotFound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newFilterClearCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Deactivate every filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				sess.ClearAllFilters(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared all filters.")
				return nil
			})
		},
	}
}
