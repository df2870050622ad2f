package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/tagseek/internal/domain/search/request"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
	"github.com/kailas-cloud/tagseek/internal/usecase/export"
	searchuc "github.com/kailas-cloud/tagseek/internal/usecase/search"
)

type searchFlags struct {
	sortBy    string
	order     string
	skipCache bool
	limit     int
}

func (f *searchFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sortBy, "sort-by", "", "sort key: relevance, created, updated, id or size")
	cmd.Flags().StringVar(&f.order, "order", string(request.Desc), "sort order: asc or desc")
	cmd.Flags().BoolVar(&f.skipCache, "skip-cache", false, "ignore cached results")
}

func (f *searchFlags) options() (request.Options, error) {
	return request.New(f.skipCache, request.SortKey(f.sortBy), request.Order(f.order))
}

// run validates the query and flags, then performs the search in the selected session.
func (f *searchFlags) run(cmd *cobra.Command, o *options, query string) ([]result.Result, error) {
	if err := request.ValidateQuery(query); err != nil {
		return nil, err
	}
	opts, err := f.options()
	if err != nil {
		return nil, err
	}
	entities, err := o.loadEntities()
	if err != nil {
		return nil, err
	}

	var results []result.Result
	err = o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
		results = sess.PerformSearch(cmd.Context(), query, entities, opts)
		return nil
	})
	return results, err
}

func newSearchCmd(o *options) *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank and filter entities",
		Long: `Rank the entities from --entities against a query and narrow them by the
session's active filters. Without a query every entity passing the filters is listed.

Query syntax:
  alice                  text term, matched anywhere
  "quarterly report"     phrase, matched as a whole
  type:user              field term (id, type, tag, content or any key:value tag)

Examples:
  tagseek search "type:user alice" -e users.json
  tagseek search --sort-by created --order asc -e docs.json
  tagseek search report --json -e docs.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			results, err := f.run(cmd, o, query)
			if err != nil {
				return err
			}
			if f.limit > 0 && len(results) > f.limit {
				results = results[:f.limit]
			}

			w := cmd.OutOrStdout()
			if o.json {
				return writeJSON(w, struct {
					Results []export.Record `json:"results"`
					Total   int             `json:"total"`
				}{export.Records(results), len(results)})
			}
			if len(results) == 0 {
				fmt.Fprintln(w, "No results found.")
				return nil
			}
			for _, r := range results {
				score := "-"
				if r.Scored() {
					score = strconv.FormatFloat(r.Score(), 'f', 2, 64)
				}
				fmt.Fprintf(w, "%-8s %s  %s\n", score, r.Entity().ID(), tagLine(r.Entity().Tags()))
			}
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "maximum number of results to print (0 = all)")
	return cmd
}

func newExportCmd(o *options) *cobra.Command {
	var (
		f      searchFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "export [query]",
		Short: "Search and write the results as JSON or CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtName, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			results, err := f.run(cmd, o, query)
			if err != nil {
				return err
			}
			return export.Encode(cmd.OutOrStdout(), results, fmtName)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(export.JSON), "output format: json or csv")
	return cmd
}

func newSuggestCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [query]",
		Short: "Autocomplete a partial query",
		Long: `Suggest completions from entity tags and ids, filter fields and saved query names.
Without a query the most recent history entries are suggested.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			entities, err := o.loadEntities()
			if err != nil {
				return err
			}
			return o.withSession(cmd.Context(), func(sess *searchuc.Session) error {
				suggestions := sess.GenerateSuggestions(query, entities)
				w := cmd.OutOrStdout()
				if o.json {
					type item struct {
						Kind  string `json:"kind"`
						Text  string `json:"text"`
						Label string `json:"label"`
					}
					items := make([]item, len(suggestions))
					for i, s := range suggestions {
						items[i] = item{Kind: string(s.Kind()), Text: s.Text(), Label: s.Label()}
					}
					return writeJSON(w, items)
				}
				for _, s := range suggestions {
					if s.Label() != s.Text() {
						fmt.Fprintf(w, "%-10s %s  (%s)\n", s.Kind(), s.Text(), s.Label())
						continue
					}
					fmt.Fprintf(w, "%-10s %s\n", s.Kind(), s.Text())
				}
				return nil
			})
		},
	}
}
