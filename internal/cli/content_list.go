package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/sangama/internal/present"
	"github.com/mithrel/sangama/internal/util"
	"github.com/mithrel/sangama/pkg/api"
)

func newContentListCmd() *cobra.Command {
	var (
		typ        string
		all        bool
		search     string
		since      string
		until      string
		limit      int
		outputMode string
		noHeaders  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content in page order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			t, err := parseType(typ)
			if err != nil {
				return err
			}
			from, to, err := util.ParseTimeRange(since, until, time.Now())
			if err != nil {
				return err
			}
			mode, err := resolveMode(outputMode, cmd.OutOrStdout(), present.ModeTUI)
			if err != nil {
				return err
			}
			contents, err := app.Store.Contents.ListContents(cmd.Context(), api.ListQuery{
				Type:          t,
				IncludeHidden: all,
				Since:         from,
				Until:         to,
				Search:        search,
				Limit:         limit,
			})
			if err != nil {
				return err
			}
			opts := present.Options{
				Mode:       mode,
				JSONIndent: false, // pretty-print via external tools like jq
				Headers:    !noHeaders,
				Deleter:    app.Store.Contents,
			}
			return renderContents(cmd.Context(), app.Cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), contents, opts)
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "only this content type")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden records")
	cmd.Flags().StringVarP(&search, "search", "s", "", "fuzzy title search")
	cmd.Flags().StringVar(&since, "since", "", "created at or after (e.g. 2d, 2026-01-02, yesterday)")
	cmd.Flags().StringVar(&until, "until", "", "created at or before")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum records (0 uses the store default)")
	cmd.Flags().StringVarP(&outputMode, "output", "o", "", "output mode: plain|pretty|json|ndjson|tui (default tui on a terminal, plain otherwise)")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	registerTypeCompletion(cmd)
	registerOutputCompletion(cmd, "plain", "pretty", "json", "ndjson", "tui")
	return cmd
}
