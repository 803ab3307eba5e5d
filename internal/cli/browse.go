package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/sangama/internal/present"
	"github.com/mithrel/sangama/pkg/api"
)

func newBrowseCmd() *cobra.Command {
	var all bool
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse content by tab in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			contents, err := app.Store.Contents.ListContents(cmd.Context(), api.ListQuery{IncludeHidden: all})
			if err != nil {
				return err
			}
			return present.RenderContents(cmd.Context(), cmd.OutOrStdout(), contents, present.Options{
				Mode:    present.ModeTUI,
				Headers: !noHeaders,
				Deleter: app.Store.Contents,
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden records")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers")
	return cmd
}
