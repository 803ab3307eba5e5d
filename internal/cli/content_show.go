package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/sangama/internal/db"
	"github.com/mithrel/sangama/internal/present"
)

func newContentShowCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Display one record with its rendered body",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := resolveMode(outputMode, cmd.OutOrStdout(), present.ModePretty)
			if err != nil {
				return err
			}
			c, err := app.Store.Contents.GetContent(cmd.Context(), args[0])
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("content %s not found", args[0])
			}
			if err != nil {
				return err
			}
			return renderContent(cmd.Context(), app.Cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), c, present.Options{Mode: mode, Headers: !noHeaders})
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "", "output mode: plain|pretty|json|ndjson (default pretty on a terminal, plain otherwise)")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	registerOutputCompletion(cmd, "plain", "pretty", "json", "ndjson")
	return cmd
}
