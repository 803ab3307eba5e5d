package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrel/sangama/internal/seed"
	"github.com/mithrel/sangama/pkg/api"
)

func newSeedCmd() *cobra.Command {
	var force bool
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample quotes, shlokas, songs and panchanga",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			var records []api.Content
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if records, err = seed.Parse(data); err != nil {
					return err
				}
			}
			n, err := seed.Run(cmd.Context(), app.Store.Contents, seed.Options{Force: force, Records: records, Log: app.Log})
			if errors.Is(err, seed.ErrNotEmpty) {
				return fmt.Errorf("%w; rerun with --force to add the samples anyway", err)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d records\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even when the store already has content")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file of records to load instead of the built-in samples")
	return cmd
}
