package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/sangama/internal/present/format"
	"github.com/mithrel/sangama/internal/render"
)

func newRenderCmd() *cobra.Command {
	var file string
	var outputMode string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Show how a body is split into sections and blocks",
		Long: `Render reads markup from --file (or stdin) and prints the section and block
structure the page would display. Useful while authoring content.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = "-"
			}
			body, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			sections := render.Render(body)
			mode := strings.ToLower(outputMode)
			if mode == "" {
				mode = "json"
				if isTerminal(cmd.OutOrStdout()) {
					mode = "pretty"
				}
			}
			switch mode {
			case "json":
				return format.WriteJSONSections(cmd.OutOrStdout(), sections, true)
			case "pretty":
				return format.WritePrettySections(cmd.OutOrStdout(), sections)
			case "markdown":
				_, err := fmt.Fprintln(cmd.OutOrStdout(), render.Markdown(sections))
				return err
			default:
				return fmt.Errorf("invalid --output: %s (json|pretty|markdown)", outputMode)
			}
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "markup file (default stdin)")
	cmd.Flags().StringVarP(&outputMode, "output", "o", "", "output mode: json|pretty|markdown (default pretty on a terminal, json otherwise)")
	registerOutputCompletion(cmd, "json", "pretty", "markdown")
	return cmd
}
