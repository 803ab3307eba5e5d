package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/sangama/internal/util"
	"github.com/mithrel/sangama/pkg/api"
)

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "content",
		Aliases: []string{"c"},
		Short:   "Add, list, show and delete content",
	}
	cmd.AddCommand(newContentAddCmd())
	cmd.AddCommand(newContentListCmd())
	cmd.AddCommand(newContentShowCmd())
	cmd.AddCommand(newContentDeleteCmd())
	return cmd
}

func errInvalidOutput(mode string) error {
	return fmt.Errorf("invalid --output: %s (plain|pretty|json|ndjson|tui)", mode)
}

func typeNames() []string {
	out := make([]string, 0, len(api.ContentTypes()))
	for _, t := range api.ContentTypes() {
		out = append(out, string(t))
	}
	return out
}

func parseType(s string) (api.ContentType, error) {
	t := api.ContentType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("unknown type %q (%s)", s, strings.Join(typeNames(), "|"))
}

func registerTypeCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return util.ScoreCompletions(toComplete, typeNames(), 10), cobra.ShellCompDirectiveNoFileComp
	})
}

func registerOutputCompletion(cmd *cobra.Command, modes ...string) {
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
}

// completeIDs offers "id\ttitle" pairs ranked by fuzzy title match.
func completeIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	dsn, _ := cmd.Flags().GetString("db")
	v, err := loadConfig(cmd.Context(), cfgPath, dsn)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	app, err := buildApp(cmd, v)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer app.Close()
	contents, err := app.Store.Contents.ListContents(cmd.Context(), api.ListQuery{IncludeHidden: true, Search: toComplete})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	out := make([]string, 0, len(contents))
	for _, c := range contents {
		out = append(out, c.ID+"\t"+c.Title)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
