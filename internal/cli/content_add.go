package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/sangama/internal/editor"
	"github.com/mithrel/sangama/pkg/api"
)

func newContentAddCmd() *cobra.Command {
	var (
		typ       string
		file      string
		useEditor bool
		hidden    bool
		mediaType string
		d         = editor.NewDraft()
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a quote, shloka, song or panchanga entry",
		Long: `Add a record from flags, a file (--file, "-" for stdin) or your $EDITOR.

The body uses the page markup: "### " headings, "> " quotes, **bold** runs and
"---" lines between sections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			t, err := parseType(typ)
			if err != nil {
				return err
			}
			if t != "" {
				d.Type = t
			}
			d.Visible = !hidden
			d.MediaType = api.MediaType(strings.ToLower(mediaType))
			if file != "" {
				body, err := readInput(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				d.Body = body
			}

			if useEditor {
				edited, ok, err := editDraft(d)
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No edits; nothing added.")
					return nil
				}
				d = edited
			}

			c, err := app.Editor.Add(cmd.Context(), d)
			if fe := editor.FieldErrors(err); fe != nil {
				msgs := make([]string, 0, len(fe))
				for _, k := range []string{"title", "content", "type", "sequence", "media_url", "media_type"} {
					if m, ok := fe[k]; ok {
						msgs = append(msgs, k+": "+m)
					}
				}
				return errors.New("invalid content: " + strings.Join(msgs, "; "))
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.ID, c.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&d.Title, "title", "t", "", "title")
	cmd.Flags().StringVar(&typ, "type", "", "content type: quote|shloka|song|panchanga (default quote)")
	cmd.Flags().IntVarP(&d.Sequence, "sequence", "n", 1, "position within the type's tab")
	cmd.Flags().StringVarP(&d.Body, "content", "c", "", "body markup")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the body from a file (- for stdin)")
	cmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "compose the record in $EDITOR")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "store the record without showing it on the page")
	cmd.Flags().StringVar(&d.MediaURL, "media-url", "", "audio, video or image URL")
	cmd.Flags().StringVar(&mediaType, "media-type", "", "media type: audio|video|image")
	registerTypeCompletion(cmd)
	_ = cmd.RegisterFlagCompletionFunc("media-type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"audio", "video", "image"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// editDraft opens d in $EDITOR; ok is false when the file came back unchanged.
func editDraft(d editor.Draft) (editor.Draft, bool, error) {
	path, err := editor.DraftPath(fmt.Sprintf("new-%d", os.Getpid()))
	if err != nil {
		return d, false, err
	}
	defer os.Remove(path)
	out, changed, err := editor.OpenAt(path, []byte(editor.ComposeDraft(d)))
	if err != nil {
		return d, false, err
	}
	if !changed {
		return d, false, nil
	}
	return editor.ParseDraft(string(out)), true, nil
}
