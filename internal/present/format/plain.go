package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/sangama/pkg/api"
)

// TSV columns: id, type, sequence, title, created_unix_ms
var headerLine = "id\ttype\tsequence\ttitle\tcreated_unix_ms\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func plainLine(c api.Content) string {
	var ms int64
	if !c.CreatedAt.IsZero() {
		ms = c.CreatedAt.UnixMilli()
	}
	return fmt.Sprintf("%s\t%s\t%d\t%s\t%d\n", esc(c.ID), c.Type, c.Sequence, esc(c.Title), ms)
}

func WritePlainContents(w io.Writer, contents []api.Content, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, c := range contents {
		_, _ = io.WriteString(tw, plainLine(c))
	}
	return tw.Flush()
}

func WritePlainContent(w io.Writer, c api.Content, headers bool) error {
	return WritePlainContents(w, []api.Content{c}, headers)
}
