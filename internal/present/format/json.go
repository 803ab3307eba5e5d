package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/sangama/internal/render"
	"github.com/mithrel/sangama/pkg/api"
)

func WriteJSONContents(w io.Writer, contents []api.Content, indent bool) error {
	if contents == nil {
		contents = []api.Content{}
	}
	return encoder(w, indent).Encode(contents)
}

func WriteJSONContent(w io.Writer, c api.Content, indent bool) error {
	return encoder(w, indent).Encode(c)
}

// WriteJSONSections writes the rendered block structure of a body.
func WriteJSONSections(w io.Writer, sections []render.Section, indent bool) error {
	return encoder(w, indent).Encode(sections)
}

func encoder(w io.Writer, indent bool) *json.Encoder {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc
}
