package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/sangama/pkg/api"
)

// WriteNDJSONContents writes records as newline-delimited JSON objects.
func WriteNDJSONContents(w io.Writer, contents []api.Content) error {
	enc := json.NewEncoder(w)
	for _, c := range contents {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}

// WriteNDJSONContent writes a single record as one JSON line.
func WriteNDJSONContent(w io.Writer, c api.Content) error {
	return json.NewEncoder(w).Encode(c)
}
