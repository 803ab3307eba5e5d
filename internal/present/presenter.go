package present

import (
	"context"
	"errors"
	"io"

	"github.com/mithrel/sangama/internal/present/format"
	"github.com/mithrel/sangama/internal/present/tui"
	"github.com/mithrel/sangama/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Deleter backs the TUI delete key; nil disables it.
	Deleter tui.Deleter
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// RenderContents renders a list of records according to options.
func RenderContents(ctx context.Context, w io.Writer, contents []api.Content, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONContents(w, contents, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONContents(w, contents)
	case ModePretty:
		return format.WritePrettyContents(w, contents)
	case ModeTUI:
		return tui.Browse(ctx, contents, opts.Deleter, opts.Headers)
	default:
		return format.WritePlainContents(w, contents, opts.Headers)
	}
}

// RenderContent renders a single record according to options.
func RenderContent(ctx context.Context, w io.Writer, c api.Content, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONContent(w, c, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONContent(w, c)
	case ModePretty:
		return format.WritePrettyContent(w, c)
	case ModeTUI:
		return errors.New("tui output is only available for lists")
	default:
		return format.WritePlainContent(w, c, opts.Headers)
	}
}
