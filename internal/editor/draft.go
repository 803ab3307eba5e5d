package editor

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mithrel/sangama/pkg/api"
)

const (
	TitlePrefix     = "Title: "
	TypePrefix      = "Type: "
	SequencePrefix  = "Sequence: "
	VisiblePrefix   = "Visible: "
	MediaPrefix     = "Media: "
	MediaTypePrefix = "Media-Type: "
)

// ComposeDraft creates the text presented to the editor.
func ComposeDraft(d Draft) string {
	var b bytes.Buffer
	b.WriteString("# Daily Sangama content\n")
	b.WriteString("# Lines starting with '#' are ignored above the first '---'.\n")
	b.WriteString("# Type: quote, shloka, song or panchanga. Media-Type: audio, video or image.\n")
	b.WriteString("# Below the first '---' write the body; a later '---' line starts a new section.\n")
	b.WriteString(TitlePrefix + d.Title + "\n")
	b.WriteString(TypePrefix + string(d.Type) + "\n")
	b.WriteString(SequencePrefix + strconv.Itoa(d.Sequence) + "\n")
	b.WriteString(VisiblePrefix + strconv.FormatBool(d.Visible) + "\n")
	b.WriteString(MediaPrefix + d.MediaURL + "\n")
	b.WriteString(MediaTypePrefix + string(d.MediaType) + "\n")
	b.WriteString("---\n")
	if d.Body != "" {
		body := d.Body
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		b.WriteString(body)
	}
	return b.String()
}

// ParseDraft reads editor output back into a draft. Only the first "---"
// ends the header, so rule delimiters in the body are kept.
func ParseDraft(s string) Draft {
	d := Draft{Visible: true}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	inBody := false
	var bodyLines []string
	for _, line := range lines {
		if inBody {
			bodyLines = append(bodyLines, line)
			continue
		}
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "#") {
			continue
		}
		if trim == "---" {
			inBody = true
			continue
		}
		key, val, ok := strings.Cut(trim, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			d.Title = val
		case "type":
			d.Type = api.ContentType(strings.ToLower(val))
		case "sequence":
			d.Sequence, _ = strconv.Atoi(val)
		case "visible":
			if v, err := strconv.ParseBool(val); err == nil {
				d.Visible = v
			}
		case "media":
			d.MediaURL = val
		case "media-type":
			d.MediaType = api.MediaType(strings.ToLower(val))
		}
	}
	d.Body = strings.Trim(strings.Join(bodyLines, "\n"), "\n")
	return d
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// DraftPath returns a private temp file path for a draft being edited.
func DraftPath(id string) (string, error) {
	name := id + ".sangama.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "sangama", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "sangama", "edit", name), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	var cmd *exec.Cmd
	if strings.TrimSpace(ed) != "" {
		cmd = exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	} else {
		prog, err := PreferredEditor()
		if err != nil {
			return nil, false, err
		}
		cmd = exec.Command(prog, path)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}
