package api

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the record.
// It covers every stored field; timestamps are hashed as UTC RFC3339Nano.
func (c Content) Hash() string {
	h := blake3.New()

	field := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	field(c.ID)
	field(c.Title)
	field(c.Body)
	field(c.Community)
	field(c.Zone)
	field(c.Category)
	field(string(c.Type))
	field(c.Subtype)
	field(strconv.FormatBool(c.Visible))
	field(strconv.Itoa(c.Sequence))
	if c.Media != nil {
		field(c.Media.URL)
		field(string(c.Media.Type))
	}
	h.Write([]byte{0}) // end of media

	if !c.CreatedAt.IsZero() {
		h.Write([]byte(c.CreatedAt.UTC().Format(timeRFC3339Nano)))
	}
	h.Write([]byte{0})
	if !c.UpdatedAt.IsZero() {
		h.Write([]byte(c.UpdatedAt.UTC().Format(timeRFC3339Nano)))
	}

	return hex.EncodeToString(h.Sum(nil))
}

const timeRFC3339Nano = "2006-01-02T15:04:05.999999999Z07:00"
