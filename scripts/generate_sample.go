//go:build ignore

// Writes a large sample content file for `sangama seed --file`.
//
//	go run scripts/generate_sample.go -n 500 > /tmp/sample.yaml
package main

import (
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

type media struct {
	URL  string `yaml:"url"`
	Type string `yaml:"type"`
}

type record struct {
	Title     string `yaml:"title"`
	Type      string `yaml:"type"`
	Subtype   string `yaml:"subtype,omitempty"`
	Sequence  int    `yaml:"sequence"`
	Community string `yaml:"community"`
	Category  string `yaml:"category"`
	Visible   bool   `yaml:"is_visible"`
	Media     *media `yaml:"media,omitempty"`
	Content   string `yaml:"content"`
}

var (
	types = []string{"quote", "shloka", "song", "panchanga"}
	words = strings.Fields("dharma satya shanti seva bhakti jnana karma prana atman sangha " +
		"surya chandra nadi vana gita raga tala mantra diya utsava")
)

func main() {
	total := flag.Int("n", 500, "number of records")
	community := flag.String("community", "sangha-bengaluru-north", "community id")
	flag.Parse()

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))
	seq := map[string]int{}
	out := make([]record, 0, *total)
	for i := 0; i < *total; i++ {
		typ := types[i%len(types)]
		seq[typ]++
		r := record{
			Title:     fmt.Sprintf("Sample %s %03d", typ, seq[typ]),
			Type:      typ,
			Sequence:  seq[typ],
			Community: *community,
			Category:  "routine",
			Visible:   mr.Float64() >= 0.1,
			Content:   body(mr),
		}
		if typ == "song" && mr.Intn(2) == 0 {
			r.Media = &media{URL: fmt.Sprintf("https://example.com/audio/sample-%03d.mp3", seq[typ]), Type: "audio"}
		}
		out = append(out, r)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	_ = enc.Close()
}

// body mixes every markup construct: headings, quotes, bold runs and rules.
func body(r *mrand.Rand) string {
	var b strings.Builder
	sections := 1 + r.Intn(3)
	for s := 0; s < sections; s++ {
		if s > 0 {
			b.WriteString("\n---\n\n")
		}
		if r.Intn(2) == 0 {
			fmt.Fprintf(&b, "### %s\n\n", phrase(r, 2))
		}
		if r.Intn(3) == 0 {
			fmt.Fprintf(&b, "> %s\n\n", phrase(r, 6))
		}
		fmt.Fprintf(&b, "%s **%s** %s\n", phrase(r, 4), phrase(r, 2), phrase(r, 5))
	}
	return b.String()
}

func phrase(r *mrand.Rand, n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = words[r.Intn(len(words))]
	}
	return strings.Join(out, " ")
}
