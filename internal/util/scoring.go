package util

import (
	"github.com/sahilm/fuzzy"

	"github.com/mithrel/sangama/pkg/api"
)

// ScoreCompletions returns the top N matches for the input string from the candidates list.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}

type titleSource []api.Content

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

// RankByTitle keeps the records whose title fuzzily matches query,
// best match first.
func RankByTitle(query string, contents []api.Content) []api.Content {
	matches := fuzzy.FindFrom(query, titleSource(contents))
	out := make([]api.Content, 0, len(matches))
	for _, m := range matches {
		out = append(out, contents[m.Index])
	}
	return out
}
