package detect

import (
	"regexp"
	"strings"
)

// DefaultStopwords are corporate suffixes stripped when guessing board slugs
// from a company name. Overridable via config.
var DefaultStopwords = []string{
	"inc", "inc.", "co", "corp", "corp.", "corporation", "company",
	"llc", "l.l.c", "plc", "p.l.c", "limited", "ltd", "ltd.",
	"holdings", "group", "labs", "lab", "technologies", "technology",
	"systems", "ai", "usa", "us",
}

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// SlugCandidates generates board-slug guesses for a company name, most
// likely first: the concatenated full token set, the concatenated set with
// stopwords removed, the first token alone, then the hyphen-joined forms of
// both sets. Deterministic and deduplicated; empty input yields nil.
func SlugCandidates(company string, stopwords []string) []string {
	normalized := nonAlnumRegex.ReplaceAllString(strings.ToLower(company), " ")
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return nil
	}

	stop := make(map[string]bool, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = true
	}

	var kept []string
	for _, w := range words {
		if !stop[w] {
			kept = append(kept, w)
		}
	}

	candidates := []string{
		strings.Join(words, ""),
		strings.Join(kept, ""),
		words[0],
		strings.Join(words, "-"),
		strings.Join(kept, "-"),
	}

	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
