package answer

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

const (
	noDocsMessage   = "No relevant docs found."
	noMatchMessage  = "No good match."
	maxTopSentences = 3
	sentenceDelim   = ". "
)

// Extractive assembles an answer directly from the context documents by
// ranking sentences on word overlap with the query. Used when generation
// is unavailable; never fails.
func Extractive(query string, contextDocs []string) domain.Answer {
	if len(contextDocs) == 0 {
		return domain.Answer{Text: noDocsMessage, Provenance: domain.ProvenanceExtractive}
	}

	queryWords := wordSet(query)

	type scored struct {
		sentence string
		overlap  int
	}
	var candidates []scored

	for _, doc := range contextDocs {
		for _, sentence := range strings.Split(doc, sentenceDelim) {
			overlap := overlapCount(queryWords, sentence)
			if overlap > 0 {
				candidates = append(candidates, scored{sentence: sentence, overlap: overlap})
			}
		}
	}

	// Stable: equal-overlap sentences keep document order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].overlap > candidates[j].overlap
	})

	top := make([]string, 0, maxTopSentences)
	for i, c := range candidates {
		if i >= maxTopSentences {
			break
		}
		top = append(top, c.sentence)
	}

	text := strings.Join(top, sentenceDelim)
	if text == "" {
		text = noMatchMessage
	}

	return domain.Answer{Text: text, Provenance: domain.ProvenanceExtractive}
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

func overlapCount(queryWords map[string]struct{}, sentence string) int {
	seen := make(map[string]struct{})
	n := 0
	for _, w := range strings.Fields(strings.ToLower(sentence)) {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := queryWords[w]; ok {
			n++
		}
	}
	return n
}
