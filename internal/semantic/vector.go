// Package semantic clusters messages into topic-coherent groups. All
// similarity is symbolic set overlap; there are no embeddings.
package semantic

import (
	"regexp"
	"strings"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Vector is the symbolic fingerprint of one message
type Vector struct {
	Keywords map[string]struct{} // Unigrams and bigrams
	Terms    map[string]struct{} // Katakana runs, camelCase, acronyms
	Entities map[string]struct{} // URLs, file paths, CLI tool names
	Topics   map[string]struct{} // From the topic classifier
}

var (
	wordRe     = regexp.MustCompile(`[a-z0-9]{2,}`)
	katakanaRe = regexp.MustCompile(`[ァ-ヶー]{3,}`)
	camelRe    = regexp.MustCompile(`\b[a-z]+[A-Z][A-Za-z0-9]*`)
	pascalRe   = regexp.MustCompile(`\b[A-Z][a-z0-9]+[A-Z][A-Za-z0-9]*`)
	acronymRe  = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	vecURLRe   = regexp.MustCompile(`https?://[^\s)>"']+`)
	vecPathRe  = regexp.MustCompile(`(?:~?/|\./|\.\./)[\w.\-/]+|\b[\w\-]+(?:/[\w.\-]+)+\.[A-Za-z0-9]{1,6}\b`)
	cliToolRe  = regexp.MustCompile(`\b(?:git|docker|kubectl|npm|npx|yarn|pnpm|pip|cargo|brew|curl|wget|make|helm|node|python|go|ssh)\b`)
)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"you": {}, "are": {}, "was": {}, "were": {}, "have": {}, "has": {},
	"not": {}, "but": {}, "can": {}, "will": {}, "your": {}, "from": {},
	"they": {}, "them": {}, "then": {}, "than": {}, "what": {}, "when": {},
	"how": {}, "why": {}, "all": {}, "any": {}, "its": {}, "it's": {},
}

// BuildVector extracts the symbolic fingerprint of a message. Scanning
// is truncated to cfg.MaxScanRunes to bound cost on pathological blocks.
func BuildVector(text string, topics []string, cfg model.GroupingConfig) Vector {
	if runes := []rune(text); len(runes) > cfg.MaxScanRunes {
		text = string(runes[:cfg.MaxScanRunes])
	}

	v := Vector{
		Keywords: make(map[string]struct{}),
		Terms:    make(map[string]struct{}),
		Entities: make(map[string]struct{}),
		Topics:   make(map[string]struct{}),
	}

	words := wordRe.FindAllString(strings.ToLower(text), -1)
	var filtered []string
	for _, w := range words {
		if _, stop := stopwords[w]; stop || len(w) < 3 {
			continue
		}
		filtered = append(filtered, w)
	}
	for i, w := range filtered {
		if len(v.Keywords) >= cfg.MaxKeywords {
			break
		}
		v.Keywords[w] = struct{}{}
		if i+1 < len(filtered) && len(v.Keywords) < cfg.MaxKeywords {
			v.Keywords[w+" "+filtered[i+1]] = struct{}{}
		}
	}

	for _, re := range []*regexp.Regexp{katakanaRe, camelRe, pascalRe, acronymRe} {
		for _, t := range re.FindAllString(text, -1) {
			v.Terms[t] = struct{}{}
		}
	}
	for _, re := range []*regexp.Regexp{vecURLRe, vecPathRe, cliToolRe} {
		for _, e := range re.FindAllString(text, -1) {
			v.Entities[e] = struct{}{}
		}
	}
	for _, t := range topics {
		v.Topics[t] = struct{}{}
	}
	return v
}

// Similarity is the weighted sum of per-set Jaccard overlaps
func Similarity(a, b Vector, cfg model.GroupingConfig) float64 {
	return jaccard(a.Keywords, b.Keywords)*cfg.KeywordWeight +
		jaccard(a.Terms, b.Terms)*cfg.TermWeight +
		jaccard(a.Entities, b.Entities)*cfg.EntityWeight +
		jaccard(a.Topics, b.Topics)*cfg.TopicWeight
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
