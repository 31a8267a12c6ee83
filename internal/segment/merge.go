package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ryotak25/kaidoku/internal/feature"
	"github.com/ryotak25/kaidoku/internal/model"
)

var referentialRe = regexp.MustCompile(`(?i)(?:see|this|these|here|below|above|こちら|これ|それ|以下|上記|次の)`)

// Japanese postpositions and comma endings that mean the sentence
// continues in the next block
const incompleteEndings = ",、はがをにへとでやも"

// merge repairs over-segmentation. Rules are applied pairwise left to
// right; a block that merges keeps absorbing subsequent ones when the
// rules keep matching.
func (s *Segmenter) merge(blocks []model.Block) []model.Block {
	if len(blocks) < 2 {
		return reindex(blocks)
	}

	out := []model.Block{blocks[0]}
	for _, b := range blocks[1:] {
		last := &out[len(out)-1]
		if s.shouldMerge(*last, b) {
			last.Text = last.Text + "\n" + b.Text
			last.EndLine = b.EndLine
		} else {
			out = append(out, b)
		}
	}
	return reindex(out)
}

func (s *Segmenter) shouldMerge(a, b model.Block) bool {
	// Never merge across an explicit role marker
	if startsWithMarker(a) || startsWithMarker(b) {
		return false
	}

	aLen := utf8.RuneCountInString(a.Text)
	bLen := utf8.RuneCountInString(b.Text)

	// Two consecutive short soft-boundary fragments
	if b.Boundary == model.BoundarySoft && aLen < s.cfg.ShortBlockMax && bLen < s.cfg.ShortBlockMax {
		return true
	}

	// "see this" followed by the bare URL or path it refers to
	if aLen < 40 && referentialRe.MatchString(a.Text) && isBarePaste(b.Text) {
		return true
	}

	// Previous block ends mid-sentence (comma or Japanese postposition)
	if endsIncomplete(a.Text) {
		return true
	}

	aStruct := feature.IsStructuralText(a.Text)
	bStruct := feature.IsStructuralText(b.Text)

	// Both structural: a heading and its list, a fence split in two, ...
	if aStruct && bStruct {
		return true
	}

	// Long structural block followed by a soft fragment continuing its markup
	if aStruct && aLen >= 100 && b.Boundary == model.BoundarySoft {
		first := firstLine(b.Text)
		if feature.IsHeadingLine(first) || feature.IsListLine(first) {
			return true
		}
	}

	// Consecutive list items split apart
	if feature.IsListLine(firstLine(a.Text)) && feature.IsListLine(firstLine(b.Text)) {
		return true
	}

	return false
}

func startsWithMarker(b model.Block) bool {
	_, _, ok := feature.MatchRoleMarker(firstLine(b.Text))
	return ok
}

func isBarePaste(text string) bool {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 1 {
		return false
	}
	return feature.IsStandalonePaste(lines[0])
}

func endsIncomplete(text string) bool {
	trimmed := strings.TrimRight(text, " \t\n")
	if trimmed == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	return strings.ContainsRune(incompleteEndings, r)
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

func reindex(blocks []model.Block) []model.Block {
	for i := range blocks {
		blocks[i].ID = i
	}
	return blocks
}
