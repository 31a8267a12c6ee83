// Package segment splits normalized text into ordered blocks. Hard
// boundaries (role markers, horizontal rules, double blank lines) always
// flush; soft boundaries are heuristics for marker-less dumps. Markdown
// headings are deliberately not boundaries: they over-segment assistant
// answers.
package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/ryotak25/kaidoku/internal/feature"
	"github.com/ryotak25/kaidoku/internal/model"
)

// Segmenter turns normalized text into an ordered Block sequence
type Segmenter struct {
	cfg model.SegmentConfig
}

// New creates a segmenter with the given tuning
func New(cfg *model.Config) *Segmenter {
	return &Segmenter{cfg: cfg.Segment}
}

type bufLine struct {
	text string
	idx  int
}

// Segment splits text into blocks and repairs over-segmentation with
// the pairwise merge rules.
func (s *Segmenter) Segment(text string) []model.Block {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(text, "\n")

	var blocks []model.Block
	var buf []bufLine
	boundary := model.BoundaryInitial
	blankRun := 0
	inFence := false

	flush := func(next model.BoundaryType) {
		if blk, ok := makeBlock(buf, boundary, len(blocks)); ok {
			blocks = append(blocks, blk)
		}
		buf = nil
		boundary = next
	}

	bufRunes := func() int {
		n := 0
		for _, l := range buf {
			n += utf8.RuneCountInString(l.text)
		}
		return n
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blankRun++
			continue
		}

		if !inFence {
			// Explicit role marker: always a hard boundary. A standalone
			// marker line becomes its own one-line block; an inline marker
			// keeps its content in the new block.
			if _, content, ok := feature.MatchRoleMarker(trimmed); ok {
				flush(model.BoundaryHard)
				blankRun = 0
				buf = append(buf, bufLine{line, i})
				if content == "" {
					flush(model.BoundaryHard)
				}
				continue
			}

			// Horizontal rules separate blocks but are not content
			if feature.IsHorizontalRule(trimmed) {
				flush(model.BoundaryHard)
				blankRun = 0
				continue
			}

			if blankRun >= 2 {
				flush(model.BoundaryHard)
			} else if len(buf) > 0 {
				switch {
				case blankRun == 1 && s.isShortQuestion(trimmed):
					flush(model.BoundarySoft)
				case feature.IsStandalonePaste(trimmed):
					flush(model.BoundarySoft)
				case s.isShortSplitLine(trimmed) && bufRunes() >= s.cfg.AccumulatedMin:
					flush(model.BoundarySoft)
				}
			}
		}

		// Keep interior blank lines so paragraph structure survives
		if len(buf) > 0 {
			for b := 0; b < blankRun && b < 2; b++ {
				buf = append(buf, bufLine{"", i})
			}
		}
		blankRun = 0

		buf = append(buf, bufLine{line, i})
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}
	}
	flush(model.BoundaryInitial)

	return s.merge(blocks)
}

// isShortQuestion matches a short standalone question line, the typical
// shape of a marker-less user turn ("How do I stay young?")
func (s *Segmenter) isShortQuestion(line string) bool {
	if utf8.RuneCountInString(line) > s.cfg.ShortQuestionMax {
		return false
	}
	return strings.HasSuffix(line, "?") || strings.HasSuffix(line, "？")
}

// isShortSplitLine matches a short plain line that likely starts a new
// user turn after a long answer
func (s *Segmenter) isShortSplitLine(line string) bool {
	if utf8.RuneCountInString(line) >= s.cfg.ShortLineMax {
		return false
	}
	if feature.IsHeadingLine(line) || feature.IsListLine(line) {
		return false
	}
	if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "|") {
		return false
	}
	return true
}

// makeBlock assembles buffered lines into a Block, trimming surrounding
// blank lines. Returns false for empty buffers.
func makeBlock(buf []bufLine, boundary model.BoundaryType, id int) (model.Block, bool) {
	start, end := 0, len(buf)-1
	for start <= end && strings.TrimSpace(buf[start].text) == "" {
		start++
	}
	for end >= start && strings.TrimSpace(buf[end].text) == "" {
		end--
	}
	if start > end {
		return model.Block{}, false
	}

	parts := make([]string, 0, end-start+1)
	for _, l := range buf[start : end+1] {
		parts = append(parts, l.text)
	}
	return model.Block{
		ID:        id,
		Text:      strings.Join(parts, "\n"),
		StartLine: buf[start].idx,
		EndLine:   buf[end].idx,
		Boundary:  boundary,
	}, true
}
