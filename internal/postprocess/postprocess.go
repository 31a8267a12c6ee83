// Package postprocess applies deterministic repair rules after the
// Viterbi pass: explicit markers override everything, isolated
// low-confidence blocks are absorbed by their neighbors, fragments are
// merged, and UI echo duplicates are collapsed.
package postprocess

import (
	"strings"
	"unicode/utf8"

	"github.com/ryotak25/kaidoku/internal/feature"
	"github.com/ryotak25/kaidoku/internal/model"
)

// Processor runs the rule sequence over Viterbi-labeled blocks
type Processor struct {
	cfg model.PostConfig
}

// New creates a processor with the given tuning
func New(cfg *model.Config) *Processor {
	return &Processor{cfg: cfg.Post}
}

// labeled wraps an OptimizedBlock with marker bookkeeping while the
// rules run. The input slice is never mutated.
type labeled struct {
	model.OptimizedBlock
	markerRole model.Role
	markerOnly bool
}

// Process applies the full rule sequence and returns densely re-indexed
// blocks.
func (p *Processor) Process(blocks []model.OptimizedBlock) []model.OptimizedBlock {
	if len(blocks) == 0 {
		return nil
	}

	work := make([]labeled, len(blocks))
	for i, b := range blocks {
		work[i] = labeled{OptimizedBlock: b}
	}

	p.applyMarkers(work)
	p.propagateMarkers(work)
	p.absorbIsolated(work)
	work = p.mergeShortRuns(work)
	work = dropMarkerOnly(work)
	work = p.dedupEchoes(work)

	out := make([]model.OptimizedBlock, len(work))
	for i, w := range work {
		w.ID = i
		out[i] = w.OptimizedBlock
	}
	return out
}

// applyMarkers forces the role of any block that opens with an explicit
// marker and strips the marker from its content
func (p *Processor) applyMarkers(work []labeled) {
	for i := range work {
		first := firstLine(work[i].Text)
		role, content, ok := feature.MatchRoleMarker(first)
		if !ok {
			continue
		}

		rest := ""
		if idx := strings.IndexByte(work[i].Text, '\n'); idx >= 0 {
			rest = work[i].Text[idx+1:]
		}
		stripped := content
		if rest != "" {
			if stripped != "" {
				stripped += "\n"
			}
			stripped += rest
		}
		stripped = strings.TrimSpace(stripped)

		work[i].markerRole = role
		work[i].Role = role
		work[i].Confidence = 1.0
		work[i].Text = stripped
		work[i].markerOnly = stripped == ""
	}
}

// propagateMarkers hands a standalone marker's role to the content block
// right after it
func (p *Processor) propagateMarkers(work []labeled) {
	for i := 0; i < len(work)-1; i++ {
		if !work[i].markerOnly {
			continue
		}
		next := &work[i+1]
		if next.markerRole != "" {
			continue
		}
		next.Role = work[i].markerRole
		if next.Confidence < p.cfg.MarkerContentConf {
			next.Confidence = p.cfg.MarkerContentConf
		}
	}
}

// absorbIsolated re-labels a low-confidence block whose two neighbors
// agree on the other role
func (p *Processor) absorbIsolated(work []labeled) {
	for i := 1; i < len(work)-1; i++ {
		cur := &work[i]
		if cur.markerRole != "" || cur.Confidence >= p.cfg.AbsorptionMaxConf {
			continue
		}
		prev, next := work[i-1], work[i+1]
		if prev.Role != next.Role || cur.Role == prev.Role {
			continue
		}
		cur.Role = prev.Role
		cur.Confidence *= p.cfg.AbsorptionShrink
	}
}

// mergeShortRuns joins consecutive same-role short fragments
func (p *Processor) mergeShortRuns(work []labeled) []labeled {
	if len(work) < 2 {
		return work
	}
	out := []labeled{work[0]}
	for _, w := range work[1:] {
		last := &out[len(out)-1]
		if w.Role == last.Role &&
			!w.markerOnly && !last.markerOnly &&
			w.markerRole == "" && last.markerRole == "" &&
			utf8.RuneCountInString(last.Text) < p.cfg.ShortMergeMax &&
			utf8.RuneCountInString(w.Text) < p.cfg.ShortMergeMax {
			last.Text = last.Text + "\n" + w.Text
			last.EndLine = w.EndLine
			if w.Confidence < last.Confidence {
				last.Confidence = w.Confidence
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

func dropMarkerOnly(work []labeled) []labeled {
	out := work[:0]
	for _, w := range work {
		if w.markerOnly {
			continue
		}
		out = append(out, w)
	}
	return out
}

// dedupEchoes collapses consecutive same-role blocks where one text is
// contained in the other. Chat UIs sometimes duplicate a span when the
// user copies across a streaming update; the higher-confidence variant
// wins.
func (p *Processor) dedupEchoes(work []labeled) []labeled {
	if len(work) < 2 {
		return work
	}
	out := []labeled{work[0]}
	for _, w := range work[1:] {
		last := &out[len(out)-1]
		if w.Role == last.Role && echoes(last.Text, w.Text) {
			if w.Confidence > last.Confidence ||
				(w.Confidence == last.Confidence && len(w.Text) > len(last.Text)) {
				*last = w
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

func echoes(a, b string) bool {
	ta, tb := strings.TrimSpace(a), strings.TrimSpace(b)
	if ta == "" || tb == "" {
		return false
	}
	return strings.Contains(ta, tb) || strings.Contains(tb, ta)
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
