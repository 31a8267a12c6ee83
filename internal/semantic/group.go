package semantic

import (
	"github.com/ryotak25/kaidoku/internal/model"
)

// significantArtifacts are the artifact kinds weighty enough that two
// adjacent messages carrying disjoint sets of them signal a topic break
var significantArtifacts = []model.ArtifactTag{
	model.ArtifactCode, model.ArtifactLog, model.ArtifactTable, model.ArtifactDoc,
}

// Grouper places boundaries between adjacent messages based on forced
// rules and set-overlap similarity. Role changes are never boundaries:
// a question and its answer belong to the same group.
type Grouper struct {
	cfg model.GroupingConfig
}

// NewGrouper creates a grouper with the given tuning
func NewGrouper(cfg *model.Config) *Grouper {
	return &Grouper{cfg: cfg.Grouping}
}

// Group partitions the message list into contiguous semantic groups and
// stamps each message with its group id. The input slice is not
// modified.
func (g *Grouper) Group(msgs []model.Message, vectors []Vector) ([]model.Message, []model.SemanticGroup) {
	if len(msgs) == 0 {
		return nil, nil
	}

	out := make([]model.Message, len(msgs))
	copy(out, msgs)

	var groups []model.SemanticGroup
	start := 0
	for i := 1; i <= len(out); i++ {
		if i < len(out) && !g.boundaryBefore(out[i-1], out[i], vectors[i-1], vectors[i]) {
			continue
		}
		group := buildGroup(len(groups), out[start:i], start)
		for j := start; j < i; j++ {
			out[j].GroupID = group.ID
		}
		groups = append(groups, group)
		start = i
	}
	return out, groups
}

// boundaryBefore decides whether cur opens a new group
func (g *Grouper) boundaryBefore(prev, cur model.Message, pv, cv Vector) bool {
	// Conversation-control messages always reset the topic
	if cur.Intents.Has(model.IntentMeta) {
		return true
	}
	// Both sides committed to topics, and they share none
	if len(prev.Topics) > 0 && len(cur.Topics) > 0 && disjointStrings(prev.Topics, cur.Topics) {
		return true
	}
	// Both sides carry heavy artifacts, and the kinds share nothing
	ps, cs := significantOf(prev), significantOf(cur)
	if len(ps) > 0 && len(cs) > 0 && disjointTags(ps, cs) {
		return true
	}
	return Similarity(pv, cv, g.cfg) < g.cfg.SimilarityThreshold
}

func significantOf(m model.Message) []model.ArtifactTag {
	var out []model.ArtifactTag
	for _, t := range significantArtifacts {
		if m.Artifacts.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func disjointStrings(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return false
		}
	}
	return true
}

func disjointTags(a, b []model.ArtifactTag) bool {
	set := make(map[model.ArtifactTag]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; ok {
			return false
		}
	}
	return true
}

// buildGroup aggregates occurrence counts across the span
func buildGroup(id int, span []model.Message, start int) model.SemanticGroup {
	group := model.SemanticGroup{
		ID:        id,
		Start:     start,
		End:       start + len(span) - 1,
		Topics:    make(map[string]int),
		Intents:   make(map[string]int),
		Artifacts: make(map[string]int),
	}
	for _, m := range span {
		for _, t := range m.Topics {
			group.Topics[t]++
		}
		for _, t := range m.Intents.Values() {
			group.Intents[string(t)]++
		}
		for _, t := range m.Artifacts.Values() {
			group.Artifacts[string(t)]++
		}
	}
	return group
}
