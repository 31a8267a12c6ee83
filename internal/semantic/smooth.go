package semantic

import (
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/ryotak25/kaidoku/internal/model"
)

const bugTopic = "BUG"

var numberedStepsRe = regexp.MustCompile(`(?m)^\s*\d+[.)]\s.*\n(?:.*\n)?\s*\d+[.)]\s`)

// Smoother propagates representative labels within each semantic group.
// All propagation is additive; existing tags are never removed.
type Smoother struct {
	cfg model.SmoothingConfig
}

// NewSmoother creates a smoother with the given tuning
func NewSmoother(cfg *model.Config) *Smoother {
	return &Smoother{cfg: cfg.Smoothing}
}

// Smooth returns a new message list with group-level label propagation
// applied
func (s *Smoother) Smooth(msgs []model.Message, groups []model.SemanticGroup) []model.Message {
	out := make([]model.Message, len(msgs))
	copy(out, msgs)

	for _, g := range groups {
		s.smoothGroup(out[g.Start : g.End+1])
	}
	s.propagateAnswers(out)
	return out
}

func (s *Smoother) smoothGroup(span []model.Message) {
	reps := s.representativeTopics(span)

	for i := range span {
		if len(span[i].Topics) == 0 {
			span[i].Topics = append([]string(nil), reps...)
			continue
		}
		for _, rep := range reps {
			if !containsString(span[i].Topics, rep) {
				span[i].Topics = append(span[i].Topics, rep)
			}
		}
	}

	// A group dominated by log pastes is a debugging session
	logCount := 0
	for _, m := range span {
		if m.Artifacts.Has(model.ArtifactLog) {
			logCount++
		}
	}
	if float64(logCount) >= s.cfg.LogBugRatio*float64(len(span)) && logCount > 0 {
		for i := range span {
			if !containsString(span[i].Topics, bugTopic) {
				span[i].Topics = append(span[i].Topics, bugTopic)
			}
		}
	}
}

// representativeTopics are the topics appearing in at least
// RepresentativeRatio of the group's messages, sorted by frequency
func (s *Smoother) representativeTopics(span []model.Message) []string {
	counts := make(map[string]int)
	for _, m := range span {
		for _, t := range m.Topics {
			counts[t]++
		}
	}
	threshold := s.cfg.RepresentativeRatio * float64(len(span))
	var reps []string
	for t, c := range counts {
		if float64(c) >= threshold {
			reps = append(reps, t)
		}
	}
	sort.Slice(reps, func(i, j int) bool {
		if counts[reps[i]] != counts[reps[j]] {
			return counts[reps[i]] > counts[reps[j]]
		}
		return reps[i] < reps[j]
	})
	return reps
}

// propagateAnswers applies Q->answer and error->reply patterns across
// adjacent message pairs
func (s *Smoother) propagateAnswers(msgs []model.Message) {
	for i := 0; i < len(msgs)-1; i++ {
		cur, next := &msgs[i], &msgs[i+1]
		if cur.Role != model.RoleUser || next.Role != model.RoleAI {
			continue
		}

		if cur.Intents.Has(model.IntentQ) &&
			utf8.RuneCountInString(next.Text) > s.cfg.LongReplyMin &&
			!next.Intents.Has(model.IntentInfo) && !next.Intents.Has(model.IntentPlan) {
			next.Intents = cloneSet(next.Intents)
			if numberedStepsRe.MatchString(next.Text) {
				next.Intents.Add(model.IntentPlan)
			} else {
				next.Intents.Add(model.IntentInfo)
			}
		}

		if cur.Intents.Has(model.IntentError) && !containsString(next.Topics, bugTopic) {
			next.Topics = append(next.Topics, bugTopic)
		}
	}
}

func cloneSet[T ~string](s model.TagSet[T]) model.TagSet[T] {
	out := make(model.TagSet[T], len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
