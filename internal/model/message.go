package model

import (
	"encoding/json"
	"sort"
)

// IntentTag classifies what a message is trying to do
type IntentTag string

const (
	IntentQ       IntentTag = "Q"       // Question
	IntentCmd     IntentTag = "CMD"     // Instruction / request for action
	IntentInfo    IntentTag = "INFO"    // Informational statement (default)
	IntentConfirm IntentTag = "CONFIRM" // Agreement, acknowledgement
	IntentError   IntentTag = "ERROR"   // Error report
	IntentPlan    IntentTag = "PLAN"    // Steps, roadmap, procedure
	IntentMeta    IntentTag = "META"    // Conversation control (summarize, topic change)
)

// ArtifactTag classifies concrete content embedded in a message
type ArtifactTag string

const (
	ArtifactCode     ArtifactTag = "CODE"
	ArtifactLog      ArtifactTag = "LOG"
	ArtifactPath     ArtifactTag = "PATH"
	ArtifactLink     ArtifactTag = "LINK"
	ArtifactTable    ArtifactTag = "TABLE"
	ArtifactDoc      ArtifactTag = "DOC"
	ArtifactImageRef ArtifactTag = "IMAGE_REF"
	ArtifactConflict ArtifactTag = "CONFLICT"
)

// TagSet is an unordered tag collection. Insertion order is irrelevant;
// serialization is always sorted so equal sets marshal identically.
type TagSet[T ~string] map[T]struct{}

// NewTagSet builds a set from the given tags
func NewTagSet[T ~string](tags ...T) TagSet[T] {
	s := make(TagSet[T], len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts a tag into the set
func (s TagSet[T]) Add(t T) { s[t] = struct{}{} }

// Has reports whether the tag is present
func (s TagSet[T]) Has(t T) bool {
	_, ok := s[t]
	return ok
}

// Values returns the tags in sorted order
func (s TagSet[T]) Values() []T {
	out := make([]T, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON serializes the set as a sorted array
func (s TagSet[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON reads a JSON array into the set
func (s *TagSet[T]) UnmarshalJSON(data []byte) error {
	var tags []T
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}

// Message is the final analyzed unit exposed to callers
type Message struct {
	ID         int                 `json:"id"`
	Role       Role                `json:"role"`
	Text       string              `json:"text"`
	Confidence float64             `json:"confidence"`
	Intents    TagSet[IntentTag]   `json:"intents"`
	Artifacts  TagSet[ArtifactTag] `json:"artifacts"`
	Topics     []string            `json:"topics"` // Sorted by match count descending
	GroupID    int                 `json:"semantic_group_id"`
}

// SemanticGroup is a maximal run of consecutive messages judged topically
// coherent. Spans are contiguous, non-overlapping, and exhaustively
// partition the message list.
type SemanticGroup struct {
	ID        int            `json:"id"`
	Start     int            `json:"start_message_id"` // Inclusive
	End       int            `json:"end_message_id"`   // Inclusive
	Topics    map[string]int `json:"topics"`           // Occurrence counts across the span
	Intents   map[string]int `json:"intents"`
	Artifacts map[string]int `json:"artifacts"`
}

// AnalysisResult is the complete output of one analyze call
type AnalysisResult struct {
	Messages []Message       `json:"messages"`
	Groups   []SemanticGroup `json:"semantic_groups"`
}
