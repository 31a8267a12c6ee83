// Package score turns feature vectors into role-leaning scores. Each
// signal adds fixed base points to the user or AI side; learned weight
// deltas from the correction store shift individual signals on top.
package score

import (
	"math"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Scorer computes additive user/AI scores per block. The weight deltas
// are a read-only snapshot taken at the start of the analyze call.
type Scorer struct {
	cfg    model.ScoringConfig
	deltas map[string]float64
}

// NewScorer creates a scorer with the given tuning and learned deltas
func NewScorer(cfg *model.Config, deltas map[string]float64) *Scorer {
	return &Scorer{cfg: cfg.Scoring, deltas: deltas}
}

// signal is one entry of the fixed rule table. The name doubles as the
// weight-delta key and the active-feature vocabulary, so corrections and
// scoring stay consistent.
type signal struct {
	name  string
	side  model.Role
	base  float64
	fires bool
}

// signals evaluates the full rule table for one feature vector
func (s *Scorer) signals(f model.Features) []signal {
	c := s.cfg
	return []signal{
		{"shortText", model.RoleUser, c.ShortText, f.CharCount < c.ShortTextMax},
		{"veryShortText", model.RoleUser, c.VeryShortText, f.CharCount < c.VeryShortTextMax},
		{"hasQuestion", model.RoleUser, c.Question, f.HasQuestion},
		{"hasImperativeForm", model.RoleUser, c.Imperative, f.HasImperativeForm},
		{"hasErrorKeyword", model.RoleUser, c.ErrorKeyword, f.HasErrorKeyword},
		{"shortPaste", model.RoleUser, c.ShortPaste, (f.HasFilePath || f.HasURL) && f.CharCount < 80},
		{"lowFormality", model.RoleUser, c.LowFormality, f.Formality < 0.4},
		{"highSentiment", model.RoleUser, c.HighSentiment, f.SentimentScore > 0.5},
		{"bareCommand", model.RoleUser, c.BareCommand, f.HasCommand && f.LineCount <= 2 && !f.HasExplanationStructure},
		{"longText", model.RoleAI, c.LongText, f.CharCount > c.LongTextMin},
		{"veryLongText", model.RoleAI, c.VeryLongText, f.CharCount > c.VeryLongTextMin},
		{"hasHeading", model.RoleAI, c.Heading, f.HasMarkdownHeading},
		{"hasBulletList", model.RoleAI, c.BulletList, f.HasBulletList},
		{"hasTable", model.RoleAI, c.Table, f.HasTable},
		{"hasCodeBlock", model.RoleAI, c.CodeBlock, f.HasCodeBlock},
		{"politeForm", model.RoleAI, c.PoliteForm, f.HasPoliteForm},
		{"explanationStructure", model.RoleAI, c.Explanation, f.HasExplanationStructure},
		{"highTechDensity", model.RoleAI, c.HighTechDensity, f.TechDensity > 0.15 && f.CharCount > c.LongTextMin},
		{"multiLineStructured", model.RoleAI, c.MultiLineStructured, f.LineCount >= 5 && (f.HasBulletList || f.HasCodeBlock || f.HasTable || f.HasMarkdownHeading)},
	}
}

// ActiveSignals returns the names of the signals that fire for a feature
// vector. Corrections store exactly these names, keeping the learning
// vocabulary identical to the scoring vocabulary.
func (s *Scorer) ActiveSignals(f model.Features) []string {
	var names []string
	for _, sig := range s.signals(f) {
		if sig.fires {
			names = append(names, sig.name)
		}
	}
	return names
}

// Score computes both role scores for one block
func (s *Scorer) Score(fb model.FeaturedBlock) model.ScoredBlock {
	var scoreUser, scoreAI float64
	var active []string

	for _, sig := range s.signals(fb.Features) {
		if !sig.fires {
			continue
		}
		active = append(active, sig.name)

		if sig.side == model.RoleUser {
			scoreUser += sig.base
		} else {
			scoreAI += sig.base
		}

		// A positive learned delta pushes the signal toward AI, a
		// negative one toward user, regardless of the signal's own side.
		if d := s.deltas[sig.name]; d > 0 {
			scoreAI += d
		} else if d < 0 {
			scoreUser += -d
		}
	}

	margin := scoreAI - scoreUser
	length := float64(fb.Features.CharCount) / 100
	if length > 1 {
		length = 1
	}

	return model.ScoredBlock{
		FeaturedBlock: fb,
		ScoreUser:     scoreUser,
		ScoreAI:       scoreAI,
		PAI:           sigmoid(margin),
		// Short blocks can never be highly confident, whatever the margin
		LocalConfidence: sigmoid(math.Abs(margin)-1) * length,
		ActiveSignals:   active,
	}
}

// ScoreAll maps Score over an ordered block sequence
func (s *Scorer) ScoreAll(blocks []model.FeaturedBlock) []model.ScoredBlock {
	out := make([]model.ScoredBlock, len(blocks))
	for i, fb := range blocks {
		out[i] = s.Score(fb)
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
