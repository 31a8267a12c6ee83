// Package feature attaches a fixed-shape feature vector to each block.
// All boolean features are independent regex tests over the block text.
package feature

import (
	"strings"
	"unicode/utf8"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Extract computes the feature vector for one block
func Extract(b model.Block) model.FeaturedBlock {
	text := b.Text
	lines := strings.Split(text, "\n")
	charCount := utf8.RuneCountInString(text)

	f := model.Features{
		HasQuestion:             questionMarkRe.MatchString(text) || questionWordRe.MatchString(text) || questionJpRe.MatchString(text),
		HasCodeBlock:            codeFenceRe.MatchString(text) || indentCodeRe.MatchString(text),
		HasTable:                tableRowRe.MatchString(text),
		HasMarkdownHeading:      headingRe.MatchString(text),
		HasBulletList:           bulletRe.MatchString(text),
		HasURL:                  urlRe.MatchString(text),
		HasFilePath:             filePathRe.MatchString(text),
		HasCommand:              commandRe.MatchString(text),
		HasErrorKeyword:         errorEnRe.MatchString(text) || errorJpRe.MatchString(text),
		HasJapanese:             japaneseRe.MatchString(text),
		HasPoliteForm:           politeRe.MatchString(text),
		HasExplanationStructure: explanationRe.MatchString(text),
		HasImperativeForm:       imperativeEnRe.MatchString(text) || imperativeJpRe.MatchString(text),
		CharCount:               charCount,
		LineCount:               len(lines),
	}

	for _, line := range lines {
		role, _, ok := MatchRoleMarker(line)
		if !ok {
			continue
		}
		if role == model.RoleUser {
			f.HasUserMarker = true
		} else {
			f.HasAIMarker = true
		}
	}

	if len(lines) > 0 {
		f.AvgLineLength = float64(charCount) / float64(len(lines))
	}
	f.Formality = formality(text, f.HasPoliteForm)
	f.SentimentScore = sentiment(text, charCount)
	f.TechDensity = techDensity(text)

	return model.FeaturedBlock{Block: b, Features: f}
}

// ExtractAll maps Extract over an ordered block sequence
func ExtractAll(blocks []model.Block) []model.FeaturedBlock {
	out := make([]model.FeaturedBlock, len(blocks))
	for i, b := range blocks {
		out[i] = Extract(b)
	}
	return out
}

// formality starts neutral and shifts with polite/casual endings
func formality(text string, polite bool) float64 {
	v := 0.5
	if polite {
		v += 0.3
	}
	if casualRe.MatchString(text) {
		v -= 0.3
	}
	return clamp01(v)
}

// sentiment is an exclamation/question density, scaled so long calm text
// stays near zero
func sentiment(text string, charCount int) float64 {
	marks := len(exclamationRe.FindAllString(text, -1))
	denom := float64(charCount) / 50
	if denom < 1 {
		denom = 1
	}
	v := float64(marks) / denom
	if v > 1 {
		v = 1
	}
	return v
}

// techDensity counts known technical terms per word. Japanese text has
// few space-separated fields, so the word count falls back to a
// rune-based estimate to keep the ratio comparable across scripts.
func techDensity(text string) float64 {
	terms := len(techTermEnRe.FindAllString(text, -1)) + len(techTermJpRe.FindAllString(text, -1))
	if terms == 0 {
		return 0
	}
	words := len(strings.Fields(text))
	if est := utf8.RuneCountInString(text) / 6; est > words {
		words = est
	}
	if words == 0 {
		words = 1
	}
	return float64(terms) / float64(words)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
