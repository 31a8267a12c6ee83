// Package normalize cleans raw chat-dump text before segmentation.
// The steps run in a fixed order and never reorder content lines.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Junk phrases copied verbatim by chat web UIs alongside the actual
// conversation. A line exact-matching one of these carries no content.
var junkPhrases = map[string]struct{}{
	"Copy":                 {},
	"Copy code":            {},
	"Copied":               {},
	"Copied!":              {},
	"Share":                {},
	"Edit":                 {},
	"Retry":                {},
	"Regenerate":           {},
	"Regenerate response":  {},
	"Good response":        {},
	"Bad response":         {},
	"Show drafts":          {},
	"Show more":            {},
	"Search the web":       {},
	"コピー":                  {},
	"コードをコピー":              {},
	"共有":                   {},
	"編集":                   {},
	"再生成":                  {},
	"回答案を表示":               {},
	"他の回答案を表示":             {},
	"もっと見る":                {},
	"音声で読み上げる":             {},
}

var junkPatterns = []*regexp.Regexp{
	// "Thought for 12 seconds" / "Thought for 3s" reasoning banners
	regexp.MustCompile(`^Thought for \d+\s*s(econds?)?$`),
	regexp.MustCompile(`^\d+\s*秒間?考えました$`),
	// Draft pagination like "1/3"
	regexp.MustCompile(`^\d+\s*/\s*\d+$`),
	// Bare share links back to the chat platform itself
	regexp.MustCompile(`^https?://(chatgpt\.com|chat\.openai\.com|gemini\.google\.com|g\.co/gemini|claude\.ai)\S*$`),
}

var invisibleReplacer = strings.NewReplacer(
	"\u200b", "", // zero-width space
	"\u200c", "", // zero-width non-joiner
	"\u200d", "", // zero-width joiner
	"\ufeff", "", // BOM
	"\u00ad", "", // soft hyphen
)

var blankRunRe = regexp.MustCompile(`\n{4,}`)

// Normalize cleans a raw dump: line endings, NFKC, invisible characters,
// full-width spaces, UI junk lines, and excess blank lines.
func Normalize(raw string) string {
	// (a) line endings
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	// (b) Unicode canonical-compatibility normalization
	s = norm.NFKC.String(s)

	// (c) invisible characters
	s = invisibleReplacer.Replace(s)

	// (d) full-width space. NFKC folds most of these already; kept as an
	// explicit step so the guarantee does not depend on the norm tables.
	s = strings.ReplaceAll(s, "　", " ")

	// (e) junk lines
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isJunkLine(line) {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	s = strings.Join(kept, "\n")

	// (f) collapse 3+ consecutive blank lines to 2
	s = blankRunRe.ReplaceAllString(s, "\n\n\n")

	// (g) trim
	return strings.TrimSpace(s)
}

// IsJunkLine reports whether a line is UI chrome rather than content.
// Exported so the segmentation-completeness property can account for it.
func IsJunkLine(line string) bool { return isJunkLine(line) }

func isJunkLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false // blank lines are boundaries, not junk
	}
	if _, ok := junkPhrases[trimmed]; ok {
		return true
	}
	for _, re := range junkPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return emojiOnly(trimmed)
}

// emojiOnly reports whether a short line consists entirely of emoji,
// symbols, and surrounding space (reaction rows like "👍 👎").
func emojiOnly(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 || len(runes) > 8 {
		return false
	}
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.In(r, unicode.So, unicode.Sk, unicode.Sm) && !isEmojiRune(r) {
			return false
		}
	}
	return true
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r == 0xFE0F: // variation selector
		return true
	}
	return false
}
