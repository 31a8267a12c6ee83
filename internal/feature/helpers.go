package feature

import (
	"regexp"
	"strings"
)

var (
	urlOnlyRe     = regexp.MustCompile(`^https?://\S+$`)
	pathOnlyRe    = regexp.MustCompile(`^(?:(?:~?/|\./|\.\./|[A-Za-z]:\\)[\w.\-/\\]+|[\w\-]+(?:/[\w.\-]+)+\.[A-Za-z0-9]{1,6})$`)
	listLineRe    = regexp.MustCompile(`^\s*(?:[-*+・]|\d+[.)])\s`)
	headingLineRe = regexp.MustCompile(`^#{1,6}\s`)
)

// IsStandalonePaste reports whether a line is nothing but a pasted URL,
// file path, or shell command
func IsStandalonePaste(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return urlOnlyRe.MatchString(trimmed) ||
		pathOnlyRe.MatchString(trimmed) ||
		commandRe.MatchString(trimmed)
}

// IsListLine reports whether a line opens with bullet or numbered-list markup
func IsListLine(line string) bool {
	return listLineRe.MatchString(line)
}

// IsHeadingLine reports whether a line is a markdown heading
func IsHeadingLine(line string) bool {
	return headingLineRe.MatchString(strings.TrimSpace(line))
}

// IsStructuralText reports whether text carries markdown structure:
// a heading, list, table row, or code
func IsStructuralText(text string) bool {
	return headingRe.MatchString(text) ||
		bulletRe.MatchString(text) ||
		tableRowRe.MatchString(text) ||
		codeFenceRe.MatchString(text) ||
		indentCodeRe.MatchString(text)
}

// HasErrorKeyword reports whether text mentions an error in English or Japanese
func HasErrorKeyword(text string) bool {
	return errorEnRe.MatchString(text) || errorJpRe.MatchString(text)
}
