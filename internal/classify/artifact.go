package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ryotak25/kaidoku/internal/model"
)

var (
	fenceRe         = regexp.MustCompile("```")
	codeStatementRe = regexp.MustCompile(`(?m)^\s*(?:func |def |class |import |from .+ import|return |const |let |var |if |for |while |package |#include|public |private )`)
	logLineRe       = regexp.MustCompile(`^\s*(?:>|\d{4}[-/]\d{2}[-/]\d{2}|\d{2}:\d{2}:\d{2}|(?:INFO|WARN(?:ING)?|ERROR|DEBUG|FATAL|TRACE)\b|at\s+[\w.$]+\()`)
	pathRe          = regexp.MustCompile(`(?:~?/|\./|\.\./|[A-Za-z]:\\)[\w.\-/\\]+|\b[\w\-]+(?:/[\w.\-]+)+\.[A-Za-z0-9]{1,6}\b`)
	linkRe          = regexp.MustCompile(`https?://[^\s)>"']+`)
	tableRe         = regexp.MustCompile(`(?m)^\s*\|.*\|\s*$`)
	mdHeadingRe     = regexp.MustCompile(`(?m)^#{1,6}\s`)
	imageRefRe      = regexp.MustCompile(`(?i)!\[|\b(?:screenshot|image|diagram)\b|\.(?:png|jpe?g|gif|svg|webp)\b|(?:スクショ|スクリーンショット|画像|図)`)
	contradictionRe = regexp.MustCompile(`(?i)\b(?:actually|however|but wait|no,|that's wrong|incorrect|on second thought)\b|(?:違います|違う|いや、|そうではなく|間違い|正しくは)`)
	intensityRe     = regexp.MustCompile(`(?i)(?:^|\n)\s*(?:actually,|correction:|wait[,.]|edit:)|(?:実は|訂正|本当は|すみません、)`)
)

// Artifacts tags a message text with every embedded content kind it can
// detect. Each tag combines a quick regex check with a block-level
// validator where the quick check alone is too noisy.
func Artifacts(text string) model.TagSet[model.ArtifactTag] {
	tags := model.NewTagSet[model.ArtifactTag]()
	lines := strings.Split(text, "\n")

	if fenceRe.MatchString(text) || countMatching(lines, codeStatementRe) >= 2 {
		tags.Add(model.ArtifactCode)
	}
	if maxConsecutive(lines, logLineRe) >= 3 {
		tags.Add(model.ArtifactLog)
	}
	if pathRe.MatchString(text) {
		tags.Add(model.ArtifactPath)
	}
	if linkRe.MatchString(text) {
		tags.Add(model.ArtifactLink)
	}
	if len(tableRe.FindAllString(text, -1)) >= 2 {
		tags.Add(model.ArtifactTable)
	}
	if isDoc(text, lines) {
		tags.Add(model.ArtifactDoc)
	}
	if imageRefRe.MatchString(text) {
		tags.Add(model.ArtifactImageRef)
	}
	if contradictionRe.MatchString(text) && intensityRe.MatchString(text) {
		tags.Add(model.ArtifactConflict)
	}
	return tags
}

// isDoc requires a heading, a substantial prose paragraph, and real
// overall length; this keeps short headered notes from counting as
// documents.
func isDoc(text string, lines []string) bool {
	if !mdHeadingRe.MatchString(text) || utf8.RuneCountInString(text) <= 200 {
		return false
	}
	for _, para := range strings.Split(text, "\n\n") {
		p := strings.TrimSpace(para)
		if p == "" || mdHeadingRe.MatchString(p) {
			continue
		}
		if utf8.RuneCountInString(p) >= 100 {
			return true
		}
	}
	// Fall back to a long single line when paragraphs were not preserved
	for _, line := range lines {
		if !mdHeadingRe.MatchString(line) && utf8.RuneCountInString(line) >= 100 {
			return true
		}
	}
	return false
}

func countMatching(lines []string, re *regexp.Regexp) int {
	n := 0
	for _, line := range lines {
		if re.MatchString(line) {
			n++
		}
	}
	return n
}

func maxConsecutive(lines []string, re *regexp.Regexp) int {
	best, run := 0, 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" && re.MatchString(line) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}
