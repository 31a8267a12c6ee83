// Package classify holds the three independent multi-label rule engines
// that tag analyzed messages: intent (what the message tries to do),
// artifact (what concrete content it embeds), and topic (which
// technical area it talks about).
package classify

import (
	"regexp"

	"github.com/ryotak25/kaidoku/internal/model"
)

type intentRule struct {
	tag      model.IntentTag
	patterns []*regexp.Regexp
}

// Ordered only for evaluation; every matching rule's tag is added
var intentRules = []intentRule{
	{model.IntentError, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:error|exception|failed|failure|crash(?:ed|es)?|broken|not working)\b`),
		regexp.MustCompile(`(?:エラー|例外|失敗し|動かない|動きません|落ち(?:る|た|ます)|バグ)`),
	}},
	{model.IntentConfirm, []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:yes|no|ok(?:ay)?|sure|right|correct|exactly|thanks|thank you|got it|sounds good|perfect|great)\b`),
		regexp.MustCompile(`^(?:はい|いいえ|了解|承知|なるほど|そうです|その通り|ありがとう|OK|おけ|いいね)`),
	}},
	{model.IntentQ, []*regexp.Regexp{
		regexp.MustCompile(`[?？]`),
		regexp.MustCompile(`(?i)^(?:how|what|why|when|where|which|who|can|could|should|would|is|are|do|does)\b`),
		regexp.MustCompile(`(?:ですか|ますか|でしょうか|とは何|どうすれば|どうやって|なぜ|教えて)`),
	}},
	{model.IntentCmd, []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^(?:please\s+)?(?:fix|add|create|make|write|update|change|remove|delete|implement|refactor|explain|show|give|generate|translate|convert|build|install)\b`),
		regexp.MustCompile(`(?:してください|してほしい|して。|しろ|せよ|お願いします|作って|直して|追加して|修正して|変更して|書いて)`),
	}},
	{model.IntentPlan, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:plan|steps?|roadmap|approach|strategy|first.*then|todo)\b`),
		regexp.MustCompile(`(?:手順|計画|方針|進め方|ステップ|まず.*次に|流れ)`),
		regexp.MustCompile(`(?m)^\s*\d+[.)]\s.*\n\s*\d+[.)]\s`),
	}},
	{model.IntentMeta, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:summarize|summary of (?:this|our)|recap|new topic|different topic|change of topic|by the way|ignore (?:the )?previous|start over)\b`),
		regexp.MustCompile(`(?:要約して|まとめて|別の話|話は変わ|ところで|最初から|ここまでの)`),
	}},
}

// Intents tags a message text with every matching intent. Falls back to
// INFO when nothing matches.
func Intents(text string) model.TagSet[model.IntentTag] {
	tags := model.NewTagSet[model.IntentTag]()
	for _, rule := range intentRules {
		for _, re := range rule.patterns {
			if re.MatchString(text) {
				tags.Add(rule.tag)
				break
			}
		}
	}
	if len(tags) == 0 {
		tags.Add(model.IntentInfo)
	}
	return tags
}
