package feature

import (
	"regexp"
	"strings"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Role marker catalog. Each pattern is anchored at line start and
// captures any inline content following the marker, so "User: hi"
// yields content "hi" while a standalone "User:" line yields "".
var userMarkerRes = []*regexp.Regexp{
	regexp.MustCompile(`^(?:User|You|Human|Me|ユーザー|あなた|質問者?)\s*[::]\s*(.*)$`),
	regexp.MustCompile(`^You said:\s*(.*)$`),
	regexp.MustCompile(`^あなたのプロンプト\s*(.*)$`),
	regexp.MustCompile(`^プロンプト\s*[::]?\s*$()`),
}

var aiMarkerRes = []*regexp.Regexp{
	regexp.MustCompile(`^(?:AI|Assistant|ChatGPT|Claude|Gemini|Bard|Copilot|アシスタント|回答)\s*[::]\s*(.*)$`),
	regexp.MustCompile(`^(?:ChatGPT|Claude|Copilot|Gemini|Bard) said:\s*(.*)$`),
	regexp.MustCompile(`^(?:Gemini|Bard)\s*の回答案?\s*(.*)$`),
	regexp.MustCompile(`^回答案(?:\s*\d+)?\s*$()`),
}

var horizontalRuleRe = regexp.MustCompile(`^\s*(?:[-*_=]{3,}|[─━═]{3,})\s*$`)

// MatchRoleMarker checks whether a line is (or starts with) an explicit
// role marker and returns the role plus any inline content after it.
func MatchRoleMarker(line string) (model.Role, string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, re := range userMarkerRes {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return model.RoleUser, strings.TrimSpace(m[1]), true
		}
	}
	for _, re := range aiMarkerRes {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return model.RoleAI, strings.TrimSpace(m[1]), true
		}
	}
	return "", "", false
}

// IsHorizontalRule reports whether a line is a horizontal-rule separator
func IsHorizontalRule(line string) bool {
	return horizontalRuleRe.MatchString(line)
}

// Boolean feature patterns. Each is an independent test; a block can
// match any combination.
var (
	questionMarkRe  = regexp.MustCompile(`(?m)[?？]\s*$`)
	questionWordRe  = regexp.MustCompile(`(?mi)^(?:how|what|why|when|where|which|who|can|could|should|would|is there|are there|do i|does)\b`)
	questionJpRe    = regexp.MustCompile(`(?:ですか|ますか|でしょうか|ますでしょうか|どうすれば|どうやって|なぜ|何が|教えて)`)
	codeFenceRe     = regexp.MustCompile("```")
	indentCodeRe    = regexp.MustCompile(`(?m)^(?:    |\t)\S`)
	headingRe       = regexp.MustCompile(`(?m)^#{1,6}\s`)
	bulletRe        = regexp.MustCompile(`(?m)^\s*(?:[-*+・]|\d+[.)])\s`)
	tableRowRe      = regexp.MustCompile(`(?m)^\s*\|.*\|\s*$`)
	urlRe           = regexp.MustCompile(`https?://[^\s)>"']+`)
	filePathRe      = regexp.MustCompile(`(?:~?/|\./|\.\./|[A-Za-z]:\\)[\w.\-/\\]+|\b[\w\-]+(?:/[\w.\-]+)+\.[A-Za-z0-9]{1,6}\b`)
	commandRe       = regexp.MustCompile(`(?m)^\s*(?:[$>❯]\s*)?(?:sudo\s+)?(?:git|npm|npx|yarn|pnpm|pip3?|python3?|node|go|cargo|docker|docker-compose|kubectl|helm|make|cd|ls|cat|curl|wget|brew|apt(?:-get)?|ssh|scp|rm|mkdir|chmod|grep)\s+\S`)
	errorEnRe       = regexp.MustCompile(`(?i)\b(?:error|exception|failed|failure|fatal|panic|traceback|undefined|not found|cannot|unable to)\b`)
	errorJpRe       = regexp.MustCompile(`(?:エラー|例外|失敗し|落ちる|落ちた|動かない|動きません|できません|うまくいか)`)
	japaneseRe      = regexp.MustCompile(`[\p{Hiragana}\p{Katakana}\p{Han}]`)
	politeRe        = regexp.MustCompile(`(?m)(?:です|ます|ました|ません|でした|ましょう|ください)[。.!?！?]?$`)
	casualRe        = regexp.MustCompile(`(?:だよ|だね|だろ|じゃん|でしょ|っす|じゃない？?)`)
	explanationRe   = regexp.MustCompile(`(?m)^(?:まず|次に|最後に|つまり|したがって|そのため|また、|さらに|具体的には|First,?\s|Second,?\s|Next,?\s|Then,?\s|Finally,?\s|In summary|Therefore|For example|Here's|Let's|To do this)`)
	imperativeEnRe  = regexp.MustCompile(`(?mi)^(?:please\s+)?(?:fix|add|create|make|write|update|change|remove|delete|implement|refactor|explain|show|give|generate|translate|convert|check|help|build|install|run|use|try)\b`)
	imperativeJpRe  = regexp.MustCompile(`(?:してください|してほしい|してくれ|して。|しろ|せよ|お願いします|作って|直して|教えて|追加して|修正して|変更して|消して|書いて)`)
	exclamationRe   = regexp.MustCompile(`[!！?？]`)
	techTermEnRe    = regexp.MustCompile(`(?i)\b(?:api|server|database|db|sql|query|endpoint|frontend|backend|docker|kubernetes|container|react|vue|angular|component|props|state|hook|function|method|class|variable|const|async|await|promise|thread|process|cache|redis|token|jwt|auth|login|deploy|build|compile|runtime|framework|library|package|npm|yarn|node|python|golang|typescript|javascript|java|rust|git|commit|branch|merge|rebase|push|pull|repository|repo|test|ci|cd|pipeline|config|yaml|json|xml|http|https|rest|graphql|websocket|tcp|dns|ssl|linux|bash|shell|terminal|log|debug|stack|heap|memory|cpu|index|migration|schema)\b`)
	techTermJpRe    = regexp.MustCompile(`(?:サーバー?|データベース|デプロイ|コンテナ|コンポーネント|ライブラリ|フレームワーク|リポジトリ|ブランチ|コミット|マージ|ビルド|テスト|キャッシュ|トークン|ログイン|クエリ|コンフィグ|インストール|バグ|デバッグ)`)
)
