package classify

import (
	"regexp"
	"sort"
	"strings"
)

// topicBuckets maps each predefined topic to its keyword list. Short
// ASCII keywords get word-boundary anchoring so "go" does not match
// "google"; Japanese keywords match as substrings.
var topicBuckets = map[string][]string{
	"GIT":         {"git", "commit", "branch", "merge", "rebase", "cherry-pick", "git push", "git pull", "コミット", "ブランチ", "マージ"},
	"NPM":         {"npm", "npx", "yarn", "pnpm", "package.json", "node_modules"},
	"REACT":       {"react", "jsx", "usestate", "useeffect", "component", "props", "hooks", "next.js", "コンポーネント"},
	"NODE":        {"node.js", "nodejs", "express", "fastify", "npm run"},
	"TYPESCRIPT":  {"typescript", "tsconfig", "type error", "interface", "型定義", "型エラー"},
	"PYTHON":      {"python", "pip", "django", "flask", "pandas", "numpy", "venv"},
	"GO":          {"golang", "goroutine", "go.mod", "go build", "go test"},
	"AUTH":        {"auth", "login", "jwt", "oauth", "session", "token", "password", "認証", "ログイン"},
	"DB":          {"database", "sql", "postgres", "postgresql", "mysql", "sqlite", "mongodb", "migration", "index", "データベース", "クエリ"},
	"API":         {"api", "endpoint", "rest", "graphql", "request", "response", "webhook", "エンドポイント"},
	"DEPLOY":      {"deploy", "deployment", "vercel", "netlify", "heroku", "production", "release", "デプロイ", "本番"},
	"DOCKER":      {"docker", "dockerfile", "container", "docker-compose", "image", "kubernetes", "k8s", "コンテナ"},
	"TESTING":     {"test", "tests", "testing", "jest", "pytest", "unit test", "e2e", "coverage", "テスト"},
	"AI_ML":       {"machine learning", "model", "llm", "gpt", "prompt", "embedding", "fine-tune", "inference", "学習", "モデル", "プロンプト"},
	"CSS":         {"css", "tailwind", "flexbox", "grid", "styling", "stylesheet", "スタイル"},
	"LINUX":       {"linux", "ubuntu", "bash", "shell", "terminal", "chmod", "systemd", "ターミナル"},
	"NETWORK":     {"network", "dns", "tcp", "http", "https", "ssl", "tls", "proxy", "cors", "firewall"},
	"BUG":         {"bug", "debug", "fix", "issue", "workaround", "regression", "バグ", "デバッグ", "不具合", "修正"},
	"PERFORMANCE": {"performance", "slow", "optimize", "latency", "memory leak", "profiling", "cache", "パフォーマンス", "遅い", "高速化"},
	"SECURITY":    {"security", "vulnerability", "xss", "csrf", "injection", "sanitize", "encryption", "脆弱性", "セキュリティ"},
}

type topicMatcher struct {
	name     string
	patterns []*regexp.Regexp
}

var topicMatchers = compileTopics()

func compileTopics() []topicMatcher {
	names := make([]string, 0, len(topicBuckets))
	for name := range topicBuckets {
		names = append(names, name)
	}
	sort.Strings(names)

	matchers := make([]topicMatcher, 0, len(names))
	for _, name := range names {
		var patterns []*regexp.Regexp
		for _, kw := range topicBuckets[name] {
			patterns = append(patterns, compileKeyword(kw))
		}
		matchers = append(matchers, topicMatcher{name: name, patterns: patterns})
	}
	return matchers
}

// compileKeyword builds a case-insensitive pattern; short ASCII keywords
// are anchored on word boundaries to avoid substring noise
func compileKeyword(kw string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(strings.ToLower(kw))
	if isASCII(kw) && len(kw) <= 6 {
		return regexp.MustCompile(`(?i)\b` + quoted + `\b`)
	}
	return regexp.MustCompile(`(?i)` + quoted)
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

// Topics returns the matched topic names sorted by match count
// descending, name ascending on ties.
func Topics(text string) []string {
	type hit struct {
		name  string
		count int
	}
	var hits []hit
	for _, m := range topicMatchers {
		count := 0
		for _, re := range m.patterns {
			count += len(re.FindAllString(text, -1))
		}
		if count > 0 {
			hits = append(hits, hit{m.name, count})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].name < hits[j].name
	})

	topics := make([]string, len(hits))
	for i, h := range hits {
		topics[i] = h.name
	}
	return topics
}
