package model

// Role identifies who authored a span of text
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// BoundaryType records how the boundary in front of a block was decided
type BoundaryType string

const (
	BoundaryInitial BoundaryType = "initial" // First block of an input
	BoundaryHard    BoundaryType = "hard"    // Marker line, horizontal rule, double blank
	BoundarySoft    BoundaryType = "soft"    // Heuristic split (short question, paste line, ...)
)

// Block is a contiguous span of text produced by segmentation, prior to
// role assignment. Blocks are immutable once created; later stages wrap
// them instead of mutating them.
type Block struct {
	ID        int          `json:"id"`
	Text      string       `json:"text"`
	StartLine int          `json:"start_line"` // 0-based line index in normalized input
	EndLine   int          `json:"end_line"`   // Inclusive
	Boundary  BoundaryType `json:"boundary"`
}

// Features is the fixed-shape feature record attached to every block.
// Booleans are independent regex tests; continuous values are derived
// from simple counts.
type Features struct {
	HasQuestion             bool `json:"has_question"`
	HasCodeBlock            bool `json:"has_code_block"`
	HasTable                bool `json:"has_table"`
	HasMarkdownHeading      bool `json:"has_markdown_heading"`
	HasBulletList           bool `json:"has_bullet_list"`
	HasURL                  bool `json:"has_url"`
	HasFilePath             bool `json:"has_file_path"`
	HasCommand              bool `json:"has_command"`
	HasErrorKeyword         bool `json:"has_error_keyword"`
	HasJapanese             bool `json:"has_japanese"`
	HasPoliteForm           bool `json:"has_polite_form"`
	HasExplanationStructure bool `json:"has_explanation_structure"`
	HasImperativeForm       bool `json:"has_imperative_form"`
	HasUserMarker           bool `json:"has_user_marker"`
	HasAIMarker             bool `json:"has_ai_marker"`

	CharCount      int     `json:"char_count"` // Runes, not bytes
	LineCount      int     `json:"line_count"`
	AvgLineLength  float64 `json:"avg_line_length"`
	SentimentScore float64 `json:"sentiment_score"`        // [0,1]
	TechDensity    float64 `json:"technical_term_density"` // >= 0
	Formality      float64 `json:"formality"`              // [0,1]
}

// FeaturedBlock is a Block plus its extracted feature vector
type FeaturedBlock struct {
	Block
	Features Features `json:"features"`
}

// ScoredBlock adds role-leaning additive scores. Scores are unbounded;
// PAI is the sigmoid of their margin.
type ScoredBlock struct {
	FeaturedBlock
	ScoreUser       float64  `json:"score_user"`
	ScoreAI         float64  `json:"score_ai"`
	PAI             float64  `json:"p_ai"`             // (0,1)
	LocalConfidence float64  `json:"local_confidence"` // [0,1], pre-sequence
	ActiveSignals   []string `json:"active_signals"`   // Scorer signal names that fired
}

// OptimizedBlock is a ScoredBlock after the Viterbi pass picked a role
// for it in the context of the whole sequence.
type OptimizedBlock struct {
	ScoredBlock
	Role       Role    `json:"role"`
	Confidence float64 `json:"confidence"` // [0,1], sequence-adjusted
}
