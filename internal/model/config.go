package model

import "time"

// Config collects every tunable of the analysis pipeline. The numeric
// defaults are empirically chosen; changing them changes classification
// behavior, so they are exposed as named settings instead of being
// buried in the code.
type Config struct {
	Segment   SegmentConfig   `yaml:"segment"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Sequence  SequenceConfig  `yaml:"sequence"`
	Post      PostConfig      `yaml:"post"`
	Grouping  GroupingConfig  `yaml:"grouping"`
	Smoothing SmoothingConfig `yaml:"smoothing"`
	Learning  LearningConfig  `yaml:"learning"`
	Cache     CacheConfig     `yaml:"cache"`
	Output    OutputConfig    `yaml:"output"`
	LLM       LLMConfig       `yaml:"llm"`
}

// SegmentConfig tunes boundary detection and merge rules
type SegmentConfig struct {
	ShortQuestionMax int `yaml:"short_question_max"` // Standalone question line length cap
	ShortLineMax     int `yaml:"short_line_max"`     // Soft-boundary short line cap
	AccumulatedMin   int `yaml:"accumulated_min"`    // Buffer chars before a short line can split
	ShortBlockMax    int `yaml:"short_block_max"`    // "Short block" cap for merge rules
}

// ScoringConfig holds the base points each scorer signal contributes.
// User-leaning signals feed score_user, AI-leaning ones score_ai.
type ScoringConfig struct {
	ShortText           float64 `yaml:"short_text"`            // < ShortTextMax chars
	VeryShortText       float64 `yaml:"very_short_text"`       // < VeryShortTextMax chars
	Question            float64 `yaml:"question"`
	Imperative          float64 `yaml:"imperative"`
	ErrorKeyword        float64 `yaml:"error_keyword"`
	ShortPaste          float64 `yaml:"short_paste"` // Bare URL / file path paste
	LowFormality        float64 `yaml:"low_formality"`
	HighSentiment       float64 `yaml:"high_sentiment"`
	BareCommand         float64 `yaml:"bare_command"`
	LongText            float64 `yaml:"long_text"`      // > LongTextMin chars
	VeryLongText        float64 `yaml:"very_long_text"` // > VeryLongTextMin chars
	Heading             float64 `yaml:"heading"`
	BulletList          float64 `yaml:"bullet_list"`
	Table               float64 `yaml:"table"`
	CodeBlock           float64 `yaml:"code_block"`
	PoliteForm          float64 `yaml:"polite_form"`
	Explanation         float64 `yaml:"explanation"`
	HighTechDensity     float64 `yaml:"high_tech_density"`
	MultiLineStructured float64 `yaml:"multi_line_structured"`

	ShortTextMax     int `yaml:"short_text_max"`
	VeryShortTextMax int `yaml:"very_short_text_max"`
	LongTextMin      int `yaml:"long_text_min"`
	VeryLongTextMin  int `yaml:"very_long_text_min"`
}

// SequenceConfig tunes the Viterbi pass
type SequenceConfig struct {
	SwitchBase       float64 `yaml:"switch_base"`       // user->ai and ai->user base cost
	AnswerDiscount   float64 `yaml:"answer_discount"`   // Subtracted from user->ai after a question
	TransitionFloor  float64 `yaml:"transition_floor"`  // Lowest a discounted transition can go
	StayCheap        float64 `yaml:"stay_cheap"`        // Same-role transition, natural length
	StayMid          float64 `yaml:"stay_mid"`
	StayExpensive    float64 `yaml:"stay_expensive"`    // Same-role transition, unnatural length
	AIStartPenalty   float64 `yaml:"ai_start_penalty"`  // Prior against opening with the assistant
	EmissionFloor    float64 `yaml:"emission_floor"`    // Probability floor inside -log
	ConfidenceBoost  float64 `yaml:"confidence_boost"`  // When Viterbi agrees with local p_ai
	ConfidenceShrink float64 `yaml:"confidence_shrink"` // When it disagrees
}

// PostConfig tunes the deterministic post-processing rules
type PostConfig struct {
	ShortMergeMax     int     `yaml:"short_merge_max"`    // Merge same-role blocks under this length
	AbsorptionMaxConf float64 `yaml:"absorption_max_conf"` // Only absorb isolated blocks below this
	AbsorptionShrink  float64 `yaml:"absorption_shrink"`
	MarkerContentConf float64 `yaml:"marker_content_conf"` // Confidence floor behind a marker
}

// GroupingConfig tunes semantic vector construction and grouping
type GroupingConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"` // Boundary below this
	KeywordWeight       float64 `yaml:"keyword_weight"`
	TermWeight          float64 `yaml:"term_weight"`
	EntityWeight        float64 `yaml:"entity_weight"`
	TopicWeight         float64 `yaml:"topic_weight"`
	MaxScanRunes        int     `yaml:"max_scan_runes"` // Vector building truncates huge blocks
	MaxKeywords         int     `yaml:"max_keywords"`
}

// SmoothingConfig tunes in-group label propagation
type SmoothingConfig struct {
	RepresentativeRatio float64 `yaml:"representative_ratio"` // Topic share to count as representative
	LogBugRatio         float64 `yaml:"log_bug_ratio"`        // LOG share that marks the group as BUG
	LongReplyMin        int     `yaml:"long_reply_min"`       // AI reply length for Q->INFO propagation
}

// LearningConfig tunes the correction feedback loop
type LearningConfig struct {
	Rate                    float64 `yaml:"rate"`          // Per-correction step size
	RecencyDays             float64 `yaml:"recency_days"`  // Decay constant for exp(-age/days)
	ClampMin                float64 `yaml:"clamp_min"`
	ClampMax                float64 `yaml:"clamp_max"`
	PruneEpsilon            float64 `yaml:"prune_epsilon"` // Deltas below this are dropped
	MaxRoleCorrections      int     `yaml:"max_role_corrections"`
	MaxStructureCorrections int     `yaml:"max_structure_corrections"`
	SnippetMax              int     `yaml:"snippet_max"`
}

// CacheConfig controls the in-memory result cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// LLMConfig configures the optional transcript-reconstruction provider.
// Disabled by default; the heuristic pipeline never calls out.
type LLMConfig struct {
	Provider          string  `yaml:"provider"` // "openai" or "" (disabled)
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"-"`
	BaseURL           string  `yaml:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
}

// DefaultConfig returns the tuning the pipeline ships with
func DefaultConfig() *Config {
	return &Config{
		Segment: SegmentConfig{
			ShortQuestionMax: 80,
			ShortLineMax:     60,
			AccumulatedMin:   100,
			ShortBlockMax:    20,
		},
		Scoring: ScoringConfig{
			ShortText:           2,
			VeryShortText:       3,
			Question:            3,
			Imperative:          2.5,
			ErrorKeyword:        2,
			ShortPaste:          2,
			LowFormality:        1,
			HighSentiment:       1,
			BareCommand:         2.5,
			LongText:            2,
			VeryLongText:        3,
			Heading:             3,
			BulletList:          2,
			Table:               2.5,
			CodeBlock:           3,
			PoliteForm:          2,
			Explanation:         2,
			HighTechDensity:     1.5,
			MultiLineStructured: 2,
			ShortTextMax:        50,
			VeryShortTextMax:    20,
			LongTextMin:         200,
			VeryLongTextMin:     500,
		},
		Sequence: SequenceConfig{
			SwitchBase:       0.1,
			AnswerDiscount:   0.6,
			TransitionFloor:  -0.5,
			StayCheap:        0.05,
			StayMid:          0.3,
			StayExpensive:    0.8,
			AIStartPenalty:   0.3,
			EmissionFloor:    0.001,
			ConfidenceBoost:  1.2,
			ConfidenceShrink: 0.6,
		},
		Post: PostConfig{
			ShortMergeMax:     80,
			AbsorptionMaxConf: 0.5,
			AbsorptionShrink:  0.8,
			MarkerContentConf: 0.95,
		},
		Grouping: GroupingConfig{
			SimilarityThreshold: 0.08,
			KeywordWeight:       0.25,
			TermWeight:          0.25,
			EntityWeight:        0.2,
			TopicWeight:         0.3,
			MaxScanRunes:        4000,
			MaxKeywords:         120,
		},
		Smoothing: SmoothingConfig{
			RepresentativeRatio: 0.3,
			LogBugRatio:         0.5,
			LongReplyMin:        100,
		},
		Learning: LearningConfig{
			Rate:                    0.15,
			RecencyDays:             30,
			ClampMin:                -3,
			ClampMax:                3,
			PruneEpsilon:            0.01,
			MaxRoleCorrections:      500,
			MaxStructureCorrections: 200,
			SnippetMax:              200,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			TimeoutSeconds:    30,
			MaxTokens:         4000,
			RequestsPerMinute: 20,
		},
	}
}
