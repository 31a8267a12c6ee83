// Package pipeline composes the analysis stages in strict order:
// normalize, segment, extract features, score, optimize the role
// sequence, post-process, classify, group, smooth. Every stage is a
// pure function of its input plus a read-only weight snapshot taken at
// the start of the call.
package pipeline

import (
	"github.com/ryotak25/kaidoku/internal/cache"
	"github.com/ryotak25/kaidoku/internal/classify"
	"github.com/ryotak25/kaidoku/internal/feature"
	"github.com/ryotak25/kaidoku/internal/ingest"
	"github.com/ryotak25/kaidoku/internal/model"
	"github.com/ryotak25/kaidoku/internal/normalize"
	"github.com/ryotak25/kaidoku/internal/postprocess"
	"github.com/ryotak25/kaidoku/internal/score"
	"github.com/ryotak25/kaidoku/internal/segment"
	"github.com/ryotak25/kaidoku/internal/semantic"
	"github.com/ryotak25/kaidoku/internal/sequence"
	"github.com/ryotak25/kaidoku/internal/store"
)

// Analyzer runs the full reconstruction pipeline. It is synchronous and
// single-threaded; the only I/O is the correction store read at the
// start of each call.
type Analyzer struct {
	cfg       *model.Config
	store     store.Store
	results   cache.Cache
	segmenter *segment.Segmenter
	optimizer *sequence.Optimizer
	post      *postprocess.Processor
}

// NewAnalyzer creates an analyzer over the given correction store
func NewAnalyzer(cfg *model.Config, st store.Store) *Analyzer {
	a := &Analyzer{
		cfg:       cfg,
		store:     st,
		segmenter: segment.New(cfg),
		optimizer: sequence.NewOptimizer(cfg),
		post:      postprocess.New(cfg),
	}
	if cfg.Cache.Enabled {
		a.results = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
	}
	return a
}

// Analyze reconstructs one or more raw dumps into a structured
// conversation. Multiple inputs run through segmentation and role
// assignment independently, then are concatenated and re-indexed before
// classification and grouping run over the unified sequence.
//
// Analysis never fails on content: empty input yields an empty result,
// and a broken correction store degrades to default weights.
func (a *Analyzer) Analyze(inputs ...string) (*model.AnalysisResult, error) {
	snapshot, err := a.store.Load()
	if err != nil || snapshot == nil {
		snapshot = model.DefaultStoreData()
	}
	deltas := snapshot.WeightDeltas

	key := cache.ResultKey(inputs, deltas)
	if a.results != nil {
		if cached, ok := a.results.Get(key); ok {
			return cached, nil
		}
	}

	scorer := score.NewScorer(a.cfg, deltas)

	var blocks []model.OptimizedBlock
	for _, input := range inputs {
		blocks = append(blocks, a.analyzeOne(input, scorer)...)
	}

	result := a.classifyAndGroup(blocks)

	if a.results != nil {
		_ = a.results.Set(key, result, a.cfg.Cache.TTL)
	}
	return result, nil
}

// analyzeOne runs stages 1-6 over a single input. Block numbering is
// local to the input; the caller re-indexes the concatenation.
func (a *Analyzer) analyzeOne(input string, scorer *score.Scorer) []model.OptimizedBlock {
	if ingest.LooksLikeHTML(input) {
		input = ingest.Flatten(input)
	}

	normalized := normalize.Normalize(input)
	if normalized == "" {
		return nil
	}

	raw := a.segmenter.Segment(normalized)
	featured := feature.ExtractAll(raw)
	scored := scorer.ScoreAll(featured)
	optimized := a.optimizer.Optimize(scored)
	return a.post.Process(optimized)
}

// classifyAndGroup runs stages 7-10 over the unified block sequence
func (a *Analyzer) classifyAndGroup(blocks []model.OptimizedBlock) *model.AnalysisResult {
	msgs := make([]model.Message, 0, len(blocks))
	vectors := make([]semantic.Vector, 0, len(blocks))

	for i, b := range blocks {
		topics := classify.Topics(b.Text)
		msgs = append(msgs, model.Message{
			ID:         i,
			Role:       b.Role,
			Text:       b.Text,
			Confidence: b.Confidence,
			Intents:    classify.Intents(b.Text),
			Artifacts:  classify.Artifacts(b.Text),
			Topics:     topics,
		})
		vectors = append(vectors, semantic.BuildVector(b.Text, topics, a.cfg.Grouping))
	}

	msgs, groups := semantic.NewGrouper(a.cfg).Group(msgs, vectors)
	msgs = semantic.NewSmoother(a.cfg).Smooth(msgs, groups)

	if msgs == nil {
		msgs = []model.Message{}
	}
	if groups == nil {
		groups = []model.SemanticGroup{}
	}
	return &model.AnalysisResult{Messages: msgs, Groups: groups}
}
