package store

import (
	"fmt"
	"math"
	"time"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Learner is the feedback path: it appends corrections to the store and
// rebuilds the weight deltas consumed by the role scorer. Callers invoke
// RecordRoleCorrection then RecomputeWeights; the pipeline never
// triggers relearning on its own.
type Learner struct {
	store Store
	cfg   model.LearningConfig
	now   func() time.Time
}

// NewLearner creates a learner over the given store
func NewLearner(st Store, cfg *model.Config) *Learner {
	return &Learner{store: st, cfg: cfg.Learning, now: time.Now}
}

// RecordRoleCorrection appends a role correction and trims the log to
// the most recent entries
func (l *Learner) RecordRoleCorrection(rec model.CorrectionRecord) error {
	data, err := l.store.Load()
	if err != nil {
		data = model.DefaultStoreData()
	}

	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now()
	}
	if runes := []rune(rec.Snippet); len(runes) > l.cfg.SnippetMax {
		rec.Snippet = string(runes[:l.cfg.SnippetMax])
	}

	data.RoleCorrections = append(data.RoleCorrections, rec)
	if excess := len(data.RoleCorrections) - l.cfg.MaxRoleCorrections; excess > 0 {
		data.RoleCorrections = data.RoleCorrections[excess:]
	}

	if err := l.store.Save(data); err != nil {
		return fmt.Errorf("save correction: %w", err)
	}
	return nil
}

// RecordStructureCorrection appends a split/merge/reorder edit
func (l *Learner) RecordStructureCorrection(rec model.StructureCorrection) error {
	data, err := l.store.Load()
	if err != nil {
		data = model.DefaultStoreData()
	}

	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now()
	}
	data.StructureCorrections = append(data.StructureCorrections, rec)
	if excess := len(data.StructureCorrections) - l.cfg.MaxStructureCorrections; excess > 0 {
		data.StructureCorrections = data.StructureCorrections[excess:]
	}

	if err := l.store.Save(data); err != nil {
		return fmt.Errorf("save structure correction: %w", err)
	}
	return nil
}

// RecomputeWeights rebuilds the deltas from the full correction log and
// persists them. Rebuilding from scratch keeps the operation idempotent;
// callers should debounce rapid correction bursts.
func (l *Learner) RecomputeWeights() (map[string]float64, error) {
	data, err := l.store.Load()
	if err != nil {
		data = model.DefaultStoreData()
	}

	data.WeightDeltas = RecomputeWeights(data, l.cfg, l.now())

	if err := l.store.Save(data); err != nil {
		return data.WeightDeltas, fmt.Errorf("save weights: %w", err)
	}
	return data.WeightDeltas, nil
}

// RecomputeWeights folds every role correction into per-signal deltas.
// A correction toward ai pushes its active features positive, toward
// user negative, scaled by the learning rate and an exponential recency
// weight. Deltas are clamped and near-zero values pruned.
func RecomputeWeights(data *model.CorrectionStoreData, cfg model.LearningConfig, now time.Time) map[string]float64 {
	deltas := make(map[string]float64)

	for _, rec := range data.RoleCorrections {
		if rec.OriginalRole == rec.CorrectedRole {
			continue
		}
		direction := -1.0
		if rec.CorrectedRole == model.RoleAI {
			direction = 1.0
		}
		ageDays := now.Sub(rec.Timestamp).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		recency := math.Exp(-ageDays / cfg.RecencyDays)

		for _, feat := range rec.ActiveFeatures {
			deltas[feat] += direction * cfg.Rate * recency
		}
	}

	for feat, v := range deltas {
		if v > cfg.ClampMax {
			v = cfg.ClampMax
		} else if v < cfg.ClampMin {
			v = cfg.ClampMin
		}
		if math.Abs(v) < cfg.PruneEpsilon {
			delete(deltas, feat)
			continue
		}
		deltas[feat] = v
	}
	return deltas
}
