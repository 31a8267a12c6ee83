// Package cache memoizes serialized analysis results. Analysis is
// deterministic for a fixed weight snapshot, so caching is purely an
// optimization and can never change output.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"time"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Cache defines the interface for result caching
type Cache interface {
	Get(key string) (*model.AnalysisResult, bool)
	Set(key string, result *model.AnalysisResult, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResultKey derives a cache key from the analysis inputs and the weight
// delta snapshot the scorer ran with. Weights are folded in sorted
// order so equal snapshots always hash identically.
func ResultKey(inputs []string, deltas map[string]float64) string {
	h := sha256.New()
	for _, in := range inputs {
		h.Write([]byte(in))
		h.Write([]byte{0})
	}

	names := make([]string, 0, len(deltas))
	for name := range deltas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte(strconv.FormatFloat(deltas[name], 'g', -1, 64)))
		h.Write([]byte{0})
	}

	return "kaidoku:v1:" + hex.EncodeToString(h.Sum(nil))
}
