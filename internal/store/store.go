// Package store persists user corrections and derives scoring weight
// deltas from them. The correction blob is the only state that survives
// across analyze calls; everything else in the pipeline is transient.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Store abstracts the persistence backing the correction blob. Any
// key-value medium works; concurrent writers are last-write-wins with
// no merge semantics (a known limitation, not a bug to fix here).
type Store interface {
	Load() (*model.CorrectionStoreData, error)
	Save(*model.CorrectionStoreData) error
}

// FileStore keeps the blob as a single JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns ~/.kaidoku/corrections.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".kaidoku", "corrections.json"), nil
}

// Load reads the blob. A missing, corrupt, or version-mismatched file
// is treated as absent and replaced with defaults; the scorer must
// never crash on bad state.
func (s *FileStore) Load() (*model.CorrectionStoreData, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return model.DefaultStoreData(), nil
	}

	var data model.CorrectionStoreData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.DefaultStoreData(), nil
	}
	if data.Version != model.StoreSchemaVersion {
		return model.DefaultStoreData(), nil
	}
	if data.WeightDeltas == nil {
		data.WeightDeltas = make(map[string]float64)
	}
	return &data, nil
}

// Save writes the blob atomically via a temp file rename
func (s *FileStore) Save(data *model.CorrectionStoreData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corrections: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// MemoryStore keeps the blob in memory; used by tests and as the
// fallback when no file path is available
type MemoryStore struct {
	data *model.CorrectionStoreData
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: model.DefaultStoreData()}
}

// Load returns a deep copy so callers hold a true snapshot
func (s *MemoryStore) Load() (*model.CorrectionStoreData, error) {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return model.DefaultStoreData(), nil
	}
	var out model.CorrectionStoreData
	if err := json.Unmarshal(raw, &out); err != nil {
		return model.DefaultStoreData(), nil
	}
	if out.WeightDeltas == nil {
		out.WeightDeltas = make(map[string]float64)
	}
	return &out, nil
}

// Save replaces the stored blob
func (s *MemoryStore) Save(data *model.CorrectionStoreData) error {
	s.data = data
	return nil
}
