package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ryotak25/kaidoku/internal/model"
)

func TestFileStore_MissingFileYieldsDefaults(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope", "corrections.json"))

	data, err := s.Load()
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if data.Version != model.StoreSchemaVersion {
		t.Errorf("Expected default schema version %d, got %d", model.StoreSchemaVersion, data.Version)
	}
	if len(data.RoleCorrections) != 0 {
		t.Errorf("Expected empty corrections, got %d", len(data.RoleCorrections))
	}
}

func TestFileStore_CorruptFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Expected corrupt file to degrade, got error %v", err)
	}
	if len(data.RoleCorrections) != 0 || len(data.WeightDeltas) != 0 {
		t.Errorf("Expected pristine defaults, got %+v", data)
	}
}

func TestFileStore_VersionMismatchYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "weight_deltas": {"hasQuestion": 2}}`), 0644); err != nil {
		t.Fatal(err)
	}

	data, _ := NewFileStore(path).Load()
	if len(data.WeightDeltas) != 0 {
		t.Errorf("Expected future-version blob discarded, got %+v", data.WeightDeltas)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "corrections.json")
	s := NewFileStore(path)

	data := model.DefaultStoreData()
	data.RoleCorrections = append(data.RoleCorrections, model.CorrectionRecord{
		Timestamp:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Snippet:       "Fix the build",
		OriginalRole:  model.RoleAI,
		CorrectedRole: model.RoleUser,
		ActiveFeatures: []string{
			"hasImperativeForm", "shortText",
		},
	})
	data.WeightDeltas["hasImperativeForm"] = -0.15

	if err := s.Save(data); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.RoleCorrections) != 1 {
		t.Fatalf("Expected 1 correction, got %d", len(loaded.RoleCorrections))
	}
	rec := loaded.RoleCorrections[0]
	if rec.Snippet != "Fix the build" || rec.CorrectedRole != model.RoleUser {
		t.Errorf("Correction did not round-trip: %+v", rec)
	}
	if loaded.WeightDeltas["hasImperativeForm"] != -0.15 {
		t.Errorf("Expected delta preserved, got %f", loaded.WeightDeltas["hasImperativeForm"])
	}
}

func TestMemoryStore_LoadReturnsSnapshot(t *testing.T) {
	s := NewMemoryStore()

	first, _ := s.Load()
	first.WeightDeltas["hasQuestion"] = 1.0

	second, _ := s.Load()
	if len(second.WeightDeltas) != 0 {
		t.Errorf("Expected snapshot isolation, mutation leaked: %+v", second.WeightDeltas)
	}
}
