package model

import "time"

// StoreSchemaVersion is the expected version of the persisted correction
// blob. Any other version is treated as absent and reset to defaults;
// there is no migration logic.
const StoreSchemaVersion = 1

// CorrectionRecord captures one user role correction. Records are
// append-only and capped at the most recent MaxRoleCorrections entries.
type CorrectionRecord struct {
	Timestamp          time.Time `json:"timestamp"`
	Snippet            string    `json:"text_snippet"` // First 200 chars of the corrected message
	OriginalRole       Role      `json:"original_role"`
	CorrectedRole      Role      `json:"corrected_role"`
	ActiveFeatures     []string  `json:"active_features"` // Scorer signal names that fired
	CharCount          int       `json:"char_count"`
	OriginalConfidence float64   `json:"original_confidence"`
}

// StructureCorrection captures a user split/merge/reorder edit. Kept for
// diagnostics; not currently folded into scoring weights.
type StructureCorrection struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"` // "split", "merge", "reorder"
	Snippet   string    `json:"text_snippet"`
}

// CorrectionStoreData is the single persisted blob. Everything else in
// the pipeline is transient and recomputed on every analyze call.
type CorrectionStoreData struct {
	Version              int                   `json:"version"`
	RoleCorrections      []CorrectionRecord    `json:"role_corrections"`
	StructureCorrections []StructureCorrection `json:"structure_corrections"`
	UserTopics           []string              `json:"user_topics"`
	WeightDeltas         map[string]float64    `json:"weight_deltas"` // Per-signal, clamped [-3,3]
}

// DefaultStoreData returns an empty store at the current schema version
func DefaultStoreData() *CorrectionStoreData {
	return &CorrectionStoreData{
		Version:      StoreSchemaVersion,
		WeightDeltas: make(map[string]float64),
	}
}
