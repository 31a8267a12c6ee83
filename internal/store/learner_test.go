package store

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ryotak25/kaidoku/internal/model"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func roleCorrection(age time.Duration, from, to model.Role, features ...string) model.CorrectionRecord {
	return model.CorrectionRecord{
		Timestamp:      fixedNow.Add(-age),
		OriginalRole:   from,
		CorrectedRole:  to,
		ActiveFeatures: features,
	}
}

func TestRecomputeWeights_CorrectionTowardUserIsNegative(t *testing.T) {
	cfg := model.DefaultConfig().Learning
	data := model.DefaultStoreData()

	// The pipeline labeled an imperative message ai; the user fixed it
	data.RoleCorrections = append(data.RoleCorrections,
		roleCorrection(0, model.RoleAI, model.RoleUser, "hasImperativeForm", "shortText"))

	deltas := RecomputeWeights(data, cfg, fixedNow)

	want := -cfg.Rate
	if got := deltas["hasImperativeForm"]; math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected hasImperativeForm delta %f, got %f", want, got)
	}
	if got := deltas["shortText"]; math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected shortText delta %f, got %f", want, got)
	}
}

func TestRecomputeWeights_CorrectionTowardAIIsPositive(t *testing.T) {
	cfg := model.DefaultConfig().Learning
	data := model.DefaultStoreData()

	data.RoleCorrections = append(data.RoleCorrections,
		roleCorrection(0, model.RoleUser, model.RoleAI, "hasCodeBlock"))

	deltas := RecomputeWeights(data, cfg, fixedNow)
	if got := deltas["hasCodeBlock"]; math.Abs(got-cfg.Rate) > 1e-12 {
		t.Errorf("Expected hasCodeBlock delta %f, got %f", cfg.Rate, got)
	}
}

func TestRecomputeWeights_RecencyDecay(t *testing.T) {
	cfg := model.DefaultConfig().Learning

	fresh := model.DefaultStoreData()
	fresh.RoleCorrections = append(fresh.RoleCorrections,
		roleCorrection(0, model.RoleUser, model.RoleAI, "hasHeading"))

	stale := model.DefaultStoreData()
	stale.RoleCorrections = append(stale.RoleCorrections,
		roleCorrection(60*24*time.Hour, model.RoleUser, model.RoleAI, "hasHeading"))

	freshDelta := RecomputeWeights(fresh, cfg, fixedNow)["hasHeading"]
	staleDelta := RecomputeWeights(stale, cfg, fixedNow)["hasHeading"]

	if staleDelta >= freshDelta {
		t.Errorf("Expected old correction to weigh less: fresh=%f stale=%f", freshDelta, staleDelta)
	}
	if staleDelta <= 0 {
		t.Errorf("Expected stale delta still positive, got %f", staleDelta)
	}
}

func TestRecomputeWeights_Clamped(t *testing.T) {
	cfg := model.DefaultConfig().Learning
	data := model.DefaultStoreData()

	for i := 0; i < 100; i++ {
		data.RoleCorrections = append(data.RoleCorrections,
			roleCorrection(0, model.RoleUser, model.RoleAI, "hasBulletList"))
	}

	deltas := RecomputeWeights(data, cfg, fixedNow)
	if got := deltas["hasBulletList"]; got != cfg.ClampMax {
		t.Errorf("Expected delta clamped to %f, got %f", cfg.ClampMax, got)
	}
}

func TestRecomputeWeights_PrunesNearZero(t *testing.T) {
	cfg := model.DefaultConfig().Learning
	data := model.DefaultStoreData()

	// Two opposite corrections cancel out exactly
	data.RoleCorrections = append(data.RoleCorrections,
		roleCorrection(0, model.RoleUser, model.RoleAI, "politeForm"),
		roleCorrection(0, model.RoleAI, model.RoleUser, "politeForm"))

	deltas := RecomputeWeights(data, cfg, fixedNow)
	if _, ok := deltas["politeForm"]; ok {
		t.Errorf("Expected cancelled delta pruned, got %f", deltas["politeForm"])
	}
}

func TestRecomputeWeights_NoOpCorrectionIgnored(t *testing.T) {
	cfg := model.DefaultConfig().Learning
	data := model.DefaultStoreData()

	data.RoleCorrections = append(data.RoleCorrections,
		roleCorrection(0, model.RoleUser, model.RoleUser, "hasQuestion"))

	deltas := RecomputeWeights(data, cfg, fixedNow)
	if len(deltas) != 0 {
		t.Errorf("Expected same-role correction ignored, got %v", deltas)
	}
}

func TestLearner_RecordTrimsSnippetAndLog(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Learning.MaxRoleCorrections = 3
	st := NewMemoryStore()
	l := NewLearner(st, cfg)

	long := strings.Repeat("あ", 500)
	for i := 0; i < 5; i++ {
		err := l.RecordRoleCorrection(model.CorrectionRecord{
			Snippet:       long,
			OriginalRole:  model.RoleAI,
			CorrectedRole: model.RoleUser,
		})
		if err != nil {
			t.Fatalf("RecordRoleCorrection failed: %v", err)
		}
	}

	data, _ := st.Load()
	if len(data.RoleCorrections) != 3 {
		t.Errorf("Expected log trimmed to 3, got %d", len(data.RoleCorrections))
	}
	for _, rec := range data.RoleCorrections {
		if n := len([]rune(rec.Snippet)); n != cfg.Learning.SnippetMax {
			t.Errorf("Expected snippet capped at %d runes, got %d", cfg.Learning.SnippetMax, n)
		}
		if rec.Timestamp.IsZero() {
			t.Error("Expected timestamp defaulted")
		}
	}
}

func TestLearner_RecomputePersists(t *testing.T) {
	st := NewMemoryStore()
	l := NewLearner(st, model.DefaultConfig())

	err := l.RecordRoleCorrection(model.CorrectionRecord{
		OriginalRole:   model.RoleAI,
		CorrectedRole:  model.RoleUser,
		ActiveFeatures: []string{"hasImperativeForm"},
	})
	if err != nil {
		t.Fatalf("RecordRoleCorrection failed: %v", err)
	}

	deltas, err := l.RecomputeWeights()
	if err != nil {
		t.Fatalf("RecomputeWeights failed: %v", err)
	}
	if deltas["hasImperativeForm"] >= 0 {
		t.Errorf("Expected negative learned delta, got %f", deltas["hasImperativeForm"])
	}

	data, _ := st.Load()
	if data.WeightDeltas["hasImperativeForm"] != deltas["hasImperativeForm"] {
		t.Errorf("Expected deltas persisted, store has %v", data.WeightDeltas)
	}
}

func TestLearner_StructureCorrectionLog(t *testing.T) {
	st := NewMemoryStore()
	l := NewLearner(st, model.DefaultConfig())

	err := l.RecordStructureCorrection(model.StructureCorrection{Kind: "split", Snippet: "between these"})
	if err != nil {
		t.Fatalf("RecordStructureCorrection failed: %v", err)
	}

	data, _ := st.Load()
	if len(data.StructureCorrections) != 1 || data.StructureCorrections[0].Kind != "split" {
		t.Errorf("Expected structure correction recorded, got %+v", data.StructureCorrections)
	}
}
