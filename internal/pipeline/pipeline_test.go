package pipeline

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ryotak25/kaidoku/internal/model"
	"github.com/ryotak25/kaidoku/internal/store"
)

func newTestAnalyzer() *Analyzer {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	return NewAnalyzer(cfg, store.NewMemoryStore())
}

const markeredDump = `User: How do I center a div?

ChatGPT said:
Use flexbox. Set display: flex on the parent and margin: auto on the child. This centers the element both horizontally and vertically without extra markup.`

func TestAnalyze_MarkeredDump(t *testing.T) {
	result, err := newTestAnalyzer().Analyze(markeredDump)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d: %+v", len(result.Messages), result.Messages)
	}

	q := result.Messages[0]
	if q.Role != model.RoleUser {
		t.Errorf("Expected first message user, got %s", q.Role)
	}
	if q.Text != "How do I center a div?" {
		t.Errorf("Expected marker stripped, got %q", q.Text)
	}
	if !q.Intents.Has(model.IntentQ) {
		t.Errorf("Expected question intent, got %v", q.Intents.Values())
	}

	a := result.Messages[1]
	if a.Role != model.RoleAI {
		t.Errorf("Expected second message ai, got %s", a.Role)
	}
	if a.Confidence < 0.95 {
		t.Errorf("Expected marker-backed confidence, got %f", a.Confidence)
	}
	if strings.Contains(a.Text, "ChatGPT said") {
		t.Errorf("Expected marker line removed, got %q", a.Text)
	}
}

const markerlessDump = `How do I stay productive when working from home?


Working from home rewards structure. Keep a fixed start time, block your deep-work hours on the calendar, and separate the workspace from the living space even if it is just a dedicated desk. Take real breaks away from the screen, and end the day with a short written note of what moved forward so tomorrow starts with momentum instead of a blank page.

What about meetings across time zones?`

func TestAnalyze_MarkerlessDump(t *testing.T) {
	result, err := newTestAnalyzer().Analyze(markerlessDump)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d: %+v", len(result.Messages), result.Messages)
	}

	want := []model.Role{model.RoleUser, model.RoleAI, model.RoleUser}
	for i, m := range result.Messages {
		if m.Role != want[i] {
			t.Errorf("Message %d: expected %s, got %s (%q)", i, want[i], m.Role, m.Text)
		}
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := newTestAnalyzer()

	for _, inputs := range [][]string{{}, {""}, {"   \n\n  "}} {
		result, err := a.Analyze(inputs...)
		if err != nil {
			t.Fatalf("Analyze(%q) failed: %v", inputs, err)
		}
		if result.Messages == nil || len(result.Messages) != 0 {
			t.Errorf("Expected empty non-nil messages for %q, got %v", inputs, result.Messages)
		}
		if result.Groups == nil || len(result.Groups) != 0 {
			t.Errorf("Expected empty non-nil groups for %q, got %v", inputs, result.Groups)
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	first, err := newTestAnalyzer().Analyze(markeredDump, markerlessDump)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := newTestAnalyzer().Analyze(markeredDump, markerlessDump)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("Expected byte-identical results across runs")
	}
}

func TestAnalyze_OutputDomains(t *testing.T) {
	dump := markeredDump + "\n\n\n" + markerlessDump + "\n\n\nエラーが出ます。直してください。\n\n\n原因はキャッシュの設定です。TTLを60秒にしてください。設定ファイルを更新したあとでプロセスを再起動すると反映されます。"

	result, err := newTestAnalyzer().Analyze(dump)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Messages) == 0 {
		t.Fatal("Expected messages")
	}

	for _, m := range result.Messages {
		if m.Role != model.RoleUser && m.Role != model.RoleAI {
			t.Errorf("Message %d: invalid role %q", m.ID, m.Role)
		}
		if m.Confidence < 0 || m.Confidence > 1 {
			t.Errorf("Message %d: confidence %f out of range", m.ID, m.Confidence)
		}
		if len(m.Intents) == 0 {
			t.Errorf("Message %d: expected at least one intent", m.ID)
		}
		if m.GroupID < 0 || m.GroupID >= len(result.Groups) {
			t.Errorf("Message %d: group id %d out of range", m.ID, m.GroupID)
		}
	}

	// Groups must partition the message list
	if result.Groups[0].Start != 0 {
		t.Errorf("Expected first group at 0, got %d", result.Groups[0].Start)
	}
	if last := result.Groups[len(result.Groups)-1]; last.End != len(result.Messages)-1 {
		t.Errorf("Expected last group to end at %d, got %d", len(result.Messages)-1, last.End)
	}
	for i := 1; i < len(result.Groups); i++ {
		if result.Groups[i].Start != result.Groups[i-1].End+1 {
			t.Errorf("Group %d not contiguous with predecessor", i)
		}
	}
}

func TestAnalyze_MultipleInputsConcatenate(t *testing.T) {
	a := newTestAnalyzer()

	combined, err := a.Analyze(markeredDump, markerlessDump)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(combined.Messages) != 5 {
		t.Fatalf("Expected 2+3 messages across inputs, got %d", len(combined.Messages))
	}
	for i, m := range combined.Messages {
		if m.ID != i {
			t.Errorf("Expected dense message IDs, message %d has ID %d", i, m.ID)
		}
	}
}

func TestAnalyze_CacheReturnsEqualResult(t *testing.T) {
	cfg := model.DefaultConfig()
	a := NewAnalyzer(cfg, store.NewMemoryStore())

	first, err := a.Analyze(markeredDump)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := a.Analyze(markeredDump)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	fj, _ := json.Marshal(first)
	sj, _ := json.Marshal(second)
	if string(fj) != string(sj) {
		t.Error("Expected cached result equal to fresh result")
	}
}

func TestAnalyze_LearnedWeightsShiftRoles(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false

	st := store.NewMemoryStore()
	data, _ := st.Load()
	// Push every signal the question fires hard toward ai to confirm
	// the snapshot actually feeds the scorer. All three land, so the
	// ai margin clears the sequence start penalty.
	data.WeightDeltas["hasQuestion"] = 3.0
	data.WeightDeltas["shortText"] = 3.0
	data.WeightDeltas["highSentiment"] = 3.0
	if err := st.Save(data); err != nil {
		t.Fatal(err)
	}

	shifted, err := NewAnalyzer(cfg, st).Analyze("How do I center a div?")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	baseline, err := newTestAnalyzer().Analyze("How do I center a div?")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if baseline.Messages[0].Role != model.RoleUser {
		t.Errorf("Expected baseline question labeled user, got %s", baseline.Messages[0].Role)
	}
	if shifted.Messages[0].Role != model.RoleAI {
		t.Errorf("Expected heavy positive deltas to flip the label, got %s", shifted.Messages[0].Role)
	}
}
