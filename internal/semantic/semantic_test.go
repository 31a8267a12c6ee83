package semantic

import (
	"testing"

	"github.com/ryotak25/kaidoku/internal/classify"
	"github.com/ryotak25/kaidoku/internal/model"
)

func buildMessage(id int, role model.Role, text string) (model.Message, Vector) {
	topics := classify.Topics(text)
	msg := model.Message{
		ID:        id,
		Role:      role,
		Text:      text,
		Intents:   classify.Intents(text),
		Artifacts: classify.Artifacts(text),
		Topics:    topics,
	}
	return msg, BuildVector(text, topics, model.DefaultConfig().Grouping)
}

func TestBuildVector_Contents(t *testing.T) {
	cfg := model.DefaultConfig().Grouping
	v := BuildVector("Deploy the userService with docker and check https://status.example.com", []string{"DOCKER", "DEPLOY"}, cfg)

	if _, ok := v.Keywords["deploy"]; !ok {
		t.Error("Expected unigram keyword 'deploy'")
	}
	if _, ok := v.Keywords["deploy the"]; ok {
		t.Error("Expected stopword-adjacent bigram filtered out")
	}
	if _, ok := v.Terms["userService"]; !ok {
		t.Errorf("Expected camelCase term captured, got %v", v.Terms)
	}
	if _, ok := v.Entities["https://status.example.com"]; !ok {
		t.Errorf("Expected URL entity captured, got %v", v.Entities)
	}
	if _, ok := v.Entities["docker"]; !ok {
		t.Errorf("Expected CLI tool entity captured, got %v", v.Entities)
	}
	if _, ok := v.Topics["DOCKER"]; !ok {
		t.Error("Expected topic carried into vector")
	}
}

func TestSimilarity_Properties(t *testing.T) {
	cfg := model.DefaultConfig().Grouping
	a := BuildVector("Configure the postgres connection pool for the api server", []string{"DB", "API"}, cfg)
	b := BuildVector("Tune the postgres pool size so the api stays responsive", []string{"DB", "API"}, cfg)
	c := BuildVector("My cat sleeps all afternoon on the windowsill", nil, cfg)

	simAB := Similarity(a, b, cfg)
	simBA := Similarity(b, a, cfg)
	if simAB != simBA {
		t.Errorf("Expected symmetry, got %f vs %f", simAB, simBA)
	}
	if simAB < 0 || simAB > 1 {
		t.Errorf("Expected similarity in [0,1], got %f", simAB)
	}

	simAC := Similarity(a, c, cfg)
	if simAB <= simAC {
		t.Errorf("Expected related texts more similar: related=%f unrelated=%f", simAB, simAC)
	}
}

func TestGroup_PartitionInvariant(t *testing.T) {
	g := NewGrouper(model.DefaultConfig())

	texts := []string{
		"How do I configure the postgres connection pool?",
		"Set max_connections in postgresql.conf and tune the pool size in your driver. Start with CPU count times four and measure before raising it.",
		"Thanks, the postgres pool works now",
		"Completely new topic: my css flexbox layout breaks on mobile and the flex items overflow the container",
		"Check the flex-wrap property and set min-width on the flex items so the css layout can shrink below the content size.",
	}

	var msgs []model.Message
	var vectors []Vector
	for i, text := range texts {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAI
		}
		m, v := buildMessage(i, role, text)
		msgs = append(msgs, m)
		vectors = append(vectors, v)
	}

	out, groups := g.Group(msgs, vectors)

	if len(groups) == 0 {
		t.Fatal("Expected at least one group")
	}
	if groups[0].Start != 0 {
		t.Errorf("Expected first group to start at 0, got %d", groups[0].Start)
	}
	if groups[len(groups)-1].End != len(out)-1 {
		t.Errorf("Expected last group to end at %d, got %d", len(out)-1, groups[len(groups)-1].End)
	}
	for i := 1; i < len(groups); i++ {
		if groups[i].Start != groups[i-1].End+1 {
			t.Errorf("Expected contiguous groups, group %d starts at %d after end %d",
				i, groups[i].Start, groups[i-1].End)
		}
	}
	for _, m := range out {
		grp := groups[m.GroupID]
		if m.ID < grp.Start || m.ID > grp.End {
			t.Errorf("Message %d stamped with group %d outside its span [%d,%d]",
				m.ID, m.GroupID, grp.Start, grp.End)
		}
	}
}

func TestGroup_RoleChangeIsNotABoundary(t *testing.T) {
	g := NewGrouper(model.DefaultConfig())

	q, qv := buildMessage(0, model.RoleUser, "How do I tune the postgres connection pool for my api server under heavy load?")
	a, av := buildMessage(1, model.RoleAI, "Tune the postgres pool by setting max connections near CPU count times four, then watch api latency while raising it slowly under load.")

	_, groups := g.Group([]model.Message{q, a}, []Vector{qv, av})
	if len(groups) != 1 {
		t.Errorf("Expected question and answer in one group, got %d groups", len(groups))
	}
}

func TestGroup_TopicShiftStartsNewGroup(t *testing.T) {
	g := NewGrouper(model.DefaultConfig())

	a, av := buildMessage(0, model.RoleUser, "The docker container build keeps failing on the deploy step in production")
	b, bv := buildMessage(1, model.RoleUser, "Unrelated: how do I make my css grid layout center the flexbox items vertically?")

	_, groups := g.Group([]model.Message{a, b}, []Vector{av, bv})
	if len(groups) != 2 {
		t.Fatalf("Expected disjoint topics to split groups, got %d groups", len(groups))
	}
}

func TestGroup_MetaResetsTopic(t *testing.T) {
	g := NewGrouper(model.DefaultConfig())

	a, av := buildMessage(0, model.RoleAI, "The postgres pool configuration is complete and the api responds quickly now.")
	b, bv := buildMessage(1, model.RoleUser, "By the way, summarize what we did with the postgres pool and the api so far")

	_, groups := g.Group([]model.Message{a, b}, []Vector{av, bv})
	if len(groups) != 2 {
		t.Errorf("Expected meta message to open a new group, got %d groups", len(groups))
	}
}

func TestGroup_Empty(t *testing.T) {
	g := NewGrouper(model.DefaultConfig())
	msgs, groups := g.Group(nil, nil)
	if msgs != nil || groups != nil {
		t.Errorf("Expected nil results for empty input, got %v %v", msgs, groups)
	}
}

func TestSmooth_RepresentativeTopicInheritance(t *testing.T) {
	s := NewSmoother(model.DefaultConfig())

	msgs := []model.Message{
		{ID: 0, Role: model.RoleUser, Text: "git question", Topics: []string{"GIT"}, Intents: model.NewTagSet(model.IntentQ)},
		{ID: 1, Role: model.RoleAI, Text: "short answer", Topics: nil, Intents: model.NewTagSet(model.IntentInfo)},
		{ID: 2, Role: model.RoleUser, Text: "git follow-up", Topics: []string{"GIT"}, Intents: model.NewTagSet(model.IntentQ)},
	}
	groups := []model.SemanticGroup{{ID: 0, Start: 0, End: 2}}

	out := s.Smooth(msgs, groups)
	if !containsString(out[1].Topics, "GIT") {
		t.Errorf("Expected untagged message to inherit the representative topic, got %v", out[1].Topics)
	}
	if containsString(msgs[1].Topics, "GIT") {
		t.Error("Expected input slice untouched")
	}
}

func TestSmooth_MinorityTopicNotPropagated(t *testing.T) {
	s := NewSmoother(model.DefaultConfig())

	// One tagged message out of four is below the representative ratio
	msgs := []model.Message{
		{ID: 0, Role: model.RoleUser, Text: "git aside", Topics: []string{"GIT"}, Intents: model.NewTagSet(model.IntentQ)},
		{ID: 1, Role: model.RoleAI, Text: "reply", Topics: nil, Intents: model.NewTagSet(model.IntentInfo)},
		{ID: 2, Role: model.RoleUser, Text: "follow-up", Topics: nil, Intents: model.NewTagSet(model.IntentQ)},
		{ID: 3, Role: model.RoleAI, Text: "reply again", Topics: nil, Intents: model.NewTagSet(model.IntentInfo)},
	}
	groups := []model.SemanticGroup{{ID: 0, Start: 0, End: 3}}

	out := s.Smooth(msgs, groups)
	for i := 1; i < len(out); i++ {
		if containsString(out[i].Topics, "GIT") {
			t.Errorf("Expected message %d to stay untagged, got %v", i, out[i].Topics)
		}
	}
}

func TestSmooth_LogHeavyGroupTaggedBug(t *testing.T) {
	s := NewSmoother(model.DefaultConfig())

	msgs := []model.Message{
		{ID: 0, Role: model.RoleUser, Text: "log paste", Artifacts: model.NewTagSet(model.ArtifactLog), Intents: model.NewTagSet(model.IntentInfo)},
		{ID: 1, Role: model.RoleAI, Text: "another log", Artifacts: model.NewTagSet(model.ArtifactLog), Intents: model.NewTagSet(model.IntentInfo)},
		{ID: 2, Role: model.RoleUser, Text: "comment", Artifacts: model.NewTagSet[model.ArtifactTag](), Intents: model.NewTagSet(model.IntentInfo)},
	}
	groups := []model.SemanticGroup{{ID: 0, Start: 0, End: 2}}

	out := s.Smooth(msgs, groups)
	for i, m := range out {
		if !containsString(m.Topics, "BUG") {
			t.Errorf("Expected BUG topic on message %d of log-heavy group, got %v", i, m.Topics)
		}
	}
}

func TestSmooth_QuestionAnswerPropagation(t *testing.T) {
	s := NewSmoother(model.DefaultConfig())

	longPlan := "1. Install the dependency and verify the version number matches.\n2. Wire the client into the request path.\n3. Run the integration suite and watch for regressions before merging."
	msgs := []model.Message{
		{ID: 0, Role: model.RoleUser, Text: "How should I roll this out?", Intents: model.NewTagSet(model.IntentQ)},
		{ID: 1, Role: model.RoleAI, Text: longPlan, Intents: model.NewTagSet(model.IntentCmd)},
	}
	groups := []model.SemanticGroup{{ID: 0, Start: 0, End: 1}}

	out := s.Smooth(msgs, groups)
	if !out[1].Intents.Has(model.IntentPlan) {
		t.Errorf("Expected numbered long answer tagged PLAN, got %v", out[1].Intents.Values())
	}
}

func TestSmooth_ErrorReplyGetsBugTopic(t *testing.T) {
	s := NewSmoother(model.DefaultConfig())

	msgs := []model.Message{
		{ID: 0, Role: model.RoleUser, Text: "It crashes with a stack trace", Intents: model.NewTagSet(model.IntentError)},
		{ID: 1, Role: model.RoleAI, Text: "That trace points at a nil map write", Intents: model.NewTagSet(model.IntentInfo)},
	}
	groups := []model.SemanticGroup{{ID: 0, Start: 0, End: 1}}

	out := s.Smooth(msgs, groups)
	if !containsString(out[1].Topics, "BUG") {
		t.Errorf("Expected BUG topic on the reply to an error report, got %v", out[1].Topics)
	}
}
