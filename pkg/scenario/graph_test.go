package scenario

import (
	"testing"
)

func TestLint(t *testing.T) {
	store := NewStore()
	mustInsert := func(sc Scenario) {
		t.Helper()
		if err := store.Insert(sc); err != nil {
			t.Fatalf("insert %s: %v", sc.ID, err)
		}
	}

	mustInsert(Scenario{ID: "1", Description: "start", Choices: []Choice{
		{Text: "go on", IsCorrect: true, Feedback: "", NextID: NextID("2")},
		{Text: "go nowhere", IsCorrect: false, Feedback: "", NextID: NextID("missing")},
	}})
	mustInsert(Scenario{ID: "2", Description: "middle", Choices: []Choice{
		{Text: "a", IsCorrect: true, Feedback: ""},
		{Text: "b", IsCorrect: true, Feedback: ""},
	}})
	mustInsert(Scenario{ID: "3", Description: "orphan", Choices: []Choice{
		{Text: "a", IsCorrect: false, Feedback: ""},
	}})

	issues := Lint(store, []string{"1", "9"})

	counts := make(map[IssueType][]string)
	for _, is := range issues {
		counts[is.Type] = append(counts[is.Type], is.ScenarioID)
	}

	expect := map[IssueType][]string{
		IssueDanglingNext:      {"1"},
		IssueManyCorrectChoice: {"2"},
		IssueNoCorrectChoice:   {"3"},
		IssueUnknownEntry:      {"9"},
		IssueUnreachable:       {"3"},
	}
	for typ, ids := range expect {
		got := counts[typ]
		if len(got) != len(ids) {
			t.Errorf("%s: expected %v, got %v", typ, ids, got)
			continue
		}
		for i := range ids {
			if got[i] != ids[i] {
				t.Errorf("%s: expected %v, got %v", typ, ids, got)
			}
		}
	}
	if len(issues) != 5 {
		t.Errorf("expected 5 issues, got %d: %v", len(issues), issues)
	}
}

func TestReachable(t *testing.T) {
	store := NewStore()
	for _, sc := range []Scenario{
		{ID: "a", Description: "a", Choices: []Choice{{Text: "x", Feedback: "", NextID: NextID("b")}}},
		{ID: "b", Description: "b", Choices: []Choice{{Text: "x", Feedback: "", NextID: NextID("a")}}},
		{ID: "c", Description: "c", Choices: []Choice{{Text: "x", Feedback: ""}}},
	} {
		if err := store.Insert(sc); err != nil {
			t.Fatal(err)
		}
	}

	got := Reachable(store, []string{"a"})
	if !got["a"] || !got["b"] || got["c"] {
		t.Errorf("unexpected reachable set: %v", got)
	}
}
