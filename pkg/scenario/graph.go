package scenario

import (
	"fmt"
	"sort"
)

// IssueType classifies a graph-level problem found by Lint.
type IssueType string

const (
	IssueDanglingNext      IssueType = "dangling_next_id"
	IssueUnknownEntry      IssueType = "unknown_entry_id"
	IssueUnreachable       IssueType = "unreachable"
	IssueNoCorrectChoice   IssueType = "no_correct_choice"
	IssueManyCorrectChoice IssueType = "multiple_correct_choices"
)

// Issue is a graph-level warning. None of these stop a session from running:
// a dangling next_id only surfaces as NotFound once a player follows it.
type Issue struct {
	Type       IssueType `json:"type"`
	ScenarioID string    `json:"scenario_id"`
	Message    string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Type, i.Message)
}

// Lint walks the scenario graph and reports references that do not resolve,
// entry ids missing from the store, scenarios no entry point can reach, and
// scenarios without exactly one correct choice.
func Lint(store *Store, entryIDs []string) []Issue {
	var issues []Issue
	all := store.All()

	for _, sc := range all {
		for _, c := range sc.Choices {
			if c.HasNext() && !store.Has(*c.NextID) {
				issues = append(issues, Issue{
					Type:       IssueDanglingNext,
					ScenarioID: sc.ID,
					Message:    fmt.Sprintf("scenario %q choice %q points to missing scenario %q", sc.ID, c.Text, *c.NextID),
				})
			}
		}
		switch n := sc.CorrectCount(); {
		case n == 0:
			issues = append(issues, Issue{Type: IssueNoCorrectChoice, ScenarioID: sc.ID, Message: fmt.Sprintf("scenario %q has no correct choice", sc.ID)})
		case n > 1:
			issues = append(issues, Issue{Type: IssueManyCorrectChoice, ScenarioID: sc.ID, Message: fmt.Sprintf("scenario %q has %d correct choices", sc.ID, n)})
		}
	}

	for _, id := range entryIDs {
		if !store.Has(id) {
			issues = append(issues, Issue{Type: IssueUnknownEntry, ScenarioID: id, Message: fmt.Sprintf("entry id %q does not resolve", id)})
		}
	}

	reached := Reachable(store, entryIDs)
	var unreachable []string
	for _, sc := range all {
		if !reached[sc.ID] {
			unreachable = append(unreachable, sc.ID)
		}
	}
	sort.Strings(unreachable)
	for _, id := range unreachable {
		issues = append(issues, Issue{Type: IssueUnreachable, ScenarioID: id, Message: fmt.Sprintf("scenario %q is not reachable from any entry id", id)})
	}

	return issues
}

// Reachable returns the set of scenario ids reachable from entryIDs by
// following next_id links.
func Reachable(store *Store, entryIDs []string) map[string]bool {
	seen := make(map[string]bool)
	queue := make([]string, 0, len(entryIDs))
	for _, id := range entryIDs {
		if store.Has(id) && !seen[id] {
			seen[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sc, err := store.Get(id)
		if err != nil {
			continue
		}
		for _, c := range sc.Choices {
			if !c.HasNext() {
				continue
			}
			next := *c.NextID
			if !seen[next] && store.Has(next) {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}
