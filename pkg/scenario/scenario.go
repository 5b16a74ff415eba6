package scenario

// Choice is one selectable option within a scenario.
type Choice struct {
	Text      string  `json:"text" yaml:"text"`
	IsCorrect bool    `json:"is_correct" yaml:"is_correct"`
	Feedback  string  `json:"feedback" yaml:"feedback"`
	NextID    *string `json:"next_id" yaml:"next_id"` // nil ends the session
}

// HasNext reports whether selecting the choice advances to another scenario.
func (c Choice) HasNext() bool {
	return c.NextID != nil && *c.NextID != ""
}

// Scenario is one decision point: a description plus an ordered set of choices.
type Scenario struct {
	ID          string   `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Choices     []Choice `json:"choices" yaml:"choices"`
}

// Choice returns the choice whose text matches exactly.
func (s *Scenario) Choice(text string) (Choice, bool) {
	for _, c := range s.Choices {
		if c.Text == text {
			return c, true
		}
	}
	return Choice{}, false
}

// CorrectCount returns how many choices are marked correct.
func (s *Scenario) CorrectCount() int {
	n := 0
	for _, c := range s.Choices {
		if c.IsCorrect {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers never share backing arrays with the store.
func (s Scenario) Clone() Scenario {
	out := Scenario{
		ID:          s.ID,
		Description: s.Description,
	}
	if s.Choices != nil {
		out.Choices = make([]Choice, len(s.Choices))
		for i, c := range s.Choices {
			out.Choices[i] = c
			if c.NextID != nil {
				next := *c.NextID
				out.Choices[i].NextID = &next
			}
		}
	}
	return out
}

// NextID is a convenience for building choices in code and tests.
func NextID(id string) *string {
	return &id
}
