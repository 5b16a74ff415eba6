package state

import (
	"time"

	"github.com/google/uuid"
)

// Score tallies answers over the lifetime of a session, across restarts.
type Score struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

// Session is the persisted envelope around a SessionState, owned by the
// presentation layer between render cycles.
type Session struct {
	ID        uuid.UUID    `json:"id"`
	State     SessionState `json:"state"`
	Score     Score        `json:"score"`
	Restarts  int          `json:"restarts"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewSession wraps an initial state in a new session.
func NewSession(initial SessionState) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		State:     initial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Commit records an outcome and moves to its next state.
func (s *Session) Commit(out Outcome) {
	s.Score.Answered++
	if out.IsCorrect {
		s.Score.Correct++
	}
	s.State = out.NextState
	s.UpdatedAt = time.Now()
}

// Reset moves to a new initial state after a restart.
func (s *Session) Reset(initial SessionState) {
	s.State = initial
	s.Restarts++
	s.UpdatedAt = time.Now()
}

// Jump makes id the active scenario, e.g. after a scenario was generated.
func (s *Session) Jump(id string) {
	s.State = SessionState{ActiveScenarioID: id}
	s.UpdatedAt = time.Now()
}
