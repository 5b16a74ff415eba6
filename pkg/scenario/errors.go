package scenario

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable = errors.New("scenario source unavailable")
	ErrMalformedSource   = errors.New("malformed scenario source")
	ErrValidation        = errors.New("scenario validation failed")
	ErrNotFound          = errors.New("not found")
	ErrGeneration        = errors.New("scenario generation failed")
	ErrEmptyStore        = errors.New("no scenarios available to start a session")

	ErrScenarioNotFound = fmt.Errorf("scenario %w", ErrNotFound)
	ErrChoiceNotFound   = fmt.Errorf("choice %w", ErrNotFound)
	ErrDuplicateID      = fmt.Errorf("%w: duplicate scenario id", ErrValidation)
	ErrTerminal         = errors.New("session has ended; restart to continue")
)

// ErrorKind is the presentation-facing classification of an error.
type ErrorKind string

const (
	KindSourceUnavailable ErrorKind = "source_unavailable"
	KindMalformedSource   ErrorKind = "malformed_source"
	KindValidation        ErrorKind = "validation_error"
	KindNotFound          ErrorKind = "not_found"
	KindGeneration        ErrorKind = "generation_error"
	KindEmptyStore        ErrorKind = "empty_store"
	KindTerminal          ErrorKind = "terminal"
	KindInternal          ErrorKind = "internal"
)

// KindOf classifies err for display. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSourceUnavailable):
		return KindSourceUnavailable
	case errors.Is(err, ErrMalformedSource):
		return KindMalformedSource
	case errors.Is(err, ErrGeneration):
		return KindGeneration
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrEmptyStore):
		return KindEmptyStore
	case errors.Is(err, ErrTerminal):
		return KindTerminal
	default:
		return KindInternal
	}
}

// Check identifies which structural check a scenario failed.
type Check int

const (
	CheckRecord Check = iota + 1
	CheckDescription
	CheckChoices
	CheckChoiceFields
	CheckDuplicateText
	CheckID
)

func (c Check) String() string {
	switch c {
	case CheckRecord:
		return "record"
	case CheckDescription:
		return "description"
	case CheckChoices:
		return "choices"
	case CheckChoiceFields:
		return "choice_fields"
	case CheckDuplicateText:
		return "duplicate_choice_text"
	case CheckID:
		return "id"
	default:
		return "unknown"
	}
}

// ValidationError reports the first structural check a scenario failed.
type ValidationError struct {
	Check  Check
	Path   string // e.g. "scenarios[2].choices[1].feedback"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scenario at %s: %s (%s check)", e.Path, e.Reason, e.Check)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
