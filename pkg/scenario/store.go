package scenario

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// GeneratedIDPrefix prefixes ids assigned by Store.NextID.
const GeneratedIDPrefix = "ai_"

// Store is an append-only, concurrency-safe collection of validated scenarios.
// Lookups hand out copies, so the contents never change except through Insert.
type Store struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
	order     []string
	seq       uint64
}

// LoadOptions controls how Load treats individually invalid scenarios.
type LoadOptions struct {
	// Lenient skips invalid or duplicate scenarios and reports them in
	// LoadReport.Skipped instead of failing the whole load.
	Lenient bool
}

// LoadReport describes what a lenient load left out.
type LoadReport struct {
	Loaded  int
	Skipped []error
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{scenarios: make(map[string]Scenario)}
}

// Load builds a Store from raw decoded source data in strict mode.
func Load(raw any) (*Store, error) {
	s, _, err := LoadWithOptions(raw, LoadOptions{})
	return s, err
}

// LoadWithOptions builds a Store from data shaped like {"scenarios": [...]}.
// A missing or mistyped "scenarios" key is always fatal.
func LoadWithOptions(raw any, opts LoadOptions) (*Store, LoadReport, error) {
	var report LoadReport

	top, ok := raw.(map[string]any)
	if !ok {
		return nil, report, fmt.Errorf("%w: top level must be an object, got %s", ErrMalformedSource, typeName(raw))
	}
	rawList, present := top["scenarios"]
	if !present {
		return nil, report, fmt.Errorf("%w: missing 'scenarios' key", ErrMalformedSource)
	}
	list, ok := rawList.([]any)
	if !ok {
		return nil, report, fmt.Errorf("%w: 'scenarios' must be a list, got %s", ErrMalformedSource, typeName(rawList))
	}

	store := NewStore()
	for i, item := range list {
		path := fmt.Sprintf("scenarios[%d]", i)
		sc, err := validateAt(item, path)
		if err == nil && sc.ID == "" {
			err = &ValidationError{Check: CheckID, Path: path + ".id", Reason: "missing required field id"}
		}
		if err == nil {
			err = store.insertValidated(sc)
		}
		if err != nil {
			if !opts.Lenient {
				return nil, report, err
			}
			report.Skipped = append(report.Skipped, err)
			continue
		}
		report.Loaded++
	}
	return store, report, nil
}

// Get returns a copy of the scenario with the given id.
func (s *Store) Get(id string) (Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scenarios[id]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", ErrScenarioNotFound, id)
	}
	return sc.Clone(), nil
}

// Has reports whether id is present.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.scenarios[id]
	return ok
}

// Insert validates sc and adds it. The id is supplied by the caller and must
// not already be present; on any error the Store is left unchanged.
func (s *Store) Insert(sc Scenario) error {
	validated, err := Validate(toRaw(sc))
	if err != nil {
		return err
	}
	if validated.ID == "" {
		return &ValidationError{Check: CheckID, Path: "id", Reason: "missing required field id"}
	}
	return s.insertValidated(validated)
}

func (s *Store) insertValidated(sc Scenario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.scenarios[sc.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, sc.ID)
	}
	s.scenarios[sc.ID] = sc.Clone()
	s.order = append(s.order, sc.ID)
	return nil
}

// NextID reserves a fresh generated id that does not collide with any id
// currently in the Store. Reserved ids are never handed out twice.
func (s *Store) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		s.seq++
		id := GeneratedIDPrefix + strconv.FormatUint(s.seq, 10)
		if _, taken := s.scenarios[id]; !taken {
			return id
		}
	}
}

// Len returns the number of scenarios.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scenarios)
}

// IDs returns scenario ids in insertion order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All returns copies of every scenario, sorted by id.
func (s *Store) All() []Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Scenario, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		out = append(out, sc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
