package decision

import (
	"context"
	"strings"
	"sync"

	"github.com/magefree/mage-rules-go/internal/game"
)

// Scripted follows a predefined list of choices, matched by description.
// Once the script is used up, or when the next entry is not on offer, it
// passes.
type Scripted struct {
	mu      sync.Mutex
	entries []string
	pos     int
	results []game.Result
}

// NewScripted creates a script. Each entry selects the first choice whose
// description contains it.
func NewScripted(entries ...string) *Scripted {
	return &Scripted{entries: entries}
}

// Add appends entries to the script.
func (s *Scripted) Add(entries ...string) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return s
}

// Decide implements game.DecisionProvider.
func (s *Scripted) Decide(_ context.Context, req game.DecisionRequest) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= len(s.entries) || req.Rejection != "" {
		return 0, nil
	}
	want := s.entries[s.pos]
	for i, c := range req.Choices {
		if strings.Contains(c.Description, want) {
			s.pos++
			return i, nil
		}
	}
	return 0, nil
}

// GameOver records the result.
func (s *Scripted) GameOver(res game.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, res)
}

// Remaining returns the entries not used yet.
func (s *Scripted) Remaining() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.entries[s.pos:]...)
}

// Results returns the results reported so far.
func (s *Scripted) Results() []game.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.Result(nil), s.results...)
}
