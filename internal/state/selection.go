// Package state holds the single piece of mutable state shared between the
// signal ingestor and the hotkey dispatcher.
package state

import (
	"sync"

	"github.com/genricoloni/marqueed/internal/domain"
)

// Selection is the most recent game selected in the frontend.
// The lock is held only for the read or write itself.
type Selection struct {
	mu      sync.Mutex
	current *domain.GameSelection
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{}
}

// Set records system/game as the current game
func (s *Selection) Set(system, game string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &domain.GameSelection{System: system, Game: game}
}

// Current returns a copy of the current game, if one has been selected
func (s *Selection) Current() (domain.GameSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.GameSelection{}, false
	}
	return *s.current, true
}
