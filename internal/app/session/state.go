package session

import (
	"strings"
	"sync"
	"time"

	"handwerk-hero/go_backend/internal/domain/quote"
)

// State is everything one operator session holds between requests.
// All access goes through its methods.
type State struct {
	mu       sync.Mutex
	items    []quote.LineItem
	customer string
	issuer   quote.Issuer
	apiKey   string
	busy     bool
	touched  time.Time
}

// Snapshot is a copy of a State that is safe to read without locking.
type Snapshot struct {
	HasAPIKey  bool
	MaskedKey  string
	Generating bool
}

func newState(now time.Time) *State {
	return &State{touched: now}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		HasAPIKey:  s.apiKey != "",
		MaskedKey:  Mask(s.apiKey),
		Generating: s.busy,
	}
}

func (s *State) Items() []quote.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// SetItems replaces the whole table.
func (s *State) SetItems(items []quote.LineItem) {
	s.mu.Lock()
	s.items = cloneItems(items)
	s.mu.Unlock()
}

// AppendItem adds a row at the end and returns the new row count.
func (s *State) AppendItem(item quote.LineItem) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return len(s.items)
}

// RemoveItem deletes the row at index i.
func (s *State) RemoveItem(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		return quote.ErrRowOutOfRange
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return nil
}

func (s *State) Customer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

func (s *State) SetCustomer(label string) {
	s.mu.Lock()
	s.customer = strings.TrimSpace(label)
	s.mu.Unlock()
}

// Issuer returns the session overrides; empty fields mean "use the default".
func (s *State) Issuer() quote.Issuer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issuer
}

func (s *State) SetIssuer(iss quote.Issuer) {
	s.mu.Lock()
	s.issuer = quote.Issuer{Name: strings.TrimSpace(iss.Name), Contact: strings.TrimSpace(iss.Contact)}
	s.mu.Unlock()
}

func (s *State) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

func (s *State) SetAPIKey(key string) {
	s.mu.Lock()
	s.apiKey = strings.TrimSpace(key)
	s.mu.Unlock()
}

// TryBegin marks the session as generating. It returns false when a
// generation is already running.
func (s *State) TryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *State) End() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.touched = now
	s.mu.Unlock()
}

func (s *State) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.touched)
}

func (s *State) generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Mask hides all but the last four characters of a credential.
func Mask(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", 8) + string(r[len(r)-4:])
}

func cloneItems(items []quote.LineItem) []quote.LineItem {
	if items == nil {
		return nil
	}
	out := make([]quote.LineItem, len(items))
	copy(out, items)
	return out
}
