package history

import (
	"encoding/json"
	"sort"
)

// Set is the collection of already-notified listing identities. It only
// ever grows: identities are never expired or removed.
type Set struct {
	seen map[string]struct{}
}

// NewSet creates an empty identity set
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Has reports whether an identity has been seen before
func (s *Set) Has(identity string) bool {
	_, ok := s.seen[identity]
	return ok
}

// Add records an identity and reports whether it was newly added
func (s *Set) Add(identity string) bool {
	if s.Has(identity) {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	s.seen[identity] = struct{}{}
	return true
}

// Len returns the number of recorded identities
func (s *Set) Len() int {
	return len(s.seen)
}

// Identities returns all recorded identity tokens in sorted order
func (s *Set) Identities() []string {
	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarshalJSON serializes the set as a sorted flat array of identity tokens,
// the same shape the original history file used.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Identities())
}

// UnmarshalJSON restores the set from a flat array of identity tokens
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	s.seen = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.seen[id] = struct{}{}
	}
	return nil
}

// Store persists the identity set between runs.
//
// Load is fail-soft: a missing or corrupt backing store yields an empty set
// rather than an error, so a damaged history file can never abort a run.
// Save errors are surfaced to the caller, which logs and continues; an
// unsaved history simply means the next run re-notifies (at-least-once).
type Store interface {
	Load() *Set
	Save(set *Set) error
}

// SaveIfGrown persists the set only when the run added new identities.
// A run that found nothing new leaves the backing store untouched.
func SaveIfGrown(store Store, set *Set, added int) error {
	if added <= 0 {
		return nil
	}
	return store.Save(set)
}
