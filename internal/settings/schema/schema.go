package schema

import (
	"sort"
	"sync"
)

// Schema is a validated mapping from caller-facing keys to items.
//
// Keys address items for Get/Set and for the renderer; they are distinct
// from the item's persisted (section, name) slot. Two keys may resolve to
// the same slot; the schema does not enforce slot uniqueness.
type Schema struct {
	mu    sync.RWMutex
	items map[string]*Item
}

// New creates an empty schema.
func New() *Schema {
	return &Schema{items: make(map[string]*Item)}
}

// FromItems creates a schema from an item map, validating every entry.
// The map is copied; the caller's map is not retained.
func FromItems(items map[string]*Item) (*Schema, error) {
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	s := New()
	for key, it := range items {
		s.items[key] = it
	}
	return s, nil
}

// ValidateItems checks that every entry in the map is a valid item.
// A nil map fails with ErrInvalidSchema; the first invalid entry fails
// with an *ItemError naming the offending key. Keys are visited in sorted
// order so the reported key is deterministic.
func ValidateItems(items map[string]*Item) error {
	if items == nil {
		return ErrInvalidSchema
	}

	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := items[key].Validate(); err != nil {
			return &ItemError{Key: key, Err: err}
		}
	}
	return nil
}

// Validate checks every entry currently in the schema.
func (s *Schema) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ValidateItems(s.items)
}

// Add validates the item alone and inserts it, overwriting any existing
// value at key.
func (s *Schema) Add(key string, it *Item) error {
	if err := it.Validate(); err != nil {
		return &ItemError{Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = it
	return nil
}

// Replace validates the whole incoming map before swapping it in. On
// failure the previous contents are retained unchanged.
func (s *Schema) Replace(items map[string]*Item) error {
	if err := ValidateItems(items); err != nil {
		return err
	}

	next := make(map[string]*Item, len(items))
	for key, it := range items {
		next[key] = it
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = next
	return nil
}

// Get returns the item at key.
func (s *Schema) Get(key string) (*Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[key]
	return it, ok
}

// Has reports whether key is present.
func (s *Schema) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[key]
	return ok
}

// Len returns the number of entries.
func (s *Schema) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Keys returns all schema keys sorted.
func (s *Schema) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Items returns a copy of the key-to-item map.
func (s *Schema) Items() map[string]*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make(map[string]*Item, len(s.items))
	for key, it := range s.items {
		items[key] = it
	}
	return items
}

// Sections returns the sorted set of resolved section names. Sections are
// resolved fresh per call since they may be computed.
func (s *Schema) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, it := range s.items {
		seen[it.Section.Resolve()] = true
	}

	sections := make([]string, 0, len(seen))
	for section := range seen {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	return sections
}

// SectionKeys returns the sorted keys whose items resolve to the given
// section.
func (s *Schema) SectionKeys(section string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key, it := range s.items {
		if it.Section.Resolve() == section {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
