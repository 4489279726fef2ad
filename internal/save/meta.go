package save

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

const stampKey = "saved"

// Meta holds bookkeeping that travels with a save but is not game state.
// Each owner stores its own JSON value under a key.
type Meta map[string]json.RawMessage

// Put stores v under key.
func (m *Meta) Put(key string, v any) error {
	if *m == nil {
		*m = Meta{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding meta %q: %w", key, err)
	}
	(*m)[key] = b
	return nil
}

// Load decodes the value under key into out. found is false when the key is
// absent.
func (m Meta) Load(key string, out any) (found bool, err error) {
	raw, ok := m[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decoding meta %q: %w", key, err)
	}
	return true, nil
}

// Remove deletes key.
func (m Meta) Remove(key string) {
	delete(m, key)
}

// Keys lists the stored keys in order.
func (m Meta) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

type stamp struct {
	SavedAt time.Time `json:"saved_at"`
}

// Stamp records when g was written.
func (g *Game) Stamp(at time.Time) error {
	return g.Meta.Put(stampKey, stamp{SavedAt: at.UTC()})
}

// SavedAt returns the time recorded by Stamp, if any.
func (g *Game) SavedAt() (time.Time, bool) {
	var s stamp
	found, err := g.Meta.Load(stampKey, &s)
	if !found || err != nil {
		return time.Time{}, false
	}
	return s.SavedAt, true
}
