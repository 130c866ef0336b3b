// Package room defines the static room layout of the club. Rooms are a fixed
// allow-list known at startup; only player and drink membership inside them
// changes at runtime, and that lives in club/world.
package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrInvalidRoomSet = errors.New("invalid room set")
)

// Definition describes one room: its size in world units, where transitioning
// players spawn by default, and whether it has a bar (drinks can only be
// ordered in rooms with a bar).
type Definition struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	SpawnX float64 `json:"spawnX"`
	SpawnY float64 `json:"spawnY"`
	HasBar bool    `json:"hasBar"`
}

// Registry is the fixed set of valid rooms. It is immutable after creation;
// no locking is needed.
type Registry struct {
	defs      map[string]Definition
	order     []string
	defaultID string
}

// DefaultRegistry returns the built-in club layout.
func DefaultRegistry() *Registry {
	r, err := NewRegistry([]Definition{
		{ID: "main", Name: "Main Club", Width: 800, Height: 600, SpawnX: 400, SpawnY: 520, HasBar: true},
		{ID: "backstage", Name: "Backstage", Width: 600, Height: 400, SpawnX: 500, SpawnY: 340},
		{ID: "releases", Name: "Releases", Width: 600, Height: 400, SpawnX: 80, SpawnY: 200},
		{ID: "vip", Name: "VIP Lounge", Width: 500, Height: 400, SpawnX: 80, SpawnY: 200},
		{ID: "rooftop", Name: "Rooftop", Width: 700, Height: 500, SpawnX: 350, SpawnY: 400},
	}, "main")
	if err != nil {
		// The built-in layout is validated by tests; this cannot happen.
		panic(err)
	}
	return r
}

// NewRegistry builds a registry from a list of definitions. The defaultID is
// where fresh joins are placed and must be one of the definitions.
func NewRegistry(defs []Definition, defaultID string) (*Registry, error) {
	if err := ValidateDefinitions(defs); err != nil {
		return nil, err
	}

	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.ID] = d
		r.order = append(r.order, d.ID)
	}

	if _, ok := r.defs[defaultID]; !ok {
		return nil, fmt.Errorf("%w: default room %q not defined", ErrInvalidRoomSet, defaultID)
	}
	r.defaultID = defaultID
	return r, nil
}

// LoadRegistry reads room definitions from a JSON file. The file holds an
// array of definitions; the first entry becomes the default room.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rooms file: %w", err)
	}

	var defs []Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse rooms file: %w", err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no rooms defined", ErrInvalidRoomSet)
	}

	return NewRegistry(defs, defs[0].ID)
}

// ValidateDefinitions checks a definition list for structural problems:
// missing ids, duplicates, and non-positive dimensions or out-of-bounds
// spawn points.
func ValidateDefinitions(defs []Definition) error {
	if len(defs) == 0 {
		return fmt.Errorf("%w: no rooms defined", ErrInvalidRoomSet)
	}

	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("%w: room with empty id", ErrInvalidRoomSet)
		}
		if seen[d.ID] {
			return fmt.Errorf("%w: duplicate room id %q", ErrInvalidRoomSet, d.ID)
		}
		seen[d.ID] = true

		if d.Width <= 0 || d.Height <= 0 {
			return fmt.Errorf("%w: room %q has non-positive dimensions", ErrInvalidRoomSet, d.ID)
		}
		if d.SpawnX < 0 || d.SpawnX > d.Width || d.SpawnY < 0 || d.SpawnY > d.Height {
			return fmt.Errorf("%w: room %q spawn point outside bounds", ErrInvalidRoomSet, d.ID)
		}
	}
	return nil
}

// Get returns the definition for id.
func (r *Registry) Get(id string) (Definition, error) {
	d, ok := r.defs[id]
	if !ok {
		return Definition{}, ErrRoomNotFound
	}
	return d, nil
}

// Contains reports whether id is on the allow-list.
func (r *Registry) Contains(id string) bool {
	_, ok := r.defs[id]
	return ok
}

// Default returns the room fresh joins are placed in.
func (r *Registry) Default() Definition {
	return r.defs[r.defaultID]
}

// IDs returns room ids in definition order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns all definitions in definition order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}
