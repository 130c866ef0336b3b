package room

import (
	"errors"
	"os"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	if got := len(r.IDs()); got != 5 {
		t.Errorf("Expected 5 rooms, got %d", got)
	}
	if def := r.Default(); def.ID != "main" {
		t.Errorf("Default room = %s, want main", def.ID)
	}

	main, err := r.Get("main")
	if err != nil {
		t.Fatalf("Get(main) failed: %v", err)
	}
	if !main.HasBar {
		t.Error("main must have a bar")
	}

	for _, id := range []string{"backstage", "releases", "vip", "rooftop"} {
		def, err := r.Get(id)
		if err != nil {
			t.Errorf("Get(%s) failed: %v", id, err)
			continue
		}
		if def.HasBar {
			t.Errorf("%s should not have a bar", id)
		}
	}

	if r.Contains("basement") {
		t.Error("Contains(basement) should be false")
	}
	if _, err := r.Get("basement"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("Get(basement) error = %v, want ErrRoomNotFound", err)
	}
}

func TestNewRegistryValidation(t *testing.T) {
	valid := Definition{ID: "a", Name: "A", Width: 100, Height: 100, SpawnX: 50, SpawnY: 50}

	cases := []struct {
		name      string
		defs      []Definition
		defaultID string
	}{
		{"empty set", nil, "a"},
		{"empty id", []Definition{{Name: "A", Width: 100, Height: 100}}, ""},
		{"duplicate id", []Definition{valid, valid}, "a"},
		{"zero dimensions", []Definition{{ID: "a", Width: 0, Height: 100}}, "a"},
		{"spawn out of bounds", []Definition{{ID: "a", Width: 100, Height: 100, SpawnX: 150, SpawnY: 50}}, "a"},
		{"unknown default", []Definition{valid}, "b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRegistry(tc.defs, tc.defaultID); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestRegistryOrderPreserved(t *testing.T) {
	r, err := NewRegistry([]Definition{
		{ID: "z", Name: "Z", Width: 10, Height: 10},
		{ID: "a", Name: "A", Width: 10, Height: 10},
		{ID: "m", Name: "M", Width: 10, Height: 10},
	}, "z")
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	want := []string{"z", "a", "m"}
	got := r.IDs()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", got, want)
		}
	}

	defs := r.Definitions()
	if defs[0].ID != "z" || defs[2].ID != "m" {
		t.Errorf("Definitions() out of order: %v", defs)
	}
}

func TestLoadRegistry(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "rooms_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	content := `[
		{"id": "lobby", "name": "Lobby", "width": 400, "height": 300, "spawnX": 200, "spawnY": 150, "hasBar": true},
		{"id": "garden", "name": "Garden", "width": 500, "height": 500, "spawnX": 10, "spawnY": 10}
	]`
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	tmpfile.Close()

	r, err := LoadRegistry(tmpfile.Name())
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}
	if def := r.Default(); def.ID != "lobby" {
		t.Errorf("First entry should be the default, got %s", def.ID)
	}
	if !r.Contains("garden") {
		t.Error("garden should be registered")
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	if _, err := LoadRegistry("/nonexistent/rooms.json"); err == nil {
		t.Error("Expected error for missing file")
	}

	tmpfile, _ := os.CreateTemp("", "rooms_*.json")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte(`[]`))
	tmpfile.Close()

	if _, err := LoadRegistry(tmpfile.Name()); !errors.Is(err, ErrInvalidRoomSet) {
		t.Errorf("Empty file error = %v, want ErrInvalidRoomSet", err)
	}
}
