// Command validate checks world configuration JSON files before deploying
// them. It validates:
//   - Room files: JSON structure, unique ids, positive dimensions, in-bounds
//     spawn points, and at least one room with a bar
//   - Playlist files: JSON structure, non-empty names and URLs, positive
//     durations, and a sane total loop length
//
// Usage: validate [-rooms FILE] [-playlist FILE]
// With no flags it looks for configs/rooms.json and configs/playlist.json.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revilo-longfield/musicclub/club/music"
	"github.com/revilo-longfield/musicclub/club/room"
)

// ValidationResult captures the outcome of validating a single file. If Valid
// is true, Notes contains informational messages; otherwise it accumulates the
// errors that were found.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, "✓ "+fmt.Sprintf(format, args...))
}

// validateRooms loads and validates a room definitions file.
func validateRooms(filePath string) ValidationResult {
	result := ValidationResult{File: filepath.Base(filePath), Valid: true}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var defs []room.Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := room.ValidateDefinitions(defs); err != nil {
		result.fail("%v", err)
		return result
	}

	barCount := 0
	for _, d := range defs {
		if d.HasBar {
			barCount++
		}
	}
	if barCount == 0 {
		result.fail("No room has a bar; drinks can never be ordered")
	}

	if result.Valid {
		result.note("Rooms: %d (default: %s)", len(defs), defs[0].ID)
		result.note("Bars: %d", barCount)
		for _, d := range defs {
			result.note("%s: %gx%g, spawn (%g,%g)", d.ID, d.Width, d.Height, d.SpawnX, d.SpawnY)
		}
	}
	return result
}

// validatePlaylist loads and validates a playlist file.
func validatePlaylist(filePath string) ValidationResult {
	result := ValidationResult{File: filepath.Base(filePath), Valid: true}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var pl music.Playlist
	if err := json.Unmarshal(data, &pl); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := pl.Validate(); err != nil {
		result.fail("%v", err)
		return result
	}

	total := 0.0
	for _, t := range pl {
		total += t.Duration
	}
	if total < 60 {
		result.fail("Full loop is only %.0fs; clients will hear constant track changes", total)
	}

	if result.Valid {
		result.note("Tracks: %d", len(pl))
		result.note("Loop length: %.0fs", total)
		for i, t := range pl {
			result.note("%d. %s (%.0fs)", i+1, t.Name, t.Duration)
		}
	}
	return result
}

// report prints one file's result and returns whether it was valid.
func report(result ValidationResult) bool {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Println("✅ VALID")
		for _, info := range result.Notes {
			fmt.Println("  " + info)
		}
		return true
	}

	fmt.Println("❌ INVALID")
	for _, err := range result.Notes {
		if !strings.HasPrefix(err, "✓") {
			fmt.Println("  ❌ " + err)
		}
	}
	return false
}

func main() {
	roomsFile := flag.String("rooms", "configs/rooms.json", "Room definitions file")
	playlistFile := flag.String("playlist", "configs/playlist.json", "Playlist file")
	flag.Parse()

	allValid := true
	if !report(validateRooms(*roomsFile)) {
		allValid = false
	}
	if !report(validatePlaylist(*playlistFile)) {
		allValid = false
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
