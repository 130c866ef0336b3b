// Package music holds the shared playlist and the process-wide music clock
// state. The playlist is static for the lifetime of the server; the clock is
// mutated only by the world's own track-advance timer, never by a client.
package music

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

var ErrInvalidPlaylist = errors.New("invalid playlist")

// Track is one playlist entry. Duration is in seconds, matching what clients
// use to compute local playback offset.
type Track struct {
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

// Playlist is an ordered set of tracks played on loop.
type Playlist []Track

// DefaultPlaylist returns the built-in club playlist.
func DefaultPlaylist() Playlist {
	return Playlist{
		{Name: "Chill Vibes", URL: "/music/track1.mp3", Duration: 180},
		{Name: "Sunset Dreams", URL: "/music/track2.mp3", Duration: 210},
		{Name: "Night Cruise", URL: "/music/track3.mp3", Duration: 195},
		{Name: "Cyber Flow", URL: "/music/track4.mp3", Duration: 220},
		{Name: "Neon Pulse", URL: "/music/track5.mp3", Duration: 200},
	}
}

// LoadPlaylist reads a playlist from a JSON file and validates it.
func LoadPlaylist(path string) (Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist file: %w", err)
	}

	var pl Playlist
	if err := json.Unmarshal(data, &pl); err != nil {
		return nil, fmt.Errorf("failed to parse playlist: %w", err)
	}

	if err := pl.Validate(); err != nil {
		return nil, err
	}
	return pl, nil
}

// Validate checks that every track is playable: non-empty name and URL, and a
// positive duration.
func (p Playlist) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: playlist is empty", ErrInvalidPlaylist)
	}
	for i, t := range p {
		if t.Name == "" {
			return fmt.Errorf("%w: track %d has no name", ErrInvalidPlaylist, i)
		}
		if t.URL == "" {
			return fmt.Errorf("%w: track %q has no url", ErrInvalidPlaylist, t.Name)
		}
		if t.Duration <= 0 {
			return fmt.Errorf("%w: track %q has non-positive duration", ErrInvalidPlaylist, t.Name)
		}
	}
	return nil
}

// TrackDuration returns the duration of track i as a time.Duration.
func (p Playlist) TrackDuration(i int) time.Duration {
	if i < 0 || i >= len(p) {
		return 0
	}
	return time.Duration(p[i].Duration * float64(time.Second))
}

// Next returns the index following i, wrapping to the start of the playlist.
func (p Playlist) Next(i int) int {
	if len(p) == 0 {
		return 0
	}
	return (i + 1) % len(p)
}

// State is the process-wide music clock: which track is playing and when it
// started, against the server's own clock.
type State struct {
	TrackIndex     int
	TrackStartedAt time.Time
	ServerStarted  time.Time
}

// NewState starts the clock at the first track.
func NewState(now time.Time) State {
	return State{TrackIndex: 0, TrackStartedAt: now, ServerStarted: now}
}
