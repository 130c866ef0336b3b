package protocol

import (
	"github.com/revilo-longfield/musicclub/club/music"
)

// PlayerState is the public view of a player: everything a client needs to
// render it, never the connection handle.
type PlayerState struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	CharacterID int     `json:"characterId"`
	Room        string  `json:"room"`
	DrinkState  string  `json:"drinkState"`
	DrinkColor  string  `json:"drinkColor,omitempty"`
}

// GroundDrinkState is the public view of a dropped drink.
type GroundDrinkState struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Color string  `json:"color"`
	Room  string  `json:"room"`
}

// WelcomeEvent is sent once to a freshly bound connection. Players and
// GroundDrinks snapshot the new player's room, excluding the player itself.
type WelcomeEvent struct {
	Type         string             `json:"type"`
	ID           string             `json:"id"`
	Room         string             `json:"room"`
	Players      []PlayerState      `json:"players"`
	GroundDrinks []GroundDrinkState `json:"groundDrinks"`
}

type PlayerJoinedEvent struct {
	Type   string      `json:"type"`
	Player PlayerState `json:"player"`
}

type PlayerLeftEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type PlayerMovedEvent struct {
	Type string  `json:"type"`
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// RoomStateEvent is the full snapshot sent to a transitioning player so its
// client can rebuild the new room without waiting for deltas.
type RoomStateEvent struct {
	Type         string             `json:"type"`
	Room         string             `json:"room"`
	Players      []PlayerState      `json:"players"`
	GroundDrinks []GroundDrinkState `json:"groundDrinks"`
}

type DrinkUpdateEvent struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	DrinkState string `json:"drinkState"`
	DrinkColor string `json:"drinkColor,omitempty"`
}

// DrinkDroppedEvent announces a new ground drink. PlayerID names the player
// whose drink state returned to none, so clients can update the dropper
// without waiting for a snapshot.
type DrinkDroppedEvent struct {
	Type     string           `json:"type"`
	PlayerID string           `json:"playerId"`
	Drink    GroundDrinkState `json:"drink"`
}

type DrinkKickedEvent struct {
	Type    string  `json:"type"`
	DrinkID string  `json:"drinkId"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
}

type ChatEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

type ChatErrorEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// MusicStateEvent carries the shared music clock. Timestamps are Unix
// milliseconds so clients can compute playback offset against ServerNow.
// Playlist is populated only on the join-time copy.
type MusicStateEvent struct {
	Type              string         `json:"type"`
	CurrentTrackIndex int            `json:"currentTrackIndex"`
	TrackStartTime    int64          `json:"trackStartTime"`
	ServerStartTime   int64          `json:"serverStartTime"`
	ServerNow         int64          `json:"serverNow"`
	Playlist          music.Playlist `json:"playlist,omitempty"`
}
