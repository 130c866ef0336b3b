// Package protocol defines the JSON wire protocol between clients and the
// world server. Inbound frames are decoded into a closed set of message
// types; anything malformed or unrecognized yields an error and the frame is
// dropped by the caller without replying.
package protocol

import (
	"encoding/json"
	"errors"
)

// Client → server message kinds.
const (
	TypeJoin       = "join"
	TypeMove       = "move"
	TypeRoomChange = "room_change"
	TypeDrinkOrder = "drink_order"
	TypeDrinkCarry = "drink_carry"
	TypeDrinkDrop  = "drink_drop"
	TypeDrinkKick  = "drink_kick"
	TypeChat       = "chat"
)

// Server → client event kinds.
const (
	TypeWelcome      = "welcome"
	TypePlayerJoined = "player_joined"
	TypePlayerLeft   = "player_left"
	TypePlayerMoved  = "player_moved"
	TypeRoomState    = "room_state"
	TypeDrinkUpdate  = "drink_update"
	TypeDrinkDropped = "drink_dropped"
	TypeDrinkKicked  = "drink_kicked"
	TypeChatEvent    = "chat"
	TypeChatError    = "chat_error"
	TypeMusicState   = "music_state"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

// ClientMessage is the closed union of inbound intents. Decode is the only
// constructor, so a value of this type is always well-formed.
type ClientMessage interface {
	clientMessage()
}

type Join struct {
	Name        string
	CharacterID *int
}

type Move struct {
	X, Y float64
}

type RoomChange struct {
	TargetRoom     string
	SpawnX, SpawnY *float64
}

type DrinkOrder struct {
	DrinkColor string
}

type DrinkCarry struct{}

type DrinkDrop struct {
	ID    string
	X, Y  float64
	Color string
}

type DrinkKick struct {
	DrinkID string
	VX, VY  float64
}

type Chat struct {
	Text string
}

func (Join) clientMessage()       {}
func (Move) clientMessage()       {}
func (RoomChange) clientMessage() {}
func (DrinkOrder) clientMessage() {}
func (DrinkCarry) clientMessage() {}
func (DrinkDrop) clientMessage()  {}
func (DrinkKick) clientMessage()  {}
func (Chat) clientMessage()       {}

// Decode parses one inbound frame. It returns ErrMalformed for bad JSON,
// wrong field types, or missing required fields, and ErrUnknownType for an
// unrecognized type discriminator.
func Decode(data []byte) (ClientMessage, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrMalformed
	}

	switch env.Type {
	case TypeJoin:
		var w struct {
			Name        *string `json:"name"`
			CharacterID *int    `json:"characterId"`
		}
		if err := json.Unmarshal(data, &w); err != nil || w.Name == nil {
			return nil, ErrMalformed
		}
		return Join{Name: *w.Name, CharacterID: w.CharacterID}, nil

	case TypeMove:
		var w struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := json.Unmarshal(data, &w); err != nil || w.X == nil || w.Y == nil {
			return nil, ErrMalformed
		}
		return Move{X: *w.X, Y: *w.Y}, nil

	case TypeRoomChange:
		var w struct {
			TargetRoom *string  `json:"targetRoom"`
			SpawnX     *float64 `json:"spawnX"`
			SpawnY     *float64 `json:"spawnY"`
		}
		if err := json.Unmarshal(data, &w); err != nil || w.TargetRoom == nil {
			return nil, ErrMalformed
		}
		return RoomChange{TargetRoom: *w.TargetRoom, SpawnX: w.SpawnX, SpawnY: w.SpawnY}, nil

	case TypeDrinkOrder:
		var w struct {
			DrinkColor string `json:"drinkColor"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, ErrMalformed
		}
		return DrinkOrder{DrinkColor: w.DrinkColor}, nil

	case TypeDrinkCarry:
		return DrinkCarry{}, nil

	case TypeDrinkDrop:
		var w struct {
			ID    string   `json:"id"`
			X     *float64 `json:"x"`
			Y     *float64 `json:"y"`
			Color string   `json:"color"`
		}
		if err := json.Unmarshal(data, &w); err != nil || w.X == nil || w.Y == nil {
			return nil, ErrMalformed
		}
		return DrinkDrop{ID: w.ID, X: *w.X, Y: *w.Y, Color: w.Color}, nil

	case TypeDrinkKick:
		var w struct {
			DrinkID *string  `json:"drinkId"`
			VX      *float64 `json:"vx"`
			VY      *float64 `json:"vy"`
		}
		if err := json.Unmarshal(data, &w); err != nil || w.DrinkID == nil || w.VX == nil || w.VY == nil {
			return nil, ErrMalformed
		}
		return DrinkKick{DrinkID: *w.DrinkID, VX: *w.VX, VY: *w.VY}, nil

	case TypeChat:
		var w struct {
			Text *string `json:"text"`
		}
		if err := json.Unmarshal(data, &w); err != nil || w.Text == nil {
			return nil, ErrMalformed
		}
		return Chat{Text: *w.Text}, nil

	default:
		return nil, ErrUnknownType
	}
}
