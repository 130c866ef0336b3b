package world

import (
	"github.com/revilo-longfield/musicclub/club/protocol"
)

// DrinkState is the per-player drink lifecycle state. Transitions only move
// along none → ordering → carrying → none.
type DrinkState string

const (
	DrinkNone     DrinkState = "none"
	DrinkOrdering DrinkState = "ordering"
	DrinkCarrying DrinkState = "carrying"
)

// Player is the server-authoritative record for one bound connection. The
// connection handle itself lives in World.conns, never here.
type Player struct {
	ID          string
	Name        string
	X, Y        float64
	CharacterID int
	Room        string
	DrinkState  DrinkState
	DrinkColor  string
}

// State returns the public wire view of the player.
func (p *Player) State() protocol.PlayerState {
	return protocol.PlayerState{
		ID:          p.ID,
		Name:        p.Name,
		X:           p.X,
		Y:           p.Y,
		CharacterID: p.CharacterID,
		Room:        p.Room,
		DrinkState:  string(p.DrinkState),
		DrinkColor:  p.DrinkColor,
	}
}

// GroundDrink is a transient, ownerless object dropped in a room. Velocity
// is set directly by kicks; the server runs no physics tick, clients
// integrate it locally.
type GroundDrink struct {
	ID     string
	Room   string
	X, Y   float64
	VX, VY float64
	Color  string
}

// State returns the public wire view of the drink.
func (d *GroundDrink) State() protocol.GroundDrinkState {
	return protocol.GroundDrinkState{
		ID:    d.ID,
		X:     d.X,
		Y:     d.Y,
		VX:    d.VX,
		VY:    d.VY,
		Color: d.Color,
		Room:  d.Room,
	}
}
