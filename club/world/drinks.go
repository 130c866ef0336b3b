package world

import (
	"math/rand/v2"
	"regexp"

	"github.com/google/uuid"

	"github.com/revilo-longfield/musicclub/club/protocol"
)

// drinkColors is the bar's palette, used when an order doesn't name a valid
// color.
var drinkColors = []string{"#c87533", "#a0522d", "#d2691e", "#b8860b", "#cd853f"}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func orderKey(playerID string) string { return "order:" + playerID }
func carryKey(playerID string) string { return "carry:" + playerID }
func drinkKey(drinkID string) string  { return "drink:" + drinkID }

// OrderDrink moves the player from none to ordering. Orders are only
// accepted in rooms with a bar; the order timer later moves the drink to
// carrying without further client action.
func (w *World) OrderDrink(conn Sender, msg protocol.DrinkOrder) {
	w.do(func() {
		p, ok := w.playerFor(conn)
		if !ok {
			w.metrics.incRejected()
			return
		}

		def, err := w.rooms.Get(p.Room)
		if err != nil || !def.HasBar {
			w.metrics.incRejected()
			return
		}
		if p.DrinkState != DrinkNone {
			w.metrics.incRejected()
			return
		}

		color := msg.DrinkColor
		if !hexColorRe.MatchString(color) {
			color = drinkColors[rand.IntN(len(drinkColors))]
		}

		p.DrinkState = DrinkOrdering
		p.DrinkColor = color

		id := p.ID
		w.schedule(orderKey(id), w.cfg.OrderTime, func() {
			if p, ok := w.players[id]; ok && p.DrinkState == DrinkOrdering {
				w.startCarrying(p)
			}
		})

		w.broadcastRoom(p.Room, p.ID, protocol.DrinkUpdateEvent{
			Type:       protocol.TypeDrinkUpdate,
			ID:         p.ID,
			DrinkState: string(DrinkOrdering),
			DrinkColor: color,
		})
	})
}

// CarryDrink moves the player from ordering to carrying ahead of the order
// timer.
func (w *World) CarryDrink(conn Sender) {
	w.do(func() {
		p, ok := w.playerFor(conn)
		if !ok || p.DrinkState != DrinkOrdering {
			w.metrics.incRejected()
			return
		}
		w.cancel(orderKey(p.ID))
		w.startCarrying(p)
	})
}

// startCarrying performs the ordering → carrying transition and arms the
// carry timer, which auto-drops the drink at the player's current position.
// The drink_update goes to the whole room, the holder included: the order
// timer fires without any client action, so the holder's own client learns
// it is carrying from this event. Loop-only.
func (w *World) startCarrying(p *Player) {
	p.DrinkState = DrinkCarrying

	id := p.ID
	w.schedule(carryKey(id), w.cfg.CarryTime, func() {
		if p, ok := w.players[id]; ok && p.DrinkState == DrinkCarrying {
			w.spawnGroundDrink(p, "", p.X, p.Y, p.DrinkColor)
		}
	})

	w.broadcastRoom(p.Room, "", protocol.DrinkUpdateEvent{
		Type:       protocol.TypeDrinkUpdate,
		ID:         p.ID,
		DrinkState: string(DrinkCarrying),
		DrinkColor: p.DrinkColor,
	})
}

// DropDrink moves the player from carrying back to none, spawning a ground
// drink at the reported position.
func (w *World) DropDrink(conn Sender, msg protocol.DrinkDrop) {
	w.do(func() {
		p, ok := w.playerFor(conn)
		if !ok || p.DrinkState != DrinkCarrying {
			w.metrics.incRejected()
			return
		}
		w.cancel(carryKey(p.ID))
		w.spawnGroundDrink(p, msg.ID, msg.X, msg.Y, msg.Color)
	})
}

// spawnGroundDrink creates the ground object, clears the player's drink
// fields, arms the TTL timer, and announces drink_dropped to the whole room
// (the dropper included, since the id may be server-assigned). Loop-only.
func (w *World) spawnGroundDrink(p *Player, id string, x, y float64, color string) {
	if id == "" || w.drinks[id] != nil {
		id = uuid.NewString()
	}
	if !hexColorRe.MatchString(color) {
		color = p.DrinkColor
	}
	if color == "" {
		color = drinkColors[0]
	}

	d := &GroundDrink{ID: id, Room: p.Room, X: x, Y: y, Color: color}
	w.drinks[id] = d
	w.byRoom[d.Room][id] = d

	p.DrinkState = DrinkNone
	p.DrinkColor = ""

	w.schedule(drinkKey(id), w.cfg.DrinkTTL, func() {
		w.expireDrink(id)
	})

	w.broadcastRoom(d.Room, "", protocol.DrinkDroppedEvent{
		Type:     protocol.TypeDrinkDropped,
		PlayerID: p.ID,
		Drink:    d.State(),
	})
	w.metrics.incDrops()
}

// expireDrink removes a ground drink when its TTL fires. Expiry is silent:
// clients fade the object out on their own clock, so only snapshots change.
// Loop-only.
func (w *World) expireDrink(id string) {
	d, ok := w.drinks[id]
	if !ok {
		return
	}
	delete(w.drinks, id)
	delete(w.byRoom[d.Room], id)
	w.metrics.incExpired()
}

// KickDrink overwrites a ground drink's velocity. The drink must exist, be
// in the kicker's room, and lie within the kick radius of the kicker's
// server-known position. Kicking never changes any player's drink state and
// never extends the drink's TTL.
func (w *World) KickDrink(conn Sender, msg protocol.DrinkKick) {
	w.do(func() {
		p, ok := w.playerFor(conn)
		if !ok {
			w.metrics.incRejected()
			return
		}

		d, ok := w.drinks[msg.DrinkID]
		if !ok || d.Room != p.Room {
			w.metrics.incRejected()
			return
		}

		dx, dy := d.X-p.X, d.Y-p.Y
		if dx*dx+dy*dy > w.cfg.KickRadius*w.cfg.KickRadius {
			w.metrics.incRejected()
			return
		}

		d.VX, d.VY = msg.VX, msg.VY

		w.broadcastRoom(d.Room, p.ID, protocol.DrinkKickedEvent{
			Type:    protocol.TypeDrinkKicked,
			DrinkID: d.ID,
			VX:      msg.VX,
			VY:      msg.VY,
		})
	})
}
