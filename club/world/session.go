package world

import (
	"strings"

	"github.com/google/uuid"

	"github.com/revilo-longfield/musicclub/club/protocol"
)

// Join binds conn to a fresh player in the default room. Any player already
// bound to conn is torn down first, with its player_left announced, so a
// connection never holds two identities.
func (w *World) Join(conn Sender, msg protocol.Join) {
	w.do(func() {
		name := strings.TrimSpace(msg.Name)
		if runes := []rune(name); len(runes) > w.cfg.NameMaxLen {
			name = string(runes[:w.cfg.NameMaxLen])
		}
		if name == "" {
			w.metrics.incRejected()
			return
		}

		characterID := 0
		if msg.CharacterID != nil {
			characterID = *msg.CharacterID
			if characterID < 0 {
				characterID = 0
			}
			if characterID >= w.cfg.CharacterCount {
				characterID = w.cfg.CharacterCount - 1
			}
		}

		if oldID, ok := w.bindings[conn]; ok {
			w.teardownPlayer(oldID)
		}

		def := w.rooms.Default()
		p := &Player{
			ID:          uuid.NewString(),
			Name:        name,
			X:           def.SpawnX,
			Y:           def.SpawnY,
			CharacterID: characterID,
			Room:        def.ID,
			DrinkState:  DrinkNone,
		}

		w.players[p.ID] = p
		w.conns[p.ID] = conn
		w.bindings[conn] = p.ID
		w.members[def.ID][p.ID] = p

		conn.Send(protocol.WelcomeEvent{
			Type:         protocol.TypeWelcome,
			ID:           p.ID,
			Room:         def.ID,
			Players:      w.roomPlayersExcept(def.ID, p.ID),
			GroundDrinks: w.roomDrinkStates(def.ID),
		})
		conn.Send(w.musicStateEvent(true))

		w.broadcastRoom(def.ID, p.ID, protocol.PlayerJoinedEvent{
			Type:   protocol.TypePlayerJoined,
			Player: p.State(),
		})

		w.metrics.incJoins()
		w.log.Infow("player joined", "id", p.ID, "name", p.Name, "room", p.Room)
	})
}

// Disconnect releases whatever player is bound to conn. Safe to call for
// connections that never joined.
func (w *World) Disconnect(conn Sender) {
	w.do(func() {
		id, ok := w.bindings[conn]
		if !ok {
			return
		}
		w.teardownPlayer(id)
		w.metrics.incLeaves()
		w.log.Infow("player disconnected", "id", id)
	})
}

// teardownPlayer removes a player from every registry, cancels its pending
// drink timers, and announces player_left to its room. Loop-only.
func (w *World) teardownPlayer(id string) {
	p, ok := w.players[id]
	if !ok {
		return
	}

	w.cancel(orderKey(id))
	w.cancel(carryKey(id))

	delete(w.players, id)
	delete(w.members[p.Room], id)
	delete(w.chatLast, id)
	if conn, ok := w.conns[id]; ok {
		delete(w.bindings, conn)
		delete(w.conns, id)
	}

	w.broadcastRoom(p.Room, "", protocol.PlayerLeftEvent{
		Type: protocol.TypePlayerLeft,
		ID:   id,
	})
}

// Move overwrites the player's position and relays it to the rest of its
// room. Positions are client-reported and intentionally not validated
// against room bounds.
func (w *World) Move(conn Sender, msg protocol.Move) {
	w.do(func() {
		p, ok := w.playerFor(conn)
		if !ok {
			w.metrics.incRejected()
			return
		}

		p.X, p.Y = msg.X, msg.Y

		w.broadcastRoom(p.Room, p.ID, protocol.PlayerMovedEvent{
			Type: protocol.TypePlayerMoved,
			ID:   p.ID,
			X:    msg.X,
			Y:    msg.Y,
		})
	})
}

// ChangeRoom transitions the player to another room on the allow-list. The
// whole sequence (player_left to the old room, membership swap, room_state
// snapshot to the mover, player_joined to the new room) runs as one task, so
// no other message can interleave mid-transition.
func (w *World) ChangeRoom(conn Sender, msg protocol.RoomChange) {
	w.do(func() {
		p, ok := w.playerFor(conn)
		if !ok {
			w.metrics.incRejected()
			return
		}

		def, err := w.rooms.Get(msg.TargetRoom)
		if err != nil || def.ID == p.Room {
			w.metrics.incRejected()
			return
		}

		x, y := def.SpawnX, def.SpawnY
		if msg.SpawnX != nil {
			x = *msg.SpawnX
		}
		if msg.SpawnY != nil {
			y = *msg.SpawnY
		}

		oldRoom := p.Room
		delete(w.members[oldRoom], p.ID)
		w.broadcastRoom(oldRoom, "", protocol.PlayerLeftEvent{
			Type: protocol.TypePlayerLeft,
			ID:   p.ID,
		})

		p.Room, p.X, p.Y = def.ID, x, y
		w.members[def.ID][p.ID] = p

		conn.Send(protocol.RoomStateEvent{
			Type:         protocol.TypeRoomState,
			Room:         def.ID,
			Players:      w.roomPlayersExcept(def.ID, p.ID),
			GroundDrinks: w.roomDrinkStates(def.ID),
		})

		w.broadcastRoom(def.ID, p.ID, protocol.PlayerJoinedEvent{
			Type:   protocol.TypePlayerJoined,
			Player: p.State(),
		})

		w.log.Debugw("room change", "id", p.ID, "from", oldRoom, "to", def.ID)
	})
}

// roomPlayersExcept snapshots a room's members, skipping excludeID.
// Loop-only.
func (w *World) roomPlayersExcept(roomID, excludeID string) []protocol.PlayerState {
	out := make([]protocol.PlayerState, 0, len(w.members[roomID]))
	for id, p := range w.members[roomID] {
		if id == excludeID {
			continue
		}
		out = append(out, p.State())
	}
	return out
}

// roomDrinkStates snapshots a room's live ground drinks. Loop-only.
func (w *World) roomDrinkStates(roomID string) []protocol.GroundDrinkState {
	out := make([]protocol.GroundDrinkState, 0, len(w.byRoom[roomID]))
	for _, d := range w.byRoom[roomID] {
		out = append(out, d.State())
	}
	return out
}
