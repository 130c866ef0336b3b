package world

import (
	"context"

	"github.com/revilo-longfield/musicclub/club/music"
	"github.com/revilo-longfield/musicclub/club/protocol"
	"github.com/revilo-longfield/musicclub/club/room"
)

// RoomInfo is a room definition plus its live occupancy.
type RoomInfo struct {
	room.Definition
	Players      int `json:"players"`
	GroundDrinks int `json:"groundDrinks"`
}

// Rooms returns every room definition with current occupancy. The read runs
// as a task on the event loop, so it sees a consistent world.
func (w *World) Rooms(ctx context.Context) ([]RoomInfo, error) {
	var out []RoomInfo
	err := w.query(ctx, func() {
		for _, def := range w.rooms.Definitions() {
			out = append(out, RoomInfo{
				Definition:   def,
				Players:      len(w.members[def.ID]),
				GroundDrinks: len(w.byRoom[def.ID]),
			})
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RoomSnapshot returns a full member and ground-drink snapshot of one room.
func (w *World) RoomSnapshot(ctx context.Context, roomID string) (*protocol.RoomStateEvent, error) {
	if !w.rooms.Contains(roomID) {
		return nil, room.ErrRoomNotFound
	}

	var snap protocol.RoomStateEvent
	err := w.query(ctx, func() {
		snap = protocol.RoomStateEvent{
			Type:         protocol.TypeRoomState,
			Room:         roomID,
			Players:      w.roomPlayersExcept(roomID, ""),
			GroundDrinks: w.roomDrinkStates(roomID),
		}
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// MusicSnapshot returns the current music clock, playlist included.
func (w *World) MusicSnapshot(ctx context.Context) (protocol.MusicStateEvent, error) {
	var ev protocol.MusicStateEvent
	err := w.query(ctx, func() {
		ev = w.musicStateEvent(true)
	})
	return ev, err
}

// Stats returns counters and live totals for the ops surface.
func (w *World) Stats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := w.query(ctx, func() {
		occupancy := make(map[string]int, len(w.members))
		for id, m := range w.members {
			occupancy[id] = len(m)
		}
		out = map[string]any{
			"players":      len(w.players),
			"groundDrinks": len(w.drinks),
			"occupancy":    occupancy,
			"counters":     w.metrics.Snapshot(),
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Playlist returns the static playlist. It is immutable after startup, so
// no world query is needed.
func (w *World) Playlist() music.Playlist {
	return w.playlist
}
