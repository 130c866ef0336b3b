package world

import (
	"time"

	"github.com/revilo-longfield/musicclub/club/protocol"
)

// broadcastRoom delivers an event to every member of a room, skipping
// excludeID (pass "" to include everyone). Delivery is an enqueue on each
// member's connection; the transport owns buffering. Loop-only.
func (w *World) broadcastRoom(roomID, excludeID string, event any) {
	for id := range w.members[roomID] {
		if id == excludeID {
			continue
		}
		if conn, ok := w.conns[id]; ok {
			conn.Send(event)
			w.metrics.incSent()
		}
	}
}

// broadcastAll delivers an event to every connected client regardless of
// room. Only the music clock uses this scope. Loop-only.
func (w *World) broadcastAll(event any) {
	for _, conn := range w.conns {
		conn.Send(event)
		w.metrics.incSent()
	}
}

// musicStateEvent builds the current music clock event. Loop-only.
func (w *World) musicStateEvent(withPlaylist bool) protocol.MusicStateEvent {
	ev := protocol.MusicStateEvent{
		Type:              protocol.TypeMusicState,
		CurrentTrackIndex: w.music.TrackIndex,
		TrackStartTime:    w.music.TrackStartedAt.UnixMilli(),
		ServerStartTime:   w.music.ServerStarted.UnixMilli(),
		ServerNow:         time.Now().UnixMilli(),
	}
	if withPlaylist {
		ev.Playlist = w.playlist
	}
	return ev
}

// scheduleTrackAdvance arms the timer that flips to the next track when the
// current one ends. The callback runs as an ordinary task, so the clock
// mutation is serialized with everything else.
func (w *World) scheduleTrackAdvance() {
	if len(w.playlist) == 0 {
		return
	}
	remaining := w.playlist.TrackDuration(w.music.TrackIndex)
	w.trackTimer = time.AfterFunc(remaining, func() {
		w.do(w.advanceTrack)
	})
}

// advanceTrack moves the shared clock to the next track, announces it to
// everyone, and re-arms the advance timer. Loop-only.
func (w *World) advanceTrack() {
	w.music.TrackIndex = w.playlist.Next(w.music.TrackIndex)
	w.music.TrackStartedAt = time.Now()
	w.broadcastAll(w.musicStateEvent(false))
	w.scheduleTrackAdvance()
	w.log.Debugw("track advanced", "index", w.music.TrackIndex)
}
