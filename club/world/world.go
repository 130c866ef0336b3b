package world

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/revilo-longfield/musicclub/club/music"
	"github.com/revilo-longfield/musicclub/club/protocol"
	"github.com/revilo-longfield/musicclub/club/room"
)

// Sender is the outbound half of a client connection. Send must not block
// the caller; the websocket transport enqueues into a buffered channel and
// drops on overflow. Implementations must be comparable (pointer types), as
// the world keys its connection binding on them.
type Sender interface {
	Send(event any)
}

// Config holds the tunable durations and limits of the world. Zero values
// are not valid; start from DefaultConfig.
type Config struct {
	OrderTime  time.Duration // ordering → carrying auto-transition
	CarryTime  time.Duration // carrying → auto-drop at current position
	DrinkTTL   time.Duration // ground drink lifetime, unconditional
	KickRadius float64       // max distance between kicker and drink

	ChatCooldown time.Duration
	ChatMaxLen   int

	NameMaxLen     int
	CharacterCount int

	MusicInterval time.Duration // periodic music_state broadcast

	TaskBuffer int
}

// DefaultConfig returns the production timings.
func DefaultConfig() Config {
	return Config{
		OrderTime:      2 * time.Second,
		CarryTime:      15 * time.Second,
		DrinkTTL:       8 * time.Second,
		KickRadius:     40,
		ChatCooldown:   time.Second,
		ChatMaxLen:     200,
		NameMaxLen:     16,
		CharacterCount: 6,
		MusicInterval:  10 * time.Second,
		TaskBuffer:     256,
	}
}

// World owns all live state. Its fields must only be touched from tasks
// executed by Run.
type World struct {
	cfg      Config
	rooms    *room.Registry
	playlist music.Playlist
	log      *zap.SugaredLogger
	metrics  *Metrics

	tasks chan func()

	players  map[string]*Player                 // player id → state
	conns    map[string]Sender                  // player id → connection handle
	bindings map[Sender]string                  // connection handle → bound player id
	members  map[string]map[string]*Player      // room id → membership
	drinks   map[string]*GroundDrink            // drink id → drink
	byRoom   map[string]map[string]*GroundDrink // room id → drinks in it

	timers   map[string]*time.Timer // entity-keyed cancellable timers
	chatLast map[string]time.Time

	music      music.State
	trackTimer *time.Timer
}

// New creates a world over the given room set and playlist. Run must be
// started before any intent is submitted.
func New(cfg Config, rooms *room.Registry, playlist music.Playlist, log *zap.SugaredLogger) *World {
	w := &World{
		cfg:      cfg,
		rooms:    rooms,
		playlist: playlist,
		log:      log,
		metrics:  &Metrics{},
		tasks:    make(chan func(), cfg.TaskBuffer),
		players:  make(map[string]*Player),
		conns:    make(map[string]Sender),
		bindings: make(map[Sender]string),
		members:  make(map[string]map[string]*Player),
		drinks:   make(map[string]*GroundDrink),
		byRoom:   make(map[string]map[string]*GroundDrink),
		timers:   make(map[string]*time.Timer),
		chatLast: make(map[string]time.Time),
		music:    music.NewState(time.Now()),
	}
	for _, id := range rooms.IDs() {
		w.members[id] = make(map[string]*Player)
		w.byRoom[id] = make(map[string]*GroundDrink)
	}
	return w
}

// Run executes the world's event loop until ctx is cancelled. It must be
// called exactly once, in its own goroutine.
func (w *World) Run(ctx context.Context) {
	musicTicker := time.NewTicker(w.cfg.MusicInterval)
	defer musicTicker.Stop()

	w.scheduleTrackAdvance()

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return
		case task := <-w.tasks:
			task()
			w.metrics.addTask()
		case <-musicTicker.C:
			w.broadcastAll(w.musicStateEvent(false))
		}
	}
}

// do enqueues a task for the event loop. Intents block here if the loop is
// saturated rather than being dropped; correctness of teardown and ordering
// beats shedding load at this layer.
func (w *World) do(task func()) {
	w.tasks <- task
}

// query runs fn on the event loop and waits for it, honoring ctx. Used by
// the REST/MCP read-only surface.
func (w *World) query(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case w.tasks <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleMessage routes one decoded intent to its operation. The protocol
// union is closed, so the switch is exhaustive over every message kind.
func (w *World) HandleMessage(conn Sender, msg protocol.ClientMessage) {
	w.metrics.incHandled()
	switch m := msg.(type) {
	case protocol.Join:
		w.Join(conn, m)
	case protocol.Move:
		w.Move(conn, m)
	case protocol.RoomChange:
		w.ChangeRoom(conn, m)
	case protocol.DrinkOrder:
		w.OrderDrink(conn, m)
	case protocol.DrinkCarry:
		w.CarryDrink(conn)
	case protocol.DrinkDrop:
		w.DropDrink(conn, m)
	case protocol.DrinkKick:
		w.KickDrink(conn, m)
	case protocol.Chat:
		w.Chat(conn, m)
	}
}

// playerFor resolves the player bound to conn. Loop-only.
func (w *World) playerFor(conn Sender) (*Player, bool) {
	id, ok := w.bindings[conn]
	if !ok {
		return nil, false
	}
	p, ok := w.players[id]
	return p, ok
}

// schedule arms a cancellable timer keyed by entity. Any previous timer with
// the same key is cancelled first. The task runs on the event loop.
func (w *World) schedule(key string, d time.Duration, task func()) {
	w.cancel(key)
	w.timers[key] = time.AfterFunc(d, func() {
		w.do(func() {
			delete(w.timers, key)
			task()
		})
	})
}

// cancel stops a pending timer, if any.
func (w *World) cancel(key string) {
	if t, ok := w.timers[key]; ok {
		t.Stop()
		delete(w.timers, key)
	}
}

func (w *World) stopTimers() {
	for key, t := range w.timers {
		t.Stop()
		delete(w.timers, key)
	}
	if w.trackTimer != nil {
		w.trackTimer.Stop()
	}
}

// Metrics returns the world's counters.
func (w *World) Metrics() *Metrics {
	return w.metrics
}
