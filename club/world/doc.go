// Package world implements the authoritative state machine for the Music
// Club: connection-to-player binding, room membership, the per-player drink
// lifecycle, ground-drink spawn/kick/expiry, and the shared music clock.
//
// Concurrency model:
//
// All state lives behind a single event loop (World.Run). Every inbound
// intent, disconnect, timer callback, and read-only query is executed as a
// task on one channel; each task runs to completion before the next starts.
// This serialization is what makes multi-step operations such as a room
// transition atomic without locks, and it guarantees that all members of a
// room observe events in the order the server applied them.
//
// Timers (order timeout, carry timeout, ground-drink TTL, track advance) are
// time.AfterFunc callbacks that only enqueue tasks. Handles are kept keyed by
// owning entity so tearing an entity down also cancels its pending timers;
// every fired callback re-checks that its entity still exists in the state it
// expects.
//
// Connection handles are held in a map separate from player state, keyed by
// player id. Serialized output is built from protocol.PlayerState, so a
// socket handle can never leak into a broadcast by construction.
//
// Failure semantics:
//
// An intent referencing a nonexistent player or drink, a drink in another
// room, or an out-of-range value is silently ignored; nothing partially
// mutates. The one exception is the chat cooldown, which replies with an
// explicit chat_error so the client can surface feedback.
package world
