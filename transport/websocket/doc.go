// Package websocket provides the WebSocket transport for the Music Club
// world server.
//
// Each accepted connection gets a Client with two goroutines: readPump
// decodes inbound frames and submits them to the world, writePump drains the
// buffered send channel to the socket with ping/pong keepalive. The Client
// implements world.Sender, so the world can fan events out without knowing
// anything about sockets.
//
// Backpressure: Send enqueues without blocking and drops the event if the
// client's buffer is full. A client that cannot keep up loses deltas rather
// than stalling the world's event loop; the next room snapshot resynchronizes
// it.
//
// Failure handling: malformed JSON and unknown message types are dropped
// without a reply and without closing the connection. A socket error or close
// tears the bound player down through the same path as an explicit leave.
package websocket
