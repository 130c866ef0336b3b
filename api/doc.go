// Package api exposes the HTTP surface of the Music Club server.
//
// It mounts three groups of routes:
//
//   - The WebSocket endpoint (/ws) that upgrades into the real-time protocol.
//   - The stateless collaborator endpoints used by the site UI: GET
//     /api/playlist, POST /api/demo-drop, POST /api/mailing-list. These are
//     plain request/response JSON with field validation and no bearing on
//     world state.
//   - A read-only ops surface: GET /api/rooms, GET /api/rooms/{id}/state,
//     GET /api/music, GET /api/stats, GET /healthz. Room and music reads run
//     as serialized world queries, so they always observe a consistent
//     snapshot.
//
// Everything else falls through to the static file server hosting the game
// client.
package api
