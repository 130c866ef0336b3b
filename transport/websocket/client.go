package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/revilo-longfield/musicclub/club/protocol"
	"github.com/revilo-longfield/musicclub/club/world"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Large enough for a join with
	// appearance fields or a max-length chat line.
	maxMessageSize = 2048

	// Outbound buffer per client; overflow drops the event.
	sendBuffer = 64
)

// Handler upgrades HTTP requests into world-connected clients.
type Handler struct {
	world    *world.World
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler bound to a world.
func NewHandler(w *world.World, log *zap.SugaredLogger) *Handler {
	return &Handler{
		world: w,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The game client is served from the same origin; other
				// origins are tolerated for local development.
				return true
			},
		},
	}
}

// ServeHTTP upgrades the request and starts the client pumps. The connection
// is not bound to a player until it sends a valid join frame.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "err", err)
		return
	}

	c := &Client{
		conn:  conn,
		world: h.world,
		log:   h.log,
		send:  make(chan []byte, sendBuffer),
		done:  make(chan struct{}),
	}

	go c.writePump()
	go c.readPump()
}

// Client is one live connection. It implements world.Sender.
type Client struct {
	conn  *websocket.Conn
	world *world.World
	log   *zap.SugaredLogger

	send chan []byte
	done chan struct{} // closed by readPump on exit; ends writePump
}

// Send marshals an event and enqueues it for writePump. It never blocks the
// world's event loop: a full buffer drops the event.
func (c *Client) Send(event any) {
	data, err := json.Marshal(event)
	if err != nil {
		c.log.Errorw("marshal outbound event", "err", err)
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		// Slow consumer; drop rather than stall the world.
		c.log.Debugw("send buffer full, dropping event")
	}
}

// readPump reads frames until the socket fails, decoding each one and
// handing it to the world. Exit releases the bound player.
func (c *Client) readPump() {
	defer func() {
		c.world.Disconnect(c)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debugw("websocket read error", "err", err)
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			// Malformed or unknown frames are dropped; the connection
			// stays open.
			if errors.Is(err, protocol.ErrUnknownType) {
				c.log.Debugw("unknown message type dropped")
			}
			continue
		}

		c.world.HandleMessage(c, msg)
	}
}

// writePump drains the send buffer to the socket and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
