package world

import (
	"strings"
	"time"

	"github.com/revilo-longfield/musicclub/club/protocol"
)

// Chat relays a chat line to the sender's entire room, the sender included,
// so every client renders from the same authoritative event. Empty and
// over-length messages are dropped; only the per-player cooldown produces an
// explicit chat_error reply.
func (w *World) Chat(conn Sender, msg protocol.Chat) {
	w.do(func() {
		p, ok := w.playerFor(conn)
		if !ok {
			w.metrics.incRejected()
			return
		}

		text := strings.TrimSpace(msg.Text)
		if text == "" || len([]rune(text)) > w.cfg.ChatMaxLen {
			w.metrics.incRejected()
			return
		}

		now := time.Now()
		if last, ok := w.chatLast[p.ID]; ok && now.Sub(last) < w.cfg.ChatCooldown {
			w.metrics.incRejected()
			conn.Send(protocol.ChatErrorEvent{
				Type:   protocol.TypeChatError,
				Reason: "You're sending messages too quickly",
			})
			return
		}
		w.chatLast[p.ID] = now

		w.broadcastRoom(p.Room, "", protocol.ChatEvent{
			Type: protocol.TypeChatEvent,
			ID:   p.ID,
			Name: p.Name,
			Text: text,
		})
	})
}
