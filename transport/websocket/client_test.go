package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/revilo-longfield/musicclub/club/music"
	"github.com/revilo-longfield/musicclub/club/room"
	"github.com/revilo-longfield/musicclub/club/world"
	"github.com/revilo-longfield/musicclub/logging"
)

func newTestEndpoint(t *testing.T) string {
	t.Helper()

	w := world.New(world.DefaultConfig(), room.DefaultRegistry(), music.DefaultPlaylist(), logging.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	srv := httptest.NewServer(NewHandler(w, logging.Nop()))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *gws.Conn {
	t.Helper()
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *gws.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(gws.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("Failed to write frame: %v", err)
	}
}

// readEvent reads the next frame and decodes it into a generic envelope.
func readEvent(t *testing.T, conn *gws.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}
	var ev map[string]interface{}
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Failed to decode frame %s: %v", data, err)
	}
	return ev
}

// expectNoEvent asserts that no frame arrives within the window.
func expectNoEvent(t *testing.T, conn *gws.Conn, window time.Duration) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(window))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("Expected no frame, got %s", data)
	}
}

func TestJoinReceivesWelcomeAndMusicState(t *testing.T) {
	url := newTestEndpoint(t)
	conn := dial(t, url)

	sendFrame(t, conn, `{"type":"join","name":"Ada","characterId":2}`)

	welcome := readEvent(t, conn)
	if welcome["type"] != "welcome" {
		t.Fatalf("First event type = %v, want welcome", welcome["type"])
	}
	if welcome["id"] == "" || welcome["id"] == nil {
		t.Error("Welcome must carry the assigned player id")
	}
	if welcome["room"] != "main" {
		t.Errorf("Welcome room = %v, want main", welcome["room"])
	}
	if _, ok := welcome["players"].([]interface{}); !ok {
		t.Errorf("Welcome players missing: %v", welcome)
	}

	ms := readEvent(t, conn)
	if ms["type"] != "music_state" {
		t.Fatalf("Second event type = %v, want music_state", ms["type"])
	}
	if pl, ok := ms["playlist"].([]interface{}); !ok || len(pl) != 5 {
		t.Errorf("Join-time music_state playlist = %v, want 5 tracks", ms["playlist"])
	}
}

func TestPeersSeeJoinMoveAndLeave(t *testing.T) {
	url := newTestEndpoint(t)

	first := dial(t, url)
	sendFrame(t, first, `{"type":"join","name":"Ada"}`)
	readEvent(t, first) // welcome
	readEvent(t, first) // music_state

	second := dial(t, url)
	sendFrame(t, second, `{"type":"join","name":"Lin"}`)
	readEvent(t, second) // welcome
	readEvent(t, second) // music_state

	joined := readEvent(t, first)
	if joined["type"] != "player_joined" {
		t.Fatalf("Expected player_joined, got %v", joined["type"])
	}
	player := joined["player"].(map[string]interface{})
	if player["name"] != "Lin" {
		t.Errorf("player_joined name = %v, want Lin", player["name"])
	}
	secondID := player["id"].(string)

	sendFrame(t, second, `{"type":"move","x":42,"y":17}`)
	moved := readEvent(t, first)
	if moved["type"] != "player_moved" {
		t.Fatalf("Expected player_moved, got %v", moved["type"])
	}
	if moved["id"] != secondID || moved["x"] != float64(42) || moved["y"] != float64(17) {
		t.Errorf("player_moved = %v, want id=%s x=42 y=17", moved, secondID)
	}
	// The mover must not receive its own echo.
	expectNoEvent(t, second, 100*time.Millisecond)

	second.Close()
	left := readEvent(t, first)
	if left["type"] != "player_left" || left["id"] != secondID {
		t.Errorf("Expected player_left for %s, got %v", secondID, left)
	}
}

func TestMalformedFramesAreDroppedSilently(t *testing.T) {
	url := newTestEndpoint(t)
	conn := dial(t, url)

	sendFrame(t, conn, `this is not json`)
	sendFrame(t, conn, `{"type":"teleport","x":1}`)
	sendFrame(t, conn, `{"type":"move"}`)

	// The connection survives and a valid join still works.
	sendFrame(t, conn, `{"type":"join","name":"Ada"}`)
	welcome := readEvent(t, conn)
	if welcome["type"] != "welcome" {
		t.Fatalf("Expected welcome after dropped frames, got %v", welcome["type"])
	}
}

func TestIntentsBeforeJoinGetNoReply(t *testing.T) {
	url := newTestEndpoint(t)
	conn := dial(t, url)

	sendFrame(t, conn, `{"type":"move","x":1,"y":2}`)
	sendFrame(t, conn, `{"type":"chat","text":"anyone?"}`)

	expectNoEvent(t, conn, 100*time.Millisecond)
}

func TestChatRoundTrip(t *testing.T) {
	url := newTestEndpoint(t)

	first := dial(t, url)
	sendFrame(t, first, `{"type":"join","name":"Ada"}`)
	readEvent(t, first)
	readEvent(t, first)

	sendFrame(t, first, `{"type":"chat","text":"hello club"}`)
	chat := readEvent(t, first)
	if chat["type"] != "chat" {
		t.Fatalf("Expected chat, got %v", chat["type"])
	}
	if chat["name"] != "Ada" || chat["text"] != "hello club" {
		t.Errorf("chat = %v, want name=Ada text=hello club", chat)
	}

	// A second message inside the cooldown produces chat_error.
	sendFrame(t, first, `{"type":"chat","text":"again"}`)
	cerr := readEvent(t, first)
	if cerr["type"] != "chat_error" {
		t.Fatalf("Expected chat_error, got %v", cerr["type"])
	}
	if cerr["reason"] == "" {
		t.Error("chat_error must carry a reason")
	}
}
