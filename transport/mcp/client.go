package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/revilo-longfield/musicclub/club/music"
	"github.com/revilo-longfield/musicclub/club/protocol"
	"github.com/revilo-longfield/musicclub/club/world"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates an MCP client that calls the REST API at baseURL.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Music Club Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Music Club Server - MCP ops interface

Read-only inspection of a running world server. All tools proxy the REST API.

AVAILABLE TOOLS:
- list_rooms: every room definition with live occupancy
- room_state: full member and ground-drink snapshot of one room
- music_state: the shared music clock and playlist
- playlist: the static track list
- server_stats: live totals and event counters

Player intents (join, move, drinks, chat) are only reachable over the
WebSocket protocol; this interface cannot mutate world state.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all rooms with their dimensions, spawn points, and live occupancy",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "room_state",
		Description: "Get a full snapshot of one room: current members and ground drinks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room id (e.g. main, backstage, vip)",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleRoomState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "music_state",
		Description: "Get the shared music clock: current track, start time, and playlist",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleMusicState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "playlist",
		Description: "Get the static track list",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handlePlaylist)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_stats",
		Description: "Get live totals and event counters",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStats)
}

// GetMCPServer returns the underlying MCP server for mounting or stdio use.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs one REST request and decodes the JSON response.
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Tool handlers

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rooms []world.RoomInfo
	if err := c.apiCall("GET", "/api/rooms", nil, &rooms); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Rooms:\n\n"
	for _, r := range rooms {
		bar := ""
		if r.HasBar {
			bar = ", bar"
		}
		result += fmt.Sprintf("• %s (%s)\n  %gx%g, spawn (%g,%g)%s\n  players: %d, ground drinks: %d\n\n",
			r.ID, r.Name, r.Width, r.Height, r.SpawnX, r.SpawnY, bar, r.Players, r.GroundDrinks)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRoomState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)

	var snap protocol.RoomStateEvent
	if err := c.apiCall("GET", fmt.Sprintf("/api/rooms/%s/state", roomID), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Room %s\n\nPlayers (%d):\n", snap.Room, len(snap.Players))
	for _, p := range snap.Players {
		result += fmt.Sprintf("• %s (%s) at (%.0f,%.0f) drink=%s\n", p.Name, p.ID, p.X, p.Y, p.DrinkState)
	}
	result += fmt.Sprintf("\nGround drinks (%d):\n", len(snap.GroundDrinks))
	for _, d := range snap.GroundDrinks {
		result += fmt.Sprintf("• %s at (%.0f,%.0f) color=%s\n", d.ID, d.X, d.Y, d.Color)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMusicState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state protocol.MusicStateEvent
	if err := c.apiCall("GET", "/api/music", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Track index: %d\nTrack started: %d\nServer now: %d\n",
		state.CurrentTrackIndex, state.TrackStartTime, state.ServerNow)
	if len(state.Playlist) > 0 {
		result += "\nPlaylist:\n"
		for i, t := range state.Playlist {
			marker := " "
			if i == state.CurrentTrackIndex {
				marker = "▶"
			}
			result += fmt.Sprintf("%s %d. %s (%.0fs)\n", marker, i+1, t.Name, t.Duration)
		}
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlaylist(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var pl music.Playlist
	if err := c.apiCall("GET", "/api/playlist", nil, &pl); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Playlist:\n\n"
	for i, t := range pl {
		result += fmt.Sprintf("%d. %s - %s (%.0fs)\n", i+1, t.Name, t.URL, t.Duration)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleServerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats map[string]interface{}
	if err := c.apiCall("GET", "/api/stats", nil, &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
