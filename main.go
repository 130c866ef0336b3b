// Command musicclub starts the Music Club world server.
//
// It supports two modes:
//  1. "serve" (default) – runs the HTTP server exposing the REST API, the
//     WebSocket world endpoint, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server proxying a running HTTP API
//
// Flags control host/port, room and playlist config files, debug logging,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/revilo-longfield/musicclub/api"
	"github.com/revilo-longfield/musicclub/club/music"
	"github.com/revilo-longfield/musicclub/club/room"
	"github.com/revilo-longfield/musicclub/club/world"
	"github.com/revilo-longfield/musicclub/logging"
	"github.com/revilo-longfield/musicclub/transport/mcp"
	"github.com/revilo-longfield/musicclub/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "Music Club Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	cmd := &cli.Command{
		Name:    "musicclub",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "rooms", Usage: "Room definitions JSON file (built-in layout if empty)"},
			&cli.StringFlag{Name: "playlist", Usage: "Playlist JSON file (built-in tracks if empty)"},
			&cli.StringFlag{Name: "static-dir", Value: defaultStaticDir(), Usage: "Directory with the client bundle"},
			&cli.StringFlag{Name: "log-file", Value: "logs/musicclub.log", Usage: "Rotated log file path"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token (or NGROK_AUTHTOKEN env var)"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server with API, WebSocket, and MCP endpoint",
				Action: runServe,
			},
			{
				Name:  "mcp",
				Usage: "Run an MCP stdio server against a running HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "Base URL of the HTTP API"},
				},
				Action: runStdioMCP,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// defaultStaticDir honors STATIC_DIR, then falls back to "public".
func defaultStaticDir() string {
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		return dir
	}
	return "public"
}

// loadRooms returns the room registry, from file when --rooms is set.
func loadRooms(path string) (*room.Registry, error) {
	if path == "" {
		return room.DefaultRegistry(), nil
	}
	return room.LoadRegistry(path)
}

// loadPlaylist returns the playlist, from file when --playlist is set.
func loadPlaylist(path string) (music.Playlist, error) {
	if path == "" {
		return music.DefaultPlaylist(), nil
	}
	return music.LoadPlaylist(path)
}

// runServe starts the world loop and the HTTP server with the REST API,
// WebSocket endpoint, and an /mcp proxy endpoint. If ngrok is enabled it
// also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	logger, flush := logging.New(cmd.String("log-file"), cmd.Bool("debug"))
	defer flush()

	rooms, err := loadRooms(cmd.String("rooms"))
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	playlist, err := loadPlaylist(cmd.String("playlist"))
	if err != nil {
		return fmt.Errorf("load playlist: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := world.New(world.DefaultConfig(), rooms, playlist, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()

	wsHandler := websocket.NewHandler(w, logger)
	apiServer := api.NewServer(w, wsHandler, cmd.String("static-dir"), logger)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))

	// MCP client for the /mcp endpoint proxies our own API.
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(rw, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(rw, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		rw.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(rw, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		rw.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Infow("HTTP server listening",
			"addr", addr,
			"api", fmt.Sprintf("http://%s/api", addr),
			"ws", fmt.Sprintf("ws://%s/ws", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr),
		)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("HTTP server failed", "error", err)
		}
	}()

	ngrokShouldRun := cmd.Bool("ngrok")
	if !ngrokShouldRun {
		if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
			ngrokShouldRun = true
		}
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd, mainRouter, logger)
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("HTTP server shutdown error", "error", err)
	}

	wg.Wait()
	logger.Info("Server stopped")
	return nil
}

// runNgrokTunnel serves the main router through an ngrok tunnel until ctx ends.
func runNgrokTunnel(ctx context.Context, cmd *cli.Command, handler http.Handler, logger *zap.SugaredLogger) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		logger.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	domain := cmd.String("ngrok-domain")
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Infow("Using custom ngrok domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Warnw("Failed to start ngrok tunnel", "error", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			logger.Warnw("Failed to close ngrok tunnel", "error", err)
		}
	}()

	logger.Infow("Ngrok tunnel established", "url", tun.URL())

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		logger.Warnw("Ngrok server error", "error", err)
	}
}

// runStdioMCP runs an MCP stdio server against an already-running HTTP API.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")

	// Probe the API so a bad URL fails fast instead of on the first tool call.
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/healthz")
	if err != nil {
		return fmt.Errorf("API server not reachable at %s: %w", baseURL, err)
	}
	resp.Body.Close()

	log.Printf("MCP stdio server ready (proxying %s)", baseURL)

	mcpClient := mcp.NewClient(baseURL)
	return mcpserver.ServeStdio(mcpClient.GetMCPServer())
}
