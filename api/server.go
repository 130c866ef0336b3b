package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/revilo-longfield/musicclub/club/world"
	ws "github.com/revilo-longfield/musicclub/transport/websocket"
)

// Server is the HTTP front of the world server.
type Server struct {
	world     *world.World
	wsHandler *ws.Handler
	log       *zap.SugaredLogger
	router    *mux.Router
	staticDir string
}

// NewServer builds the router. staticDir is the client bundle location; pass
// "" to disable static serving (tests do).
func NewServer(w *world.World, wsHandler *ws.Handler, staticDir string, log *zap.SugaredLogger) *Server {
	s := &Server{
		world:     w,
		wsHandler: wsHandler,
		log:       log,
		router:    mux.NewRouter(),
		staticDir: staticDir,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	api := s.router.PathPrefix("/api").Subrouter()

	// Site collaborator endpoints
	api.HandleFunc("/playlist", s.handlePlaylist).Methods("GET")
	api.HandleFunc("/demo-drop", s.handleDemoDrop).Methods("POST")
	api.HandleFunc("/mailing-list", s.handleMailingList).Methods("POST")

	// Ops surface
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}/state", s.handleRoomState).Methods("GET")
	api.HandleFunc("/music", s.handleMusic).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	// Real-time endpoint
	s.router.Handle("/ws", s.wsHandler)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	if s.staticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Collaborator handlers

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.world.Playlist())
}

func (s *Server) handleDemoDrop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArtistName string `json:"artistName"`
		Email      string `json:"email"`
		DemoLink   string `json:"demoLink"`
		Message    string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.ArtistName = strings.TrimSpace(req.ArtistName)
	req.Email = strings.TrimSpace(req.Email)
	req.DemoLink = strings.TrimSpace(req.DemoLink)

	if req.ArtistName == "" || req.Email == "" || req.DemoLink == "" {
		respondError(w, http.StatusBadRequest, "artistName, email and demoLink are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	s.log.Infow("demo drop received", "artist", req.ArtistName, "email", req.Email)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMailingList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	s.log.Infow("mailing list signup", "email", req.Email)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Ops handlers

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.world.Rooms(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleRoomState(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]

	snap, err := s.world.RoomSnapshot(r.Context(), roomID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleMusic(w http.ResponseWriter, r *http.Request) {
	state, err := s.world.MusicSnapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.world.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
