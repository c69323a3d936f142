package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	gameService *GameService
	suggestions *SuggestionBox
	httpServer  *http.Server
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				// In production, implement proper origin checking
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the WebSocket server
func (s *Server) Start() error {
	go s.run()

	// Create a dedicated mux for this server instance
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/active-rooms", s.handleActiveRooms)
	mux.HandleFunc("/suggestions", s.handleSuggestions)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}

	// Close all connections
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "conn", conn.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, known := s.connections[conn]
			if known {
				delete(s.connections, conn)
				_ = conn.Close() // Ignore close errors during unregistration
			}
			total := len(s.connections)
			s.mu.Unlock()

			// Seat cleanup takes room locks, which in turn broadcast
			// through s.mu, so it must run outside the lock
			if known && s.gameService != nil {
				s.gameService.HandleDisconnect(conn.ID())
			}
			s.logger.Info("Client disconnected", "conn", conn.ID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.gameService)
	s.register <- client
	client.Start()

	// Connection cleanup is handled by the connection itself
	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// ActiveRoomInfo describes one live room for the lobby listing.
type ActiveRoomInfo struct {
	RoomID         string `json:"roomId"`
	ConnectedCount int    `json:"connectedCount"`
	RoundActive    bool   `json:"roundActive"`
}

// handleActiveRooms lists rooms that still have at least one connected player
func (s *Server) handleActiveRooms(w http.ResponseWriter, r *http.Request) {
	if s.gameService == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	rooms := s.gameService.ActiveRooms()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rooms); err != nil {
		s.logger.Error("Failed to encode active rooms", "error", err)
	}
}

// handleSuggestions accepts feedback posts and serves the collected list
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if s.suggestions == nil {
		http.Error(w, "suggestion box unavailable", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var entry SuggestionEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			http.Error(w, "invalid suggestion payload", http.StatusBadRequest)
			return
		}
		if err := s.suggestions.Add(entry); err != nil {
			s.logger.Error("Failed to store suggestion", "error", err)
			http.Error(w, "failed to store suggestion", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)

	case http.MethodGet:
		entries, err := s.suggestions.List()
		if err != nil {
			s.logger.Error("Failed to read suggestions", "error", err)
			http.Error(w, "failed to read suggestions", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			s.logger.Error("Failed to encode suggestions", "error", err)
		}

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// BroadcastToRoom sends a message to all connections in a specific room
func (s *Server) BroadcastToRoom(roomID string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.GetRoom() == roomID {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("Failed to send message to client", "error", err, "conn", conn.ID())
			} else {
				count++
			}
		}
	}

	s.logger.Debug("Broadcasted message to room", "roomId", roomID, "type", msg.Type, "recipients", count)
}

// SendToConn sends a message to a specific connection
func (s *Server) SendToConn(connID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.ID() == connID {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("connection not found: %s", connID)
}

// RoomConnections returns the IDs of connections currently in a room
func (s *Server) RoomConnections(roomID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for conn := range s.connections {
		if conn.GetRoom() == roomID {
			ids = append(ids, conn.ID())
		}
	}

	return ids
}

// SetGameService sets the game service for the server
func (s *Server) SetGameService(gameService *GameService) {
	s.gameService = gameService
}

// SetSuggestionBox sets the suggestion store for the feedback endpoint
func (s *Server) SetSuggestionBox(box *SuggestionBox) {
	s.suggestions = box
}
