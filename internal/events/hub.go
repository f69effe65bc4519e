package events

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/rps-matchmaker/internal/model"
)

// Hub fans messages out to every open stream of a single player
type Hub struct {
	playerID model.PlayerID
	clients  map[*Client]bool
	closed   bool
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewHub creates a new Hub for a player
func NewHub(playerID model.PlayerID, logger *slog.Logger) *Hub {
	return &Hub{
		playerID: playerID,
		clients:  make(map[*Client]bool),
		logger:   logger.With(slog.String("player_id", string(playerID))),
	}
}

// Register adds a client to the hub. Clients registered after Close get a
// closed channel straight away.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(client.send)
		return
	}
	h.clients[client] = true
	h.logger.Info("sse client registered", slog.Int("total_clients", len(h.clients)))
}

// Unregister removes a client from the hub and closes its channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.logger.Info("sse client unregistered",
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", len(h.clients)))
}

// Broadcast sends a message to all clients, dropping it for any client whose
// buffer is full
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("sse message dropped - client buffer full", slog.Int("dropped", dropped))
	}
}

// BroadcastEvent sends an SSE event with a name and data
func (h *Hub) BroadcastEvent(eventName, data string) {
	h.Broadcast(formatSSEMessage(eventName, data))
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	count := len(h.clients)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.logger.Info("sse hub stopped", slog.Int("disconnected_clients", count))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits on \n, dropping \r and a trailing empty line
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// HubManager tracks one hub per connected player
type HubManager struct {
	hubs   map[model.PlayerID]*Hub
	mu     sync.Mutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.PlayerID]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// Connect registers a new client for the player, creating the hub if needed
func (m *HubManager) Connect(playerID model.PlayerID) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	hub, ok := m.hubs[playerID]
	if !ok {
		hub = NewHub(playerID, m.logger)
		m.hubs[playerID] = hub
	}
	client := NewClient(hub, playerID)
	hub.Register(client)
	return client
}

// Disconnect unregisters the client and drops the hub once it is empty
func (m *HubManager) Disconnect(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	client.hub.Unregister(client)
	if hub, ok := m.hubs[client.playerID]; ok && hub == client.hub && hub.ClientCount() == 0 {
		delete(m.hubs, client.playerID)
	}
}

// GetHub returns the hub for a player, or nil if they have no open streams
func (m *HubManager) GetHub(playerID model.PlayerID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hubs[playerID]
}

// RemoveHub closes and forgets the player's hub
func (m *HubManager) RemoveHub(playerID model.PlayerID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[playerID]; ok {
		hub.Close()
		delete(m.hubs, playerID)
		m.logger.Info("sse hub removed", slog.String("player_id", string(playerID)))
	}
}

// HubCount returns the number of players with open streams
func (m *HubManager) HubCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.hubs)
}
