// Package websocket streams live tally snapshots to admins watching an election.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

type roomMessage struct {
	electionID uint
	data       []byte
}

type Hub struct {
	// Connected clients grouped by election
	rooms map[uint]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Snapshots to fan out to a room
	broadcast chan roomMessage

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// Guards rooms for Subscribers; only Run mutates it
	mu sync.RWMutex
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		rooms:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.fanOut(msg)

		case <-h.ctx.Done():
			h.closeAll()
			slog.Info("WebSocket hub shutting down")
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[client.electionID] == nil {
		h.rooms[client.electionID] = make(map[*Client]bool)
	}
	h.rooms[client.electionID][client] = true

	slog.Info("Live tally client registered", "electionID", client.electionID, "userID", client.userID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	room, ok := h.rooms[client.electionID]
	if !ok || !room[client] {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, client.electionID)
	}
	close(client.send)
	slog.Debug("Live tally client unregistered", "electionID", client.electionID, "userID", client.userID)
}

func (h *Hub) fanOut(msg roomMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[msg.electionID] {
		select {
		case client.send <- msg.data:
		default:
			// slow consumer
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, room := range h.rooms {
		for client := range room {
			h.removeLocked(client)
		}
	}
}

// Subscribers returns how many clients watch electionID.
func (h *Hub) Subscribers(electionID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[electionID])
}

// Broadcast queues payload for every client watching electionID. It never
// blocks the caller; snapshots are dropped when the queue is full.
func (h *Hub) Broadcast(electionID uint, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal live tally", "electionID", electionID, "error", err)
		return
	}

	select {
	case h.broadcast <- roomMessage{electionID: electionID, data: data}:
	case <-h.ctx.Done():
	default:
		slog.Warn("Live tally queue full, dropping snapshot", "electionID", electionID)
	}
}
