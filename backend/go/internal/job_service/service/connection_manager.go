package service

import (
	"sync"

	"github.com/gorilla/websocket"
)

// ConnectionManager tracks the websocket subscribers of each user.
// A user may watch from several clients at once.
type ConnectionManager struct {
	connections map[string]map[*websocket.Conn]struct{}
	mu          sync.Mutex
}

// NewConnectionManager creates a new ConnectionManager.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// Add registers a connection for a user.
func (m *ConnectionManager) Add(userID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connections[userID] == nil {
		m.connections[userID] = make(map[*websocket.Conn]struct{})
	}
	m.connections[userID][conn] = struct{}{}
}

// Remove closes and forgets one connection of a user.
func (m *ConnectionManager) Remove(userID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conns, ok := m.connections[userID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		conn.Close()
		delete(conns, conn)
	}
	if len(conns) == 0 {
		delete(m.connections, userID)
	}
}

// Count returns the number of open connections for a user.
func (m *ConnectionManager) Count(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.connections[userID])
}

// SendMessage writes message to every connection of a user and reports how
// many writes succeeded. Connections that fail are dropped.
func (m *ConnectionManager) SendMessage(userID string, message []byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	sent := 0
	for conn := range m.connections[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			conn.Close()
			delete(m.connections[userID], conn)
			continue
		}
		sent++
	}
	if len(m.connections[userID]) == 0 {
		delete(m.connections, userID)
	}
	return sent
}
