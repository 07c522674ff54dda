package services

import (
	"log"
	"net/http"
	"sync"
	"time"

	"agoge-backend/shared/config"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// TeamEvent is broadcast to a company's connected admins when its team
// changes.
type TeamEvent struct {
	Type      string    `json:"type"` // "member_invited", "member_removed"
	CompanyID uuid.UUID `json:"company_id"`
	Email     string    `json:"email,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TeamEventBroadcaster is the side-effect surface the team workflow uses.
type TeamEventBroadcaster interface {
	Broadcast(event TeamEvent)
}

// ClientConnection represents a client WebSocket connection
type ClientConnection struct {
	UserID     string
	CompanyID  uuid.UUID
	Connection *websocket.Conn
}

// WebSocketManager fans team events out to connected clients, scoped by
// company.
type WebSocketManager struct {
	clients    map[string]*ClientConnection // userID -> connection
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	register   chan *ClientConnection
	unregister chan *ClientConnection
	broadcast  chan TeamEvent
}

var wsManager *WebSocketManager
var once sync.Once

// GetWebSocketManager returns singleton WebSocket manager
func GetWebSocketManager() *WebSocketManager {
	once.Do(func() {
		wsManager = &WebSocketManager{
			clients: make(map[string]*ClientConnection),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					origin := r.Header.Get("Origin")
					if origin == "" || origin == config.GetConfig().FrontendURL {
						return true
					}
					log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
					return false
				},
			},
			register:   make(chan *ClientConnection, 100),
			unregister: make(chan *ClientConnection, 100),
			broadcast:  make(chan TeamEvent, 1000),
		}
		go wsManager.run()
	})
	return wsManager
}

// run handles WebSocket manager event loop
func (wsm *WebSocketManager) run() {
	for {
		select {
		case client := <-wsm.register:
			wsm.registerClient(client)

		case client := <-wsm.unregister:
			wsm.unregisterClient(client)

		case event := <-wsm.broadcast:
			wsm.broadcastEvent(event)
		}
	}
}

// HandleConnection upgrades the request and keeps the connection
// registered until the peer goes away.
func (wsm *WebSocketManager) HandleConnection(w http.ResponseWriter, r *http.Request, userID string, companyID uuid.UUID) {
	conn, err := wsm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed for %s: %v", userID, err)
		return
	}

	client := &ClientConnection{
		UserID:     userID,
		CompanyID:  companyID,
		Connection: conn,
	}
	wsm.register <- client

	// Drain reads until the peer closes so we notice disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wsm.unregister <- client
				return
			}
		}
	}()
}

// Broadcast queues a team event for delivery.
func (wsm *WebSocketManager) Broadcast(event TeamEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case wsm.broadcast <- event:
	default:
		log.Printf("⚠️ Team event channel full, dropping %s event for company %s", event.Type, event.CompanyID)
	}
}

// registerClient adds a new client connection
func (wsm *WebSocketManager) registerClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	// Close existing connection if any
	if existing, exists := wsm.clients[client.UserID]; exists {
		existing.Connection.Close()
	}

	wsm.clients[client.UserID] = client
	log.Printf("🔌 WebSocket client connected: %s (Total: %d)", client.UserID, len(wsm.clients))
}

// unregisterClient removes a client connection
func (wsm *WebSocketManager) unregisterClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	if _, exists := wsm.clients[client.UserID]; exists {
		delete(wsm.clients, client.UserID)
		client.Connection.Close()
		log.Printf("🔌 WebSocket client disconnected: %s (Total: %d)", client.UserID, len(wsm.clients))
	}
}

// broadcastEvent delivers an event to every client of the same company.
func (wsm *WebSocketManager) broadcastEvent(event TeamEvent) {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	for userID, client := range wsm.clients {
		if client.CompanyID != event.CompanyID {
			continue
		}
		if err := client.Connection.WriteJSON(event); err != nil {
			log.Printf("❌ Failed to deliver team event to %s: %v", userID, err)
		}
	}
}
