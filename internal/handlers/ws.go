package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub fans task events out to the WebSocket connections watching a project.
type Hub struct {
	connections map[uuid.UUID]map[*websocket.Conn]bool
	mutex       sync.Mutex
}

func NewHub() *Hub {
	return &Hub{connections: make(map[uuid.UUID]map[*websocket.Conn]bool)}
}

// BroadcastTaskEvent sends a task event to every connection watching the
// project. Dead connections are dropped on write failure.
func (hub *Hub) BroadcastTaskEvent(projectID uuid.UUID, event string, task *models.Task) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	conns, exists := hub.connections[projectID]
	if !exists {
		return
	}

	message, err := json.Marshal(map[string]any{
		"event":   event,
		"task_id": task.ID,
		"title":   task.Title,
		"status":  task.Status,
	})
	if err != nil {
		log.Printf("marshal task event: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("send websocket message: %v", err)
			delete(conns, conn)
			conn.Close()
		}
	}
}

// HandleWebSocket upgrades the connection and subscribes it to the project
// in ?project_id. Only the project's owner may subscribe.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		seeOther(w, r, "/login/")
		return
	}
	projectID, err := uuid.Parse(r.URL.Query().Get("project_id"))
	if err != nil {
		sendError(w, "project_id is required (uuid)", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Projects.GetForOwner(ctx, projectID, userID); err != nil {
		sendRepoError(w, err, "project")
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten for production origins
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.Hub.mutex.Lock()
	if h.Hub.connections[projectID] == nil {
		h.Hub.connections[projectID] = make(map[*websocket.Conn]bool)
	}
	h.Hub.connections[projectID][conn] = true
	h.Hub.mutex.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Hub.mutex.Lock()
			delete(h.Hub.connections[projectID], conn)
			h.Hub.mutex.Unlock()
			conn.Close()
			return
		}
		// clients only listen; incoming messages are ignored
	}
}
