// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 5 * time.Second
	// Số sự kiện tối đa chờ gửi cho mỗi client.
	sendBuffer = 16
)

// Các loại sự kiện thay đổi danh mục được gửi tới client.
const (
	FarmCreated    = "farm.created"
	FarmDeleted    = "farm.deleted"
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// Event is one catalog change, sent to clients as JSON.
type Event struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Hub quản lý tất cả các client WebSocket đang theo dõi danh mục.
type Hub struct {
	// clients là map lưu các client, key là id ngẫu nhiên của client.
	clients map[string]*client
	mu      sync.Mutex
}

// client có một goroutine ghi riêng; Broadcast chỉ đẩy vào hàng đợi send.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub tạo một Hub mới.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Register thêm một client mới vào Hub và khởi động goroutine ghi của nó.
func (h *Hub) Register(clientID string, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if old, ok := h.clients[clientID]; ok {
		close(old.send)
	}
	h.clients[clientID] = c
	h.mu.Unlock()

	go h.writePump(clientID, c)
	log.Debug().Str("client_id", clientID).Msg("websocket client registered")
}

// Unregister xóa một client khỏi Hub. Goroutine ghi của client sẽ đóng kết nối.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		delete(h.clients, clientID)
		close(c.send)
		log.Debug().Str("client_id", clientID).Msg("websocket client unregistered")
	}
}

// remove is Unregister for one specific client, so a stale writer cannot drop
// a newer client registered under the same id.
func (h *Hub) remove(clientID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[clientID]; ok && cur == c {
		delete(h.clients, clientID)
		close(c.send)
	}
}

// Count returns the number of registered clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast đưa sự kiện vào hàng đợi của mọi client mà không chờ ghi.
// Client có hàng đợi đầy (không đọc kịp) bị loại khỏi Hub.
func (h *Hub) Broadcast(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("failed to encode catalog event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Warn().Str("client_id", id).Msg("dropping slow websocket client")
			delete(h.clients, id)
			close(c.send)
		}
	}
}

func (h *Hub) writePump(clientID string, c *client) {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Warn().Err(err).Str("client_id", clientID).Msg("dropping websocket client")
			h.remove(clientID, c)
			return
		}
	}
}
