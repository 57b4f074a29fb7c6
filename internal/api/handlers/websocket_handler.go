// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"farm-catalog-server/internal/api/middleware"
	"farm-catalog-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Thời gian chờ tối đa cho một pong (hoặc tin nhắn) từ client.
	pongWait = 30 * time.Second
	// Server ping trước khi pongWait hết hạn.
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub *socket.Hub
}

// ServeWs đăng ký client vào Hub và giữ kết nối cho đến khi client ngắt.
// Client chỉ nhận sự kiện; mọi tin nhắn client gửi lên đều bị bỏ qua.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	lg := middleware.LoggerFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		lg.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	clientID := uuid.NewString()
	h.Hub.Register(clientID, conn)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.Hub.Unregister(clientID)
		conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// WriteControl được phép chạy song song với các lần ghi của Hub.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Vòng lặp đọc: cần để xử lý pong và phát hiện client đóng kết nối.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				lg.Info().Err(err).Str("client_id", clientID).Msg("websocket closed unexpectedly")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
