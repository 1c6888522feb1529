package handler

import (
	"net/http"

	"civicgo/backend/internal/livehub"
	"civicgo/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS для WebSocket вирішується на рівні reverse proxy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveFeed оновлює HTTP-з'єднання до WebSocket і підписує адміна на
// живу стрічку подій скарг. Авторизація (роль ADMIN) вже перевірена
// конвеєром до цього моменту.
func (h *Handler) LiveFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &livehub.WebSocketClient{
		ID:   uuid.New().String(),
		Hub:  h.Hub,
		Conn: conn,
		Send: make(chan models.ComplaintEvent, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
