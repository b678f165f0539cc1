package handler

import (
	"io"
	"time"

	"campusnet/backend/internal/auth"
	"campusnet/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 25 * time.Second

// EventStream is the subscription side of the notification hub.
type EventStream interface {
	Subscribe(userID uint) hub.Client
	Unsubscribe(userID uint, client hub.Client)
}

type EventHandler struct {
	stream EventStream
}

func NewEventHandler(stream EventStream) *EventHandler {
	return &EventHandler{stream: stream}
}

// Stream godoc
// @Summary      Stream notifications
// @Description  Server-sent events for friend requests, accepted requests and comments on the caller's posts.
// @Tags         users
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string  "event stream"
// @Router       /users/me/events [get]
func (h *EventHandler) Stream(c *gin.Context) {
	userID := auth.UserID(c)
	client := h.stream.Subscribe(userID)
	defer h.stream.Unsubscribe(userID, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
