package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/events"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/pkg/logger"
)

const defaultHeartbeat = 30 * time.Second

// NotificationHandler streams hub events to browsers over server-sent events
type NotificationHandler struct {
	hub       *events.Hub
	heartbeat time.Duration
}

func NewNotificationHandler(hub *events.Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub, heartbeat: defaultHeartbeat}
}

// @Summary Subscribe to notifications
// @Description Opens a server-sent event stream; heartbeat comments keep idle proxies from closing it
// @Tags Notifications
// @Produce text/event-stream
// @Param userId query int false "User ID"
// @Router /notifications/subscribe [get]
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Query("userId"), 10, 32)
	sub := h.hub.Subscribe(uint(userID))
	defer h.hub.Unsubscribe(sub)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent("connected", gin.H{"connectionId": sub.ID})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("SSE client disconnected", "connection_id", sub.ID, "user_id", userID)
			return
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			c.SSEvent(msg.Event, string(msg.Data))
			c.Writer.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(c.Writer, ": heartbeat\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// @Summary Notification statistics
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /notifications/stats [get]
func (h *NotificationHandler) Stats(c *gin.Context) {
	response.OK(c, gin.H{
		"connections": h.hub.ConnectionCount(),
		"dropped":     h.hub.Dropped(),
	})
}
