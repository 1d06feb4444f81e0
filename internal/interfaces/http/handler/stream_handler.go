package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/infrastructure/fanout"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

const heartbeatInterval = 30 * time.Second

// StreamHandler serves live stock updates over Server-Sent Events
type StreamHandler struct {
	BaseHandler
	hub *fanout.Hub
}

// NewStreamHandler creates the handler
func NewStreamHandler(hub *fanout.Hub, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		BaseHandler: NewBaseHandler(logger),
		hub:         hub,
	}
}

// Register mounts the stream routes
func (h *StreamHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/stores/:store_id/stock/stream", h.StreamStore)
	rg.GET("/stock/stream", h.StreamGlobal)
}

// StreamStore streams one store's stock updates
func (h *StreamHandler) StreamStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("store_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid store id")
		return
	}

	sub := h.hub.SubscribeStore(storeID)
	if sub == nil {
		h.Error(c, dto.ErrCodeRateLimited, "Too many connected clients")
		return
	}
	defer h.hub.Unsubscribe(sub)

	h.stream(c, sub)
}

// StreamGlobal streams stock updates and low-stock alerts across all
// stores
func (h *StreamHandler) StreamGlobal(c *gin.Context) {
	sub := h.hub.SubscribeGlobal()
	if sub == nil {
		h.Error(c, dto.ErrCodeRateLimited, "Too many connected clients")
		return
	}
	defer h.hub.Unsubscribe(sub)

	h.stream(c, sub)
}

func (h *StreamHandler) stream(c *gin.Context, sub *fanout.Subscription) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.logger.Warn("streaming unsupported by response writer")
		return
	}

	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"subscription_id\":%q}\n\n", sub.ID)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case msg, open := <-sub.C:
			if !open {
				return
			}
			data, err := json.Marshal(msg.Data)
			if err != nil {
				h.logger.Warn("failed to marshal stream payload", zap.Error(err))
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", msg.Event, data)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": heartbeat\n\n")
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
