package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 15 * time.Second

// StreamSession streams session snapshots using Server-Sent Events (SSE)
func (h *Handler) StreamSession(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	updates, cancel := h.sessionFor(c).Subscribe()
	defer cancel()

	ctx := c.Request.Context()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	event := "initial"
	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case snap := <-updates:
			data, _ := json.Marshal(gin.H{"session": snap})
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(data))
			flusher.Flush()
			event = "update"
		}
	}
}
