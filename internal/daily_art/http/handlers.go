package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imageanchor/artaday-backend/internal/daily_art/service"
)

// GetGate reports whether today's entry may still be submitted
func (h *Handler) GetGate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"gate": h.gate.State()})
}

// SubmitEntry runs the entry pipeline through the session
func (h *Handler) SubmitEntry(c *gin.Context) {
	var body submitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess := h.sessionFor(c)
	entry, err := sess.Submit(c.Request.Context(), body.Query)
	if err != nil {
		writeError(c, "submit_entry", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":   toEntryResponse(entry, ""),
		"session": sess.Snapshot(),
	})
}

// ListEntries returns every decodable entry in date order
func (h *Handler) ListEntries(c *gin.Context) {
	stored := h.projection.Entries()
	entries := make([]entryResponse, 0, len(stored))
	for i := range stored {
		entries = append(entries, toEntryResponse(&stored[i].DiaryEntry, stored[i].Day.String()))
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
		"synced":  h.projection.Synced(),
	})
}

// GetWall returns the AR tile layout for the diary
func (h *Handler) GetWall(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"wall": h.wall.Build(h.projection.Entries())})
}

// GetSession returns the current session snapshot
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session": h.sessionFor(c).Snapshot()})
}

// DispatchEvent moves the session state machine
func (h *Handler) DispatchEvent(c *gin.Context) {
	var body eventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	snap, err := h.sessionFor(c).Dispatch(body.Event)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, gin.H{"error": err.Error(), "session": snap})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": snap})
}

// GetMetrics returns catalog, store and pipeline counters
func (h *Handler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": service.GetMetrics().Snapshot()})
}
