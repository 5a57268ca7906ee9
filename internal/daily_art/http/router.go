package http

import "github.com/gin-gonic/gin"

// Register registers the diary routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/gate", h.GetGate)
	rg.POST("/entries", h.SubmitEntry)
	rg.GET("/entries", h.ListEntries)
	rg.GET("/wall", h.GetWall)
	rg.GET("/session", h.GetSession)
	rg.POST("/session/events", h.DispatchEvent)
	rg.GET("/session/stream", h.StreamSession)
	rg.GET("/metrics", h.GetMetrics)
}
