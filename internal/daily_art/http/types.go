package http

import (
	"github.com/gin-gonic/gin"

	"github.com/imageanchor/artaday-backend/internal/auth"
	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/daily_art/service"
	"github.com/imageanchor/artaday-backend/internal/daily_art/session"
	"github.com/imageanchor/artaday-backend/internal/daily_art/wall"
)

// Handler handles HTTP requests for the diary
type Handler struct {
	gate       *service.DailyGate
	projection *service.Projection
	sessions   *session.Registry
	wall       *wall.Builder
}

// New creates a new Handler
func New(gate *service.DailyGate, projection *service.Projection, sessions *session.Registry, wallBuilder *wall.Builder) *Handler {
	return &Handler{
		gate:       gate,
		projection: projection,
		sessions:   sessions,
		wall:       wallBuilder,
	}
}

// sessionFor returns the caller's state machine.
func (h *Handler) sessionFor(c *gin.Context) *session.Controller {
	return h.sessions.For(auth.UserFirebaseUID(c))
}

type submitRequest struct {
	Query string `json:"query"`
}

type eventRequest struct {
	Event session.Event `json:"event" binding:"required"`
}

// entryResponse exposes the store key next to the persisted fields.
type entryResponse struct {
	Key        string               `json:"key"`
	TimeStamp  string               `json:"timeStamp"`
	DailyArt   domain.ArtworkRecord `json:"dailyArt"`
	DailyQuery string               `json:"dailyQuery"`
	Day        string               `json:"day,omitempty"`
}

func toEntryResponse(e *domain.DiaryEntry, day string) entryResponse {
	return entryResponse{
		Key:        e.Key,
		TimeStamp:  e.TimeStamp,
		DailyArt:   e.DailyArt,
		DailyQuery: e.DailyQuery,
		Day:        day,
	}
}
