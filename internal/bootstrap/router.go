package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/imageanchor/artaday-backend/internal/api/http"
	"github.com/imageanchor/artaday-backend/internal/api/http/middleware"
	"github.com/imageanchor/artaday-backend/internal/auth"
	authmw "github.com/imageanchor/artaday-backend/internal/auth/middleware"
	diaryhttp "github.com/imageanchor/artaday-backend/internal/daily_art/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Backend        string
	AllowedOrigins []string
	Store          httpapi.Pinger
	Diary          *Diary

	// Verifier enforces Firebase ID tokens on the API when set.
	Verifier authmw.TokenVerifier
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Backend, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	if dep.Verifier != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Verifier))
	} else {
		api.Use(auth.OptionalUser())
	}

	diaryGroup := api.Group("/diary")
	diaryHandler := diaryhttp.New(dep.Diary.Gate, dep.Diary.Projection, dep.Diary.Sessions, dep.Diary.Wall)
	diaryHandler.Register(diaryGroup)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "X-User-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
