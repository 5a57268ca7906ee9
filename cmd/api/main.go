package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/imageanchor/artaday-backend/config"
	"github.com/imageanchor/artaday-backend/internal/bootstrap"
)

const serviceName = "artaday-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := bootstrap.OpenResources(ctx, cfg)
	if err != nil {
		log.Fatalf("open resources: %v", err)
	}
	defer res.Close()

	diary, err := bootstrap.NewDiary(cfg, res.Store)
	if err != nil {
		log.Fatalf("diary: %v", err)
	}
	if err := diary.Start(context.Background()); err != nil {
		log.Fatalf("start diary: %v", err)
	}

	deps := bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Backend:        res.Backend,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Store:          res.Store,
		Diary:          diary,
	}
	if res.Auth != nil {
		deps.Verifier = res.Auth
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("%s %s listening on :%s (store=%s)", serviceName, cfg.App.Version, cfg.Server.Port, res.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	diary.Stop(shutdownCtx)

	log.Println("shutdown complete")
}
