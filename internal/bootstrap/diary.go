package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/imageanchor/artaday-backend/config"
	cronjob "github.com/imageanchor/artaday-backend/internal/daily_art/cron"
	"github.com/imageanchor/artaday-backend/internal/daily_art/repository"
	"github.com/imageanchor/artaday-backend/internal/daily_art/service"
	"github.com/imageanchor/artaday-backend/internal/daily_art/session"
	"github.com/imageanchor/artaday-backend/internal/daily_art/wall"
	"github.com/imageanchor/artaday-backend/internal/logging"
)

// Diary wires the diary components around one entry store.
type Diary struct {
	Location   *time.Location
	Projection *service.Projection
	Gate       *service.DailyGate
	Pipeline   *service.Pipeline
	Sessions   *session.Registry
	Wall       *wall.Builder
	Scheduler  *cronjob.Scheduler

	cancel context.CancelFunc
	done   chan struct{}
}

// NewDiary builds the diary over store. Call Start to begin following the store.
func NewDiary(cfg *config.Config, store repository.EntryStore) (*Diary, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	catalog := service.NewCatalogClient(cfg.Catalog.BaseURL, service.CatalogClientOptions{
		Timeout:   cfg.Catalog.Timeout,
		RateLimit: cfg.Catalog.RateLimit,
		Burst:     cfg.Catalog.Burst,
	})

	proj := service.NewProjection(store)
	gate := service.NewDailyGate(proj, loc, nil)
	pipeline := service.NewPipeline(catalog, store, loc)

	return &Diary{
		Location:   loc,
		Projection: proj,
		Gate:       gate,
		Pipeline:   pipeline,
		Sessions:   session.NewRegistry(gate, pipeline),
		Wall:       wall.NewBuilder(cfg.Wall),
		Scheduler:  cronjob.NewScheduler(gate, loc),
	}, nil
}

// Start runs the projection in the background and schedules the midnight rollover.
func (d *Diary) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		if err := d.Projection.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logging.NewLogger(runCtx).LogError("projection_run", err)
		}
	}()

	return d.Scheduler.Start()
}

// WaitSynced blocks until the projection has seen the full history or ctx ends.
func (d *Diary) WaitSynced(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for !d.Projection.Synced() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Stop tears the diary down and waits for the projection to exit.
func (d *Diary) Stop(ctx context.Context) {
	d.Scheduler.Stop(ctx)
	d.Sessions.Close()
	d.Gate.Close()
	if d.cancel != nil {
		d.cancel()
		select {
		case <-d.done:
		case <-ctx.Done():
		}
	}
}
