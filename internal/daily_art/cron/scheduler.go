package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/imageanchor/artaday-backend/internal/daily_art/service"
	"github.com/imageanchor/artaday-backend/internal/logging"
)

// MidnightSpec fires at 00:00:00 every day, in the scheduler's location.
const MidnightSpec = "0 0 0 * * *"

// GateRefresher is the part of the daily gate the scheduler drives.
type GateRefresher interface {
	Refresh()
	State() service.GateState
}

type Scheduler struct {
	gate GateRefresher
	loc  *time.Location
	cron *cron.Cron
}

func NewScheduler(gate GateRefresher, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{gate: gate, loc: loc}
}

// Start initializes cron tasks
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds(), cron.WithLocation(s.loc))

	// Reopen the gate at local midnight.
	if _, err := c.AddFunc(MidnightSpec, s.rollover); err != nil {
		return err
	}

	s.cron = c
	c.Start()
	logging.NewLogger(context.Background()).LogInfof("cron_start", "gate rollover scheduled at midnight %s", s.loc)
	return nil
}

// Stop waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// rollover re-evaluates the gate against the new calendar day.
func (s *Scheduler) rollover() {
	s.gate.Refresh()
	st := s.gate.State()
	logging.NewLogger(context.Background()).LogInfof("gate_rollover", "today=%s can_submit=%t known=%t",
		st.Today, st.CanSubmitToday, st.Known)
}
