package cronjob

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/daily_art/service"
)

type countingGate struct {
	refreshes int
}

func (g *countingGate) Refresh() { g.refreshes++ }

func (g *countingGate) State() service.GateState {
	return service.GateState{CanSubmitToday: true, Known: true, Today: domain.CalendarDay{Year: 2024, Month: 3, Day: 11}}
}

func TestMidnightSpec(t *testing.T) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(MidnightSpec)
	require.NoError(t, err)

	loc := time.FixedZone("UTC-5", -5*3600)
	next := sched.Next(time.Date(2024, time.March, 10, 23, 59, 0, 0, loc))
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, loc), next)
}

func TestScheduler_Rollover(t *testing.T) {
	gate := &countingGate{}
	s := NewScheduler(gate, time.UTC)

	s.rollover()
	assert.Equal(t, 1, gate.refreshes)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(&countingGate{}, nil)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
