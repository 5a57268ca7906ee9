package service

import (
	"context"
	"sync"
	"time"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/logging"
)

// CanSubmit reports whether no entry in history falls on today.
func CanSubmit(history []domain.CalendarDay, today domain.CalendarDay) bool {
	for _, day := range history {
		if day == today {
			return false
		}
	}
	return true
}

// GateState is the observable state of the daily gate.
type GateState struct {
	CanSubmitToday bool               `json:"can_submit_today"`
	Known          bool               `json:"known"`
	Today          domain.CalendarDay `json:"today"`
}

// DailyGate decides whether today's entry may still be submitted, from the full
// history held by the projection. Until the projection has synced, the gate is closed.
type DailyGate struct {
	proj *Projection
	loc  *time.Location
	now  func() time.Time

	// refreshMu serializes Refresh so a fold over older history never overwrites a newer one.
	refreshMu sync.Mutex

	mu        sync.RWMutex
	state     GateState
	listeners map[int]func(GateState)
	nextID    int
	detach    func()
}

// NewDailyGate creates a gate over proj and re-evaluates it on every projection change.
// A nil now uses time.Now.
func NewDailyGate(proj *Projection, loc *time.Location, now func() time.Time) *DailyGate {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	g := &DailyGate{
		proj:      proj,
		loc:       loc,
		now:       now,
		listeners: make(map[int]func(GateState)),
	}
	g.state.Today = domain.DayOf(now(), loc)
	g.detach = proj.OnChange(g.Refresh)
	g.Refresh()
	return g
}

// CanSubmitToday reports the current gate value.
func (g *DailyGate) CanSubmitToday() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.CanSubmitToday
}

// State returns a copy of the gate state.
func (g *DailyGate) State() GateState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Refresh recomputes the gate against the current date. It is called on every
// projection change and at local midnight.
func (g *DailyGate) Refresh() {
	g.refreshMu.Lock()
	defer g.refreshMu.Unlock()

	today := domain.DayOf(g.now(), g.loc)

	next := GateState{Today: today}
	if g.proj.Synced() {
		next.Known = true
		next.CanSubmitToday = CanSubmit(g.proj.Days(), today)
	}

	g.mu.Lock()
	changed := next != g.state
	g.state = next
	fns := make([]func(GateState), 0, len(g.listeners))
	if changed {
		for _, fn := range g.listeners {
			fns = append(fns, fn)
		}
	}
	g.mu.Unlock()

	if changed {
		logging.NewLogger(context.Background()).LogInfof("daily_gate", "today=%s known=%t can_submit=%t", today, next.Known, next.CanSubmitToday)
	}
	for _, fn := range fns {
		fn(next)
	}
}

// OnChange registers fn to run whenever the gate state changes.
func (g *DailyGate) OnChange(fn func(GateState)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

// Close detaches the gate from the projection.
func (g *DailyGate) Close() {
	if g.detach != nil {
		g.detach()
	}
}
