package session

import (
	"context"
	"sync"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/daily_art/service"
	"github.com/imageanchor/artaday-backend/internal/logging"
)

// State is the screen the client should show.
type State string

const (
	StateMenu      State = "menu"
	StateAddEntry  State = "add_entry"
	StateViewToday State = "view_today"
	StateViewDiary State = "view_diary"
)

// Event is a user action that moves between states.
type Event string

const (
	EventOpenAddEntry Event = "open_add_entry"
	EventOpenDiary    Event = "open_diary"
	EventViewToday    Event = "view_today"
	EventReturnToMenu Event = "return_to_menu"
)

// Snapshot is the read-only view handed to the rendering layer.
type Snapshot struct {
	State          State                 `json:"state"`
	CanSubmitToday bool                  `json:"can_submit_today"`
	GateKnown      bool                  `json:"gate_known"`
	Submitting     bool                  `json:"submitting"`
	HasSubmitted   bool                  `json:"has_submitted"`
	TodaysArt      *domain.ArtworkRecord `json:"todays_art,omitempty"`
	TodaysQuery    string                `json:"todays_query,omitempty"`
	LastError      string                `json:"last_error,omitempty"`
	Version        uint64                `json:"version"`
}

// Gate is the view of the daily gate the controller needs.
type Gate interface {
	State() service.GateState
	OnChange(fn func(service.GateState)) func()
}

// Submitter runs the entry pipeline.
type Submitter interface {
	SubmitDailyEntry(ctx context.Context, query string) (*domain.DiaryEntry, error)
}

// Controller owns the session state machine. All transitions go through it.
type Controller struct {
	gate      Gate
	submitter Submitter

	mu          sync.Mutex
	snap        Snapshot
	submittedOn domain.CalendarDay
	subs        map[int]chan Snapshot
	nextID      int
	detach      func()
}

// NewController creates a controller in the menu state and follows gate changes.
func NewController(gate Gate, submitter Submitter) *Controller {
	c := &Controller{
		gate:      gate,
		submitter: submitter,
		subs:      make(map[int]chan Snapshot),
	}
	gs := gate.State()
	c.snap = Snapshot{
		State:          StateMenu,
		CanSubmitToday: gs.CanSubmitToday,
		GateKnown:      gs.Known,
	}
	c.detach = gate.OnChange(c.onGateChange)
	return c
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copySnapshot()
}

// Subscribe returns a channel that receives the current snapshot and every later one.
// Slow readers only see the latest snapshot. Call the returned func to unsubscribe.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- c.copySnapshot()
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Dispatch applies ev to the state machine.
func (c *Controller) Dispatch(ev Event) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.transition(ev)
	if err != nil {
		return c.copySnapshot(), err
	}
	c.snap.State = next
	c.snap.LastError = ""
	c.publishLocked()
	return c.copySnapshot(), nil
}

func (c *Controller) transition(ev Event) (State, error) {
	switch c.snap.State {
	case StateMenu:
		switch ev {
		case EventOpenAddEntry:
			if !c.snap.GateKnown {
				return "", domain.ErrGateNotReady
			}
			if !c.snap.CanSubmitToday {
				return "", domain.ErrAlreadySubmittedToday
			}
			return StateAddEntry, nil
		case EventOpenDiary:
			return StateViewDiary, nil
		}
	case StateAddEntry:
		switch ev {
		case EventViewToday:
			if !c.snap.HasSubmitted || c.snap.TodaysArt == nil {
				return "", domain.ErrNoEntryToday
			}
			return StateViewToday, nil
		case EventReturnToMenu:
			return StateMenu, nil
		}
	case StateViewToday:
		switch ev {
		case EventOpenDiary:
			return StateViewDiary, nil
		case EventReturnToMenu:
			return StateMenu, nil
		}
	case StateViewDiary:
		if ev == EventReturnToMenu {
			return StateMenu, nil
		}
	}
	return "", domain.ErrInvalidTransition
}

// Submit runs the pipeline for query. It is only accepted on the add-entry screen,
// while the gate is open, with no other submission in flight and none made yet.
func (c *Controller) Submit(ctx context.Context, query string) (*domain.DiaryEntry, error) {
	c.mu.Lock()
	switch {
	case c.snap.State != StateAddEntry:
		c.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	case c.snap.Submitting:
		c.mu.Unlock()
		return nil, domain.ErrSubmissionInProgress
	case !c.snap.GateKnown:
		c.mu.Unlock()
		return nil, domain.ErrGateNotReady
	case c.snap.HasSubmitted || !c.snap.CanSubmitToday:
		c.mu.Unlock()
		return nil, domain.ErrAlreadySubmittedToday
	}
	c.snap.Submitting = true
	c.snap.LastError = ""
	c.publishLocked()
	c.mu.Unlock()

	entry, err := c.submitter.SubmitDailyEntry(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.Submitting = false
	if err != nil {
		logging.NewLogger(ctx).LogError("session_submit", err)
		c.snap.LastError = err.Error()
		c.publishLocked()
		return nil, err
	}

	art := entry.DailyArt
	if day, err := domain.ParseCalendarDay(entry.TimeStamp); err == nil {
		c.submittedOn = day
	}
	c.snap.HasSubmitted = true
	c.snap.TodaysArt = &art
	c.snap.TodaysQuery = entry.DailyQuery
	c.publishLocked()
	return entry, nil
}

// Close stops following the gate and drops all subscribers.
func (c *Controller) Close() {
	if c.detach != nil {
		c.detach()
	}
	c.mu.Lock()
	c.subs = make(map[int]chan Snapshot)
	c.mu.Unlock()
}

func (c *Controller) onGateChange(gs service.GateState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.CanSubmitToday = gs.CanSubmitToday
	c.snap.GateKnown = gs.Known
	// A new day starts a fresh submission cycle.
	if c.snap.HasSubmitted && gs.Today != c.submittedOn && c.snap.State != StateViewToday {
		c.snap.HasSubmitted = false
		c.snap.TodaysArt = nil
		c.snap.TodaysQuery = ""
	}
	c.publishLocked()
}

func (c *Controller) copySnapshot() Snapshot {
	s := c.snap
	if s.TodaysArt != nil {
		art := *s.TodaysArt
		s.TodaysArt = &art
	}
	return s
}

// publishLocked bumps the version and fans out. c.mu must be held.
func (c *Controller) publishLocked() {
	c.snap.Version++
	snap := c.copySnapshot()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
