package service

import (
	"context"
	"sort"
	"sync"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/daily_art/repository"
	"github.com/imageanchor/artaday-backend/internal/logging"
)

// Projection folds the store subscription into one cached, de-duplicated view of all
// entries. The gate, the session and the wall all read from it.
type Projection struct {
	store repository.EntryStore

	mu        sync.RWMutex
	entries   map[string]*domain.StoredEntry
	synced    bool
	lastErr   error
	listeners map[int]func()
	nextID    int
}

// NewProjection creates a projection over store. Call Run to start folding.
func NewProjection(store repository.EntryStore) *Projection {
	return &Projection{
		store:     store,
		entries:   make(map[string]*domain.StoredEntry),
		listeners: make(map[int]func()),
	}
}

// Run subscribes to the store until ctx is done.
func (p *Projection) Run(ctx context.Context) error {
	return p.store.Subscribe(ctx, p.Apply)
}

// Apply folds a single store event. Exposed so callers can drive the projection directly.
func (p *Projection) Apply(ev repository.Event) {
	logger := logging.NewLogger(context.Background())

	switch ev.Kind {
	case repository.EventAdded:
		entry, err := domain.DecodeEntry(ev.Key, ev.Payload)
		if err != nil {
			recordSkippedEntry()
			logger.LogWarnf("projection", "skipping entry key=%s: %v", ev.Key, err)
			return
		}
		p.mu.Lock()
		if _, dup := p.entries[ev.Key]; dup {
			p.mu.Unlock()
			return
		}
		p.entries[ev.Key] = entry
		p.mu.Unlock()

	case repository.EventSynced:
		p.mu.Lock()
		p.synced = true
		p.lastErr = nil
		n := len(p.entries)
		p.mu.Unlock()
		logger.LogInfof("projection", "synced entries=%d", n)

	case repository.EventError:
		recordStoreReadError()
		logger.LogError("projection", ev.Err)
		p.mu.Lock()
		p.lastErr = ev.Err
		p.mu.Unlock()
		// The last known view stays in place.
		return

	default:
		return
	}

	p.notify()
}

// Entries returns all entries sorted by calendar day, time of day, then key.
func (p *Projection) Entries() []domain.StoredEntry {
	p.mu.RLock()
	out := make([]domain.StoredEntry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, *e)
	}
	p.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Day != b.Day {
			return a.Day.Before(b.Day)
		}
		sa, sb := domain.SecondOfDay(a.TimeStamp), domain.SecondOfDay(b.TimeStamp)
		if sa != sb {
			return sa < sb
		}
		return a.Key < b.Key
	})
	return out
}

// Days returns the calendar day of every entry, in no particular order.
func (p *Projection) Days() []domain.CalendarDay {
	p.mu.RLock()
	defer p.mu.RUnlock()
	days := make([]domain.CalendarDay, 0, len(p.entries))
	for _, e := range p.entries {
		days = append(days, e.Day)
	}
	return days
}

// Synced reports whether the store has delivered its full history at least once.
func (p *Projection) Synced() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.synced
}

// Len returns the number of decoded entries.
func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// LastError returns the most recent store read error since the last sync.
func (p *Projection) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// OnChange registers fn to run after every change. The returned func unregisters it.
func (p *Projection) OnChange(fn func()) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Projection) notify() {
	p.mu.RLock()
	fns := make([]func(), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
