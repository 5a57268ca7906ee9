package repository

import (
	"context"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
)

// EventKind tells a subscriber what an Event carries.
type EventKind int

const (
	// EventAdded carries one stored document.
	EventAdded EventKind = iota
	// EventSynced marks the end of the history replay. It is sent again after a reconnect.
	EventSynced
	// EventError reports a failure reading from the store. The subscription keeps retrying.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventSynced:
		return "synced"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one notification from a store subscription. Payload is the raw document
// as written by Append; decoding is left to the subscriber.
type Event struct {
	Kind    EventKind
	Key     string
	Payload []byte
	Err     error
}

// Handler receives subscription events. It is called from a single goroutine per subscription.
type Handler func(Event)

// EntryStore is an append-only document collection of diary entries.
type EntryStore interface {
	// Append writes entry under a freshly generated key and returns that key.
	// An existing key is never overwritten.
	Append(ctx context.Context, entry *domain.DiaryEntry) (string, error)
	// Subscribe delivers every stored document, then EventSynced, then every later
	// addition, until ctx is done. Documents may be delivered again after a reconnect.
	Subscribe(ctx context.Context, h Handler) error
	Ping(ctx context.Context) error
}
