package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
)

type memoryDoc struct {
	key     string
	payload []byte
}

type memorySub struct {
	ch   chan memoryDoc
	done chan struct{}
}

// MemoryStore keeps entries in process. Used for local development and tests.
type MemoryStore struct {
	mu     sync.Mutex
	docs   []memoryDoc
	keys   map[string]struct{}
	subs   map[int]*memorySub
	nextID int
	newKey func() string
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys:   make(map[string]struct{}),
		subs:   make(map[int]*memorySub),
		newKey: func() string { return uuid.New().String() },
	}
}

// Append stores the entry under a new UUID key.
func (s *MemoryStore) Append(ctx context.Context, entry *domain.DiaryEntry) (string, error) {
	data, err := domain.EncodeEntry(entry)
	if err != nil {
		return "", err
	}
	return s.appendRaw(ctx, s.newKey(), data)
}

// AppendRaw stores an arbitrary document. Tests use it to seed malformed history.
func (s *MemoryStore) AppendRaw(ctx context.Context, key string, payload []byte) error {
	_, err := s.appendRaw(ctx, key, payload)
	return err
}

func (s *MemoryStore) appendRaw(ctx context.Context, key string, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[key]; exists {
		return "", domain.ErrEntryKeyExists
	}
	doc := memoryDoc{key: key, payload: append([]byte(nil), payload...)}
	s.keys[key] = struct{}{}
	s.docs = append(s.docs, doc)

	for _, sub := range s.subs {
		select {
		case sub.ch <- doc:
		case <-sub.done:
		}
	}
	return key, nil
}

// Subscribe replays stored documents, sends EventSynced, then streams additions.
func (s *MemoryStore) Subscribe(ctx context.Context, h Handler) error {
	s.mu.Lock()
	history := make([]memoryDoc, len(s.docs))
	copy(history, s.docs)
	sub := &memorySub{ch: make(chan memoryDoc, 1024), done: make(chan struct{})}
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	defer func() {
		close(sub.done)
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}()

	for _, doc := range history {
		h(Event{Kind: EventAdded, Key: doc.key, Payload: doc.payload})
	}
	h(Event{Kind: EventSynced})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case doc := <-sub.ch:
			h(Event{Kind: EventAdded, Key: doc.key, Payload: doc.payload})
		}
	}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
