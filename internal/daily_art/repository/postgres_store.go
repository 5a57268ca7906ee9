package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/lib/pq"
)

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS diary_entries (
	seq        BIGSERIAL PRIMARY KEY,
	entry_key  TEXT NOT NULL UNIQUE,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps entries in the diary_entries table. Subscribers poll by sequence number.
type PostgresStore struct {
	db           *sql.DB
	pollInterval time.Duration
	newKey       func() string
}

// NewPostgresStore creates a PostgresStore
func NewPostgresStore(db *sql.DB, pollInterval time.Duration) *PostgresStore {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &PostgresStore{
		db:           db,
		pollInterval: pollInterval,
		newKey:       func() string { return uuid.New().String() },
	}
}

// EnsureSchema creates the entries table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createEntriesTable); err != nil {
		return fmt.Errorf("failed to create diary_entries: %w", err)
	}
	return nil
}

// Append inserts the entry under a new UUID key.
func (s *PostgresStore) Append(ctx context.Context, entry *domain.DiaryEntry) (string, error) {
	data, err := domain.EncodeEntry(entry)
	if err != nil {
		return "", err
	}

	key := s.newKey()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diary_entries (entry_key, payload) VALUES ($1, $2)`,
		key, data,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return "", domain.ErrEntryKeyExists
		}
		return "", fmt.Errorf("failed to insert entry: %w", err)
	}
	return key, nil
}

// seqLookback is how far below the highest seen sequence each poll re-reads.
// Sequence numbers are assigned at insert time, so concurrent writers can commit a
// lower seq after a higher one has already been read.
const seqLookback = 100

// Subscribe reads all rows, sends EventSynced, then polls for new rows. Each poll
// re-reads the last seqLookback sequence numbers and skips keys it already emitted.
func (s *PostgresStore) Subscribe(ctx context.Context, h Handler) error {
	cursor := newSeqCursor()
	synced := false

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		err := s.readSince(ctx, cursor, h)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			h(Event{Kind: EventError, Err: err})
		} else if !synced {
			synced = true
			h(Event{Kind: EventSynced})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// seqCursor remembers the keys emitted inside the lookback window.
type seqCursor struct {
	maxSeq int64
	seen   map[string]int64
}

func newSeqCursor() *seqCursor {
	return &seqCursor{seen: make(map[string]int64)}
}

func (c *seqCursor) floor() int64 {
	if c.maxSeq <= seqLookback {
		return 0
	}
	return c.maxSeq - seqLookback
}

// mark records key and reports whether it is new.
func (c *seqCursor) mark(seq int64, key string) bool {
	if _, ok := c.seen[key]; ok {
		return false
	}
	c.seen[key] = seq
	if seq > c.maxSeq {
		c.maxSeq = seq
	}
	return true
}

// prune drops keys that can no longer be returned by a poll.
func (c *seqCursor) prune() {
	floor := c.floor()
	for key, seq := range c.seen {
		if seq <= floor {
			delete(c.seen, key)
		}
	}
}

func (s *PostgresStore) readSince(ctx context.Context, cursor *seqCursor, h Handler) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, entry_key, payload FROM diary_entries WHERE seq > $1 ORDER BY seq`,
		cursor.floor(),
	)
	if err != nil {
		return fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq     int64
			key     string
			payload []byte
		)
		if err := rows.Scan(&seq, &key, &payload); err != nil {
			return fmt.Errorf("failed to scan entry: %w", err)
		}
		if cursor.mark(seq, key) {
			h(Event{Kind: EventAdded, Key: key, Payload: payload})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate entries: %w", err)
	}
	cursor.prune()
	return nil
}

// Ping checks the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
