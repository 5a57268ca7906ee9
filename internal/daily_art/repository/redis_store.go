package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/logging"
	"github.com/redis/go-redis/v9"
)

const (
	entryIndexSuffix = ":index" // Hash of entry key -> stream ID: {stream}:index
	fieldKey         = "key"
	fieldEntry       = "entry"
	readBatch        = 100
)

// RedisStore keeps entries in a Redis stream. The stream gives ordered replay for
// subscribers and the index hash guards key uniqueness.
type RedisStore struct {
	client     *redis.Client
	stream     string
	block      time.Duration
	retryDelay time.Duration
	newKey     func() string
}

// NewRedisStore creates a RedisStore over the given stream name
func NewRedisStore(client *redis.Client, stream string) *RedisStore {
	return &RedisStore{
		client:     client,
		stream:     stream,
		block:      5 * time.Second,
		retryDelay: 2 * time.Second,
		newKey:     func() string { return uuid.New().String() },
	}
}

// WithBlock sets how long a single XREAD waits for new entries.
func (r *RedisStore) WithBlock(d time.Duration) *RedisStore {
	r.block = d
	return r
}

// Append writes the entry under a new UUID key.
func (r *RedisStore) Append(ctx context.Context, entry *domain.DiaryEntry) (string, error) {
	data, err := domain.EncodeEntry(entry)
	if err != nil {
		return "", err
	}

	key := r.newKey()
	ok, err := r.client.HSetNX(ctx, r.indexKey(), key, "").Result()
	if err != nil {
		return "", fmt.Errorf("failed to reserve entry key: %w", err)
	}
	if !ok {
		return "", domain.ErrEntryKeyExists
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			fieldKey:   key,
			fieldEntry: string(data),
		},
	}).Result()
	if err != nil {
		if delErr := r.client.HDel(ctx, r.indexKey(), key).Err(); delErr != nil {
			logging.NewLogger(ctx).LogErrorf("redis_append", "failed to release key=%s: %v", key, delErr)
		}
		return "", fmt.Errorf("failed to append entry: %w", err)
	}

	// The entry is already in the stream; a missing stream ID only loses the index hint.
	if err := r.client.HSet(ctx, r.indexKey(), key, id).Err(); err != nil {
		logging.NewLogger(ctx).LogErrorf("redis_append", "failed to index key=%s id=%s: %v", key, id, err)
	}
	return key, nil
}

// Subscribe replays the stream with XRANGE, then follows it with blocking XREAD.
// After a read failure the whole stream is replayed again.
func (r *RedisStore) Subscribe(ctx context.Context, h Handler) error {
	for {
		lastID, err := r.replay(ctx, h)
		if err == nil {
			h(Event{Kind: EventSynced})
			err = r.follow(ctx, h, lastID)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		h(Event{Kind: EventError, Err: err})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.retryDelay):
		}
	}
}

func (r *RedisStore) replay(ctx context.Context, h Handler) (string, error) {
	lastID := "0"
	start := "-"
	for {
		msgs, err := r.client.XRangeN(ctx, r.stream, start, "+", readBatch).Result()
		if err != nil {
			return "", fmt.Errorf("failed to read entry history: %w", err)
		}
		for _, msg := range msgs {
			r.emit(msg, h)
			lastID = msg.ID
		}
		if len(msgs) < readBatch {
			return lastID, nil
		}
		start = "(" + lastID
	}
}

func (r *RedisStore) follow(ctx context.Context, h Handler, lastID string) error {
	for {
		streams, err := r.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{r.stream, lastID},
			Count:   readBatch,
			Block:   r.block,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read new entries: %w", err)
		}
		for _, s := range streams {
			for _, msg := range s.Messages {
				r.emit(msg, h)
				lastID = msg.ID
			}
		}
	}
}

func (r *RedisStore) emit(msg redis.XMessage, h Handler) {
	key, _ := msg.Values[fieldKey].(string)
	if key == "" {
		key = msg.ID
	}
	payload, _ := msg.Values[fieldEntry].(string)
	h(Event{Kind: EventAdded, Key: key, Payload: []byte(payload)})
}

// Ping checks the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) indexKey() string {
	return r.stream + entryIndexSuffix
}
