package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"firebase.google.com/go/v4/db"
	"github.com/google/uuid"
	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
)

// documentTree is the part of the Realtime Database the store relies on.
type documentTree interface {
	Children(ctx context.Context) (map[string]json.RawMessage, error)
	CreateChild(ctx context.Context, key string, payload json.RawMessage) error
}

type rtdbTree struct {
	ref *db.Ref
}

func (t rtdbTree) Children(ctx context.Context) (map[string]json.RawMessage, error) {
	var children map[string]json.RawMessage
	if err := t.ref.Get(ctx, &children); err != nil {
		return nil, err
	}
	return children, nil
}

// CreateChild writes payload at key inside a transaction that aborts if the key is taken.
func (t rtdbTree) CreateChild(ctx context.Context, key string, payload json.RawMessage) error {
	return t.ref.Child(key).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var existing interface{}
		if err := node.Unmarshal(&existing); err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrEntryKeyExists
		}
		return payload, nil
	})
}

// FirebaseStore keeps entries as children of a Realtime Database path, keyed by UUID.
// The admin SDK has no change listeners, so subscribers poll the path.
type FirebaseStore struct {
	tree         documentTree
	pollInterval time.Duration
	newKey       func() string
}

// NewFirebaseStore creates a FirebaseStore rooted at rootPath
func NewFirebaseStore(client *db.Client, rootPath string, pollInterval time.Duration) *FirebaseStore {
	if rootPath == "" {
		rootPath = "/"
	}
	return newFirebaseStore(rtdbTree{ref: client.NewRef(rootPath)}, pollInterval)
}

func newFirebaseStore(tree documentTree, pollInterval time.Duration) *FirebaseStore {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &FirebaseStore{
		tree:         tree,
		pollInterval: pollInterval,
		newKey:       func() string { return uuid.New().String() },
	}
}

// Append writes the entry under a new UUID child.
func (s *FirebaseStore) Append(ctx context.Context, entry *domain.DiaryEntry) (string, error) {
	data, err := domain.EncodeEntry(entry)
	if err != nil {
		return "", err
	}

	key := s.newKey()
	if err := s.tree.CreateChild(ctx, key, json.RawMessage(data)); err != nil {
		if errors.Is(err, domain.ErrEntryKeyExists) {
			return "", domain.ErrEntryKeyExists
		}
		return "", fmt.Errorf("failed to write entry: %w", err)
	}
	return key, nil
}

// Subscribe fetches the whole path on every tick and emits children it has not seen.
func (s *FirebaseStore) Subscribe(ctx context.Context, h Handler) error {
	seen := make(map[string]struct{})
	synced := false

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		children, err := s.tree.Children(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			h(Event{Kind: EventError, Err: fmt.Errorf("failed to read entries: %w", err)})
		} else {
			keys := make([]string, 0, len(children))
			for k := range children {
				if _, ok := seen[k]; !ok {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			for _, k := range keys {
				seen[k] = struct{}{}
				h(Event{Kind: EventAdded, Key: k, Payload: children[k]})
			}
			if !synced {
				synced = true
				h(Event{Kind: EventSynced})
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Ping reads the root path.
func (s *FirebaseStore) Ping(ctx context.Context) error {
	_, err := s.tree.Children(ctx)
	return err
}
