package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/logging"
)

// Catalog resolves phrases to artworks.
type Catalog interface {
	Search(ctx context.Context, query string) ([]int, error)
	Object(ctx context.Context, objectID int) (*domain.ArtworkRecord, error)
}

// EntryAppender persists a diary entry under a new key.
type EntryAppender interface {
	Append(ctx context.Context, entry *domain.DiaryEntry) (string, error)
}

// Pipeline runs search -> pick -> detail fetch -> persist for one submission.
type Pipeline struct {
	catalog Catalog
	store   EntryAppender
	loc     *time.Location
	now     func() time.Time
	pick    func(n int) int
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// WithPicker overrides the candidate selection. pick(n) must return a value in [0, n).
func WithPicker(pick func(n int) int) PipelineOption {
	return func(p *Pipeline) { p.pick = pick }
}

// NewPipeline creates a Pipeline. Timestamps are rendered in loc.
func NewPipeline(catalog Catalog, store EntryAppender, loc *time.Location, opts ...PipelineOption) *Pipeline {
	if loc == nil {
		loc = time.Local
	}
	p := &Pipeline{
		catalog: catalog,
		store:   store,
		loc:     loc,
		now:     time.Now,
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SubmitDailyEntry resolves query to an artwork and appends the entry exactly once.
// Every failure is terminal for the run; nothing is retried.
func (p *Pipeline) SubmitDailyEntry(ctx context.Context, query string) (entry *domain.DiaryEntry, err error) {
	logger := logging.NewLogger(ctx)
	defer func() { recordPipelineRun(err) }()

	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyInput
	}

	ids, err := p.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(ids) == 0 {
		logger.LogWarnf("submit_daily_entry", "no candidates for query=%q", query)
		return nil, domain.ErrNoCandidates
	}

	objectID := ids[p.pick(len(ids))]

	art, err := p.catalog.Object(ctx, objectID)
	if err != nil {
		return nil, fmt.Errorf("fetch object %d: %w", objectID, err)
	}

	entry = &domain.DiaryEntry{
		TimeStamp:  domain.FormatTimestamp(p.now(), p.loc),
		DailyArt:   *art,
		DailyQuery: query,
	}

	key, err := p.store.Append(ctx, entry)
	recordStoreWrite(err)
	if err != nil {
		return nil, &domain.StoreError{Op: "append", Err: err}
	}
	entry.Key = key

	logger.LogInfof("submit_daily_entry", "stored key=%s object_id=%d title=%q", key, art.ObjectID, art.Title)
	return entry, nil
}
