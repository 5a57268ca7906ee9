package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/daily_art/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog records calls and returns canned results.
type fakeCatalog struct {
	mu          sync.Mutex
	ids         []int
	searchErr   error
	objects     map[int]*domain.ArtworkRecord
	objectErr   error
	searchCalls []string
	objectCalls []int
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.ids, nil
}

func (f *fakeCatalog) Object(ctx context.Context, id int) (*domain.ArtworkRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objectCalls = append(f.objectCalls, id)
	if f.objectErr != nil {
		return nil, f.objectErr
	}
	art, ok := f.objects[id]
	if !ok {
		return nil, &domain.NetworkError{Op: "catalog_object", StatusCode: 404, Err: errors.New("not found")}
	}
	return art, nil
}

type failingAppender struct{ err error }

func (f failingAppender) Append(ctx context.Context, entry *domain.DiaryEntry) (string, error) {
	return "", f.err
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 10, 14, 5, 33, 0, time.UTC)
}

func newCatalogWith(ids ...int) *fakeCatalog {
	objects := make(map[int]*domain.ArtworkRecord, len(ids))
	for _, id := range ids {
		objects[id] = &domain.ArtworkRecord{ObjectID: id, Title: "Object", PrimaryImageSmall: "https://img/small.jpg"}
	}
	return &fakeCatalog{ids: ids, objects: objects}
}

func TestPipeline_SubmitDailyEntry(t *testing.T) {
	catalog := newCatalogWith(11, 22, 33)
	store := repository.NewMemoryStore()
	pipeline := NewPipeline(catalog, store, time.UTC,
		WithClock(fixedClock),
		WithPicker(func(n int) int { return n - 1 }),
	)

	entry, err := pipeline.SubmitDailyEntry(context.Background(), "  rainy but content ")
	require.NoError(t, err)

	assert.Equal(t, []string{"  rainy but content "}, catalog.searchCalls)
	assert.Equal(t, []int{33}, catalog.objectCalls)
	assert.NotEmpty(t, entry.Key)
	assert.Equal(t, "3/10/2024, 2:05:33 PM", entry.TimeStamp)
	assert.Equal(t, 33, entry.DailyArt.ObjectID)
	assert.Equal(t, "  rainy but content ", entry.DailyQuery)
	assert.Equal(t, 1, store.Len())
}

func TestPipeline_EmptyInput(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t "} {
		catalog := newCatalogWith(1)
		store := repository.NewMemoryStore()
		pipeline := NewPipeline(catalog, store, time.UTC)

		_, err := pipeline.SubmitDailyEntry(context.Background(), q)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
		assert.Empty(t, catalog.searchCalls)
		assert.Empty(t, catalog.objectCalls)
		assert.Zero(t, store.Len())
	}
}

func TestPipeline_NoCandidates(t *testing.T) {
	catalog := &fakeCatalog{ids: []int{}}
	store := repository.NewMemoryStore()
	pipeline := NewPipeline(catalog, store, time.UTC)

	entry, err := pipeline.SubmitDailyEntry(context.Background(), "xyzzy")
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, domain.ErrNoCandidates)
	assert.Len(t, catalog.searchCalls, 1)
	assert.Empty(t, catalog.objectCalls)
	assert.Zero(t, store.Len())
}

func TestPipeline_SearchFailure(t *testing.T) {
	catalog := &fakeCatalog{searchErr: &domain.NetworkError{Op: "catalog_search", StatusCode: 503, Err: errors.New("unavailable")}}
	store := repository.NewMemoryStore()
	pipeline := NewPipeline(catalog, store, time.UTC)

	_, err := pipeline.SubmitDailyEntry(context.Background(), "joy")
	var netErr *domain.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, 503, netErr.StatusCode)
	assert.Empty(t, catalog.objectCalls)
	assert.Zero(t, store.Len())
}

func TestPipeline_DetailFailureIsNotRetried(t *testing.T) {
	catalog := newCatalogWith(1, 2)
	catalog.objectErr = &domain.DecodeError{Op: "catalog_object", Err: errors.New("bad shape")}
	store := repository.NewMemoryStore()
	pipeline := NewPipeline(catalog, store, time.UTC, WithPicker(func(int) int { return 0 }))

	_, err := pipeline.SubmitDailyEntry(context.Background(), "joy")
	var decErr *domain.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, []int{1}, catalog.objectCalls)
	assert.Zero(t, store.Len())
}

func TestPipeline_PersistFailure(t *testing.T) {
	catalog := newCatalogWith(7)
	pipeline := NewPipeline(catalog, failingAppender{err: errors.New("permission denied")}, time.UTC)

	entry, err := pipeline.SubmitDailyEntry(context.Background(), "joy")
	assert.Nil(t, entry)

	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "append", storeErr.Op)
}

func TestPipeline_PickIsUniform(t *testing.T) {
	catalog := newCatalogWith(1, 2, 3)
	store := repository.NewMemoryStore()
	pipeline := NewPipeline(catalog, store, time.UTC)

	seen := make(map[int]int)
	for i := 0; i < 300; i++ {
		entry, err := pipeline.SubmitDailyEntry(context.Background(), "any")
		require.NoError(t, err)
		seen[entry.DailyArt.ObjectID]++
	}
	assert.Len(t, seen, 3)
	for id, n := range seen {
		assert.Greater(t, n, 30, "object %d picked too rarely", id)
	}
}

func TestPipeline_RecordsMetrics(t *testing.T) {
	ResetMetrics()
	defer ResetMetrics()

	pipeline := NewPipeline(newCatalogWith(1), repository.NewMemoryStore(), time.UTC)
	_, err := pipeline.SubmitDailyEntry(context.Background(), "ok")
	require.NoError(t, err)
	_, err = pipeline.SubmitDailyEntry(context.Background(), " ")
	require.Error(t, err)

	m := GetMetrics().Snapshot()
	assert.Equal(t, int64(2), m.PipelineRuns)
	assert.Equal(t, int64(1), m.PipelineFailures)
	assert.Equal(t, int64(1), m.StoreWrites)
}
