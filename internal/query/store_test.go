package query_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/pwalczak/flashdeck/internal/models"
	"github.com/pwalczak/flashdeck/internal/query"
)

// fakeAPI counts calls and lets tests control fetch outcomes and timing.
type fakeAPI struct {
	mu          sync.Mutex
	listCalls   int32
	listErr     error
	listDelay   time.Duration
	createErr   error
	updateErr   error
	deleteErr   error
	deleteCalls int32
}

func (f *fakeAPI) ListFlashcards(ctx context.Context, page, pageSize int) (*models.FlashcardList, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.listDelay > 0 {
		time.Sleep(f.listDelay)
	}
	f.mu.Lock()
	err := f.listErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &models.FlashcardList{
		Data:       []models.Flashcard{{ID: fmt.Sprintf("card-%d-%d", page, pageSize), Front: "Q", Back: "A"}},
		Pagination: models.NewPagination(page, pageSize, 1),
	}, nil
}

func (f *fakeAPI) CreateFlashcard(ctx context.Context, cmd models.CreateFlashcardCommand) (*models.Flashcard, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Flashcard{ID: "created", Front: cmd.Front, Back: cmd.Back}, nil
}

func (f *fakeAPI) UpdateFlashcard(ctx context.Context, id string, cmd models.UpdateFlashcardCommand) (*models.Flashcard, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Flashcard{ID: id}, nil
}

func (f *fakeAPI) DeleteFlashcard(ctx context.Context, id string) error {
	atomic.AddInt32(&f.deleteCalls, 1)
	return f.deleteErr
}

func (f *fakeAPI) calls() int {
	return int(atomic.LoadInt32(&f.listCalls))
}

func TestGetCachesPerKey(t *testing.T) {
	api := &fakeAPI{}
	store := query.NewStore(api)
	ctx := context.Background()

	first, err := store.Get(ctx, query.Key{Page: 1, PageSize: 20})
	require.NoError(t, err)
	second, err := store.Get(ctx, query.Key{Page: 1, PageSize: 20})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, api.calls())

	// A different key is an independent entry.
	_, err = store.Get(ctx, query.Key{Page: 2, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls())

	// Same page, different page size is also a distinct key.
	_, err = store.Get(ctx, query.Key{Page: 1, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 3, api.calls())
}

func TestGetDeduplicatesConcurrentFetches(t *testing.T) {
	api := &fakeAPI{listDelay: 50 * time.Millisecond}
	store := query.NewStore(api)
	key := query.Key{Page: 1, PageSize: 20}

	var wg sync.WaitGroup
	results := make([]*models.FlashcardList, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			list, err := store.Get(context.Background(), key)
			assert.NoError(t, err)
			results[i] = list
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, api.calls())
	for _, list := range results {
		assert.Same(t, results[0], list)
	}
}

func TestGetRetriesAfterError(t *testing.T) {
	api := &fakeAPI{}
	api.listErr = fmt.Errorf("connection refused")
	store := query.NewStore(api)
	key := query.Key{Page: 1, PageSize: 20}

	_, err := store.Get(context.Background(), key)
	require.Error(t, err)

	snap := store.Peek(key)
	assert.Equal(t, query.StatusError, snap.Status)

	// An errored entry is not cached; the next read fetches again.
	api.mu.Lock()
	api.listErr = nil
	api.mu.Unlock()

	list, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Equal(t, 2, api.calls())
}

func TestInvalidateAllForcesRefetch(t *testing.T) {
	api := &fakeAPI{}
	store := query.NewStore(api)
	ctx := context.Background()
	key := query.Key{Page: 1, PageSize: 20}

	_, err := store.Get(ctx, key)
	require.NoError(t, err)
	_, err = store.Get(ctx, query.Key{Page: 2, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 2, api.calls())

	store.InvalidateAll()

	assert.True(t, store.Peek(key).Stale)

	_, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, api.calls())

	// Refetched entries are fresh again.
	assert.False(t, store.Peek(key).Stale)
	_, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, api.calls())
}

func TestPeekUnknownKeyIsIdle(t *testing.T) {
	store := query.NewStore(&fakeAPI{})
	snap := store.Peek(query.Key{Page: 9, PageSize: 20})
	assert.Equal(t, query.StatusIdle, snap.Status)
	assert.Nil(t, snap.Data)
}

func TestCreateFlashcardInvalidatesBeforeOnSuccess(t *testing.T) {
	api := &fakeAPI{}
	store := query.NewStore(api)
	ctx := context.Background()
	key := query.Key{Page: 1, PageSize: 20}

	_, err := store.Get(ctx, key)
	require.NoError(t, err)

	// Callbacks fire after the mutation settles, so synchronize on the
	// callback itself rather than on Wait.
	fired := make(chan struct{})
	var staleInCallback bool
	var card *models.Flashcard
	m := store.CreateFlashcard(ctx, models.CreateFlashcardCommand{Front: "Q", Back: "A"}, query.CardCallbacks{
		OnSuccess: func(c *models.Flashcard) {
			staleInCallback = store.Peek(key).Stale
			card = c
			close(fired)
		},
		OnError: func(err error) {
			t.Errorf("unexpected error callback: %v", err)
		},
	})

	require.NoError(t, m.Wait(ctx))
	<-fired
	assert.Equal(t, query.MutationSuccess, m.Status())
	assert.True(t, staleInCallback)
	require.NotNil(t, card)
	assert.Equal(t, "created", card.ID)
}

func TestMutationErrorFiresOnErrorOnly(t *testing.T) {
	api := &fakeAPI{createErr: fmt.Errorf("boom")}
	store := query.NewStore(api)
	ctx := context.Background()
	key := query.Key{Page: 1, PageSize: 20}

	_, err := store.Get(ctx, key)
	require.NoError(t, err)

	fired := make(chan struct{})
	var successes, failures int32
	m := store.CreateFlashcard(ctx, models.CreateFlashcardCommand{Front: "Q", Back: "A"}, query.CardCallbacks{
		OnSuccess: func(*models.Flashcard) { atomic.AddInt32(&successes, 1) },
		OnError: func(error) {
			atomic.AddInt32(&failures, 1)
			close(fired)
		},
	})

	require.Error(t, m.Wait(ctx))
	<-fired
	assert.Equal(t, query.MutationError, m.Status())
	assert.EqualError(t, m.Err(), "boom")
	assert.Equal(t, int32(0), atomic.LoadInt32(&successes))
	assert.Equal(t, int32(1), atomic.LoadInt32(&failures))

	// A failed mutation leaves the cache untouched.
	assert.False(t, store.Peek(key).Stale)
}

func TestDeleteFlashcard(t *testing.T) {
	api := &fakeAPI{}
	store := query.NewStore(api)
	ctx := context.Background()
	key := query.Key{Page: 1, PageSize: 20}

	_, err := store.Get(ctx, key)
	require.NoError(t, err)

	fired := make(chan struct{})
	m := store.DeleteFlashcard(ctx, "card-1", query.DeleteCallbacks{
		OnSuccess: func() { close(fired) },
	})
	require.NoError(t, m.Wait(ctx))
	<-fired

	assert.True(t, store.Peek(key).Stale)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.deleteCalls))
}

func TestConcurrentMutationsAreIndependent(t *testing.T) {
	api := &fakeAPI{updateErr: fmt.Errorf("conflict")}
	store := query.NewStore(api)
	ctx := context.Background()

	create := store.CreateFlashcard(ctx, models.CreateFlashcardCommand{Front: "Q", Back: "A"}, query.CardCallbacks{})
	update := store.UpdateFlashcard(ctx, "card-1", models.UpdateFlashcardCommand{}, query.CardCallbacks{})

	assert.NoError(t, create.Wait(ctx))
	assert.Error(t, update.Wait(ctx))
	assert.Equal(t, query.MutationSuccess, create.Status())
	assert.Equal(t, query.MutationError, update.Status())
}
