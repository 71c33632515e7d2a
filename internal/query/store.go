// Package query owns the client-side cache of list queries and the
// lifecycle of mutations against the flashcard API. Cached pages are keyed
// by (page, pageSize) and live until explicitly invalidated; every
// successful mutation marks all cached pages stale so the next read
// refetches. This trades a full round trip for read-after-write
// consistency without the mutation knowing which pages it touched.
package query

import (
	"context"
	"sync"

	"github.com/pwalczak/flashdeck/internal/logger"
	"github.com/pwalczak/flashdeck/internal/models"
)

// API is the slice of the REST client the store needs.
type API interface {
	ListFlashcards(ctx context.Context, page, pageSize int) (*models.FlashcardList, error)
	CreateFlashcard(ctx context.Context, cmd models.CreateFlashcardCommand) (*models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, id string, cmd models.UpdateFlashcardCommand) (*models.Flashcard, error)
	DeleteFlashcard(ctx context.Context, id string) error
}

// Key identifies one cached list query.
type Key struct {
	Page     int
	PageSize int
}

// Status is the lifecycle state of a cached query.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

type entry struct {
	status Status
	data   *models.FlashcardList
	err    error
	stale  bool
	done   chan struct{} // closed once the in-flight fetch settles
}

// Snapshot is a non-blocking view of one cache entry for rendering.
type Snapshot struct {
	Status Status
	Data   *models.FlashcardList
	Err    error
	Stale  bool
}

// Store is the keyed query cache plus mutation runner.
type Store struct {
	mu      sync.Mutex
	api     API
	entries map[Key]*entry
	log     *logger.Logger
}

func NewStore(api API) *Store {
	return &Store{
		api:     api,
		entries: make(map[Key]*entry),
		log:     logger.Default().WithPrefix("query"),
	}
}

// Get returns the list for key, fetching it if the entry is absent, stale
// or errored. A fetch already in flight for the same key is never
// duplicated: concurrent callers block on it and share its outcome.
func (s *Store) Get(ctx context.Context, key Key) (*models.FlashcardList, error) {
	s.mu.Lock()
	e, ok := s.entries[key]

	if ok && e.status == StatusSuccess && !e.stale {
		data := e.data
		s.mu.Unlock()
		s.log.Debug("cache hit: page=%d page_size=%d", key.Page, key.PageSize)
		return data, nil
	}

	if ok && e.status == StatusLoading {
		done := e.done
		s.mu.Unlock()
		s.log.Debug("joining in-flight fetch: page=%d page_size=%d", key.Page, key.PageSize)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}
		s.mu.Lock()
		data, err := e.data, e.err
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	fresh := &entry{status: StatusLoading, done: make(chan struct{})}
	s.entries[key] = fresh
	s.mu.Unlock()

	s.log.Debug("fetching: page=%d page_size=%d", key.Page, key.PageSize)
	data, err := s.api.ListFlashcards(ctx, key.Page, key.PageSize)

	s.mu.Lock()
	if err != nil {
		fresh.status = StatusError
		fresh.err = err
	} else {
		fresh.status = StatusSuccess
		fresh.data = data
	}
	// An invalidation that raced the fetch leaves the entry stale, so the
	// next read refetches even though this one just settled.
	close(fresh.done)
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("fetch failed: page=%d page_size=%d: %v", key.Page, key.PageSize, err)
	}
	return data, err
}

// Peek returns the current state of a cache entry without fetching.
func (s *Store) Peek(key Key) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Snapshot{Status: StatusIdle}
	}
	return Snapshot{Status: e.status, Data: e.data, Err: e.err, Stale: e.stale}
}

// InvalidateAll marks every cached entry stale. Entries are refetched on
// their next read, not eagerly.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		e.stale = true
	}
	s.log.Debug("invalidated %d cached queries", len(s.entries))
}

// MutationStatus is the lifecycle state of a single mutation invocation.
type MutationStatus int

const (
	MutationIdle MutationStatus = iota
	MutationPending
	MutationSuccess
	MutationError
)

// Mutation tracks one in-flight create, update or delete. Each invocation
// is independent; concurrent mutations never block each other.
type Mutation struct {
	mu     sync.Mutex
	status MutationStatus
	err    error
	done   chan struct{}
}

func newMutation() *Mutation {
	return &Mutation{status: MutationPending, done: make(chan struct{})}
}

// Status returns the mutation's current state.
func (m *Mutation) Status() MutationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Err returns the mutation's failure, if any.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Done is closed once the mutation has settled.
func (m *Mutation) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the mutation settles or ctx is cancelled, returning
// the mutation's outcome.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return m.Err()
	}
}

func (m *Mutation) settle(err error) {
	m.mu.Lock()
	if err != nil {
		m.status = MutationError
		m.err = err
	} else {
		m.status = MutationSuccess
	}
	m.mu.Unlock()
	close(m.done)
}

// CardCallbacks receive the single outcome of a create or update.
type CardCallbacks struct {
	OnSuccess func(*models.Flashcard)
	OnError   func(error)
}

// DeleteCallbacks receive the single outcome of a delete.
type DeleteCallbacks struct {
	OnSuccess func()
	OnError   func(error)
}

// CreateFlashcard starts a create mutation. Exactly one of cb.OnSuccess or
// cb.OnError fires; on success all cached queries are invalidated before
// OnSuccess runs.
func (s *Store) CreateFlashcard(ctx context.Context, cmd models.CreateFlashcardCommand, cb CardCallbacks) *Mutation {
	m := newMutation()
	go s.runCardMutation(m, cb, func() (*models.Flashcard, error) {
		return s.api.CreateFlashcard(ctx, cmd)
	})
	return m
}

// UpdateFlashcard starts an update mutation.
func (s *Store) UpdateFlashcard(ctx context.Context, id string, cmd models.UpdateFlashcardCommand, cb CardCallbacks) *Mutation {
	m := newMutation()
	go s.runCardMutation(m, cb, func() (*models.Flashcard, error) {
		return s.api.UpdateFlashcard(ctx, id, cmd)
	})
	return m
}

// DeleteFlashcard starts a delete mutation.
func (s *Store) DeleteFlashcard(ctx context.Context, id string, cb DeleteCallbacks) *Mutation {
	m := newMutation()
	go func() {
		if err := s.api.DeleteFlashcard(ctx, id); err != nil {
			m.settle(err)
			if cb.OnError != nil {
				cb.OnError(err)
			}
			return
		}
		s.InvalidateAll()
		m.settle(nil)
		if cb.OnSuccess != nil {
			cb.OnSuccess()
		}
	}()
	return m
}

func (s *Store) runCardMutation(m *Mutation, cb CardCallbacks, fn func() (*models.Flashcard, error)) {
	card, err := fn()
	if err != nil {
		m.settle(err)
		if cb.OnError != nil {
			cb.OnError(err)
		}
		return
	}
	s.InvalidateAll()
	m.settle(nil)
	if cb.OnSuccess != nil {
		cb.OnSuccess(card)
	}
}
