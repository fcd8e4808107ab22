// Package store holds the authoritative in-memory copy of one entity
// collection and runs every mutation as a read-modify-write through a
// persistence.Collection.
package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/persistence"
)

// Entity is implemented by value types stored in a Store.
type Entity[T any] interface {
	GetID() string
	WithID(id string) T
}

type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

type Op string

const (
	OpFetchAll Op = "fetchAll"
	OpGet      Op = "get"
	OpCreate   Op = "create"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
	OpReplace  Op = "replace"
)

type State[T any] struct {
	Data    []T
	Loading bool
	Error   string
}

// Transition is delivered to observers after every phase change.
type Transition[T any] struct {
	Op    Op
	Phase Phase
	State State[T]
}

type Options struct {
	// Name is used in log lines, e.g. "user".
	Name string
	// NotFound builds the error returned for an unknown id.
	NotFound func(id string) error
	// NewID defaults to uuid.NewString.
	NewID func() string
}

type Store[T Entity[T]] struct {
	collection *persistence.Collection[T]
	opts       Options
	logger     *slog.Logger

	// ops serializes whole operations so load/save cycles never interleave.
	ops sync.Mutex

	mu        sync.RWMutex
	state     State[T]
	observers map[int]func(Transition[T])
	nextObs   int
}

func New[T Entity[T]](collection *persistence.Collection[T], opts Options, logger *slog.Logger) *Store[T] {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.NotFound == nil {
		opts.NotFound = func(id string) error {
			return internal.NewNotFoundError("record "+id+" not found", internal.ErrCodeRecordNotFound)
		}
	}
	if opts.Name == "" {
		opts.Name = collection.Key()
	}
	return &Store[T]{
		collection: collection,
		opts:       opts,
		logger:     logger,
		state:      State[T]{Data: []T{}},
		observers:  make(map[int]func(Transition[T])),
	}
}

// State returns a snapshot; callers may modify it freely.
func (s *Store[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every phase transition. The returned func
// removes the observer.
func (s *Store[T]) Subscribe(fn func(Transition[T])) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// FetchAll replaces Data wholesale with the persisted collection.
func (s *Store[T]) FetchAll(ctx context.Context) ([]T, error) {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.begin(OpFetchAll)
	items, err := s.collection.Load(ctx)
	if err != nil {
		return nil, s.reject(OpFetchAll, err)
	}

	s.fulfill(OpFetchAll, func(st *State[T]) {
		st.Data = slices.Clone(items)
	})
	return items, nil
}

// Get reads one record from the persisted collection without touching Data.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	s.ops.Lock()
	defer s.ops.Unlock()

	s.begin(OpGet)
	items, err := s.collection.Load(ctx)
	if err != nil {
		return zero, s.reject(OpGet, err)
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return zero, s.reject(OpGet, s.opts.NotFound(id))
	}

	s.fulfill(OpGet, nil)
	return items[idx], nil
}

// Create assigns a fresh id, appends to the persisted collection and then
// appends to Data without re-reading it.
func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T

	s.ops.Lock()
	defer s.ops.Unlock()

	s.begin(OpCreate)
	items, err := s.collection.Load(ctx)
	if err != nil {
		return zero, s.reject(OpCreate, err)
	}

	created := item.WithID(s.uniqueID(items))
	if err := s.collection.Save(ctx, append(items, created)); err != nil {
		return zero, s.reject(OpCreate, err)
	}

	s.fulfill(OpCreate, func(st *State[T]) {
		st.Data = append(st.Data, created)
	})
	s.logger.Debug("record created", "store", s.opts.Name, "id", created.GetID())
	return created, nil
}

// Update applies mutate to the persisted record with the given id. The id
// itself cannot be changed by mutate.
func (s *Store[T]) Update(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	var zero T

	s.ops.Lock()
	defer s.ops.Unlock()

	s.begin(OpUpdate)
	items, err := s.collection.Load(ctx)
	if err != nil {
		return zero, s.reject(OpUpdate, err)
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return zero, s.reject(OpUpdate, s.opts.NotFound(id))
	}

	updated := items[idx]
	if err := mutate(&updated); err != nil {
		return zero, s.reject(OpUpdate, err)
	}
	updated = updated.WithID(id)
	items[idx] = updated

	if err := s.collection.Save(ctx, items); err != nil {
		return zero, s.reject(OpUpdate, err)
	}

	s.fulfill(OpUpdate, func(st *State[T]) {
		if i := indexOf(st.Data, id); i >= 0 {
			st.Data[i] = updated
			return
		}
		st.Data = append(st.Data, updated)
	})
	return updated, nil
}

// Delete removes exactly one record. An unknown id is reported through
// Options.NotFound and leaves both copies untouched.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.begin(OpDelete)
	items, err := s.collection.Load(ctx)
	if err != nil {
		return s.reject(OpDelete, err)
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return s.reject(OpDelete, s.opts.NotFound(id))
	}

	if err := s.collection.Save(ctx, slices.Delete(items, idx, idx+1)); err != nil {
		return s.reject(OpDelete, err)
	}

	s.fulfill(OpDelete, func(st *State[T]) {
		if i := indexOf(st.Data, id); i >= 0 {
			st.Data = slices.Delete(st.Data, i, i+1)
		}
	})
	s.logger.Debug("record deleted", "store", s.opts.Name, "id", id)
	return nil
}

// Replace overwrites the persisted collection and Data with items as given,
// ids included. Used for seeding.
func (s *Store[T]) Replace(ctx context.Context, items []T) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.begin(OpReplace)
	if err := s.collection.Save(ctx, items); err != nil {
		return s.reject(OpReplace, err)
	}

	s.fulfill(OpReplace, func(st *State[T]) {
		st.Data = slices.Clone(items)
		if st.Data == nil {
			st.Data = []T{}
		}
	})
	return nil
}

func (s *Store[T]) uniqueID(items []T) string {
	for {
		id := s.opts.NewID()
		if indexOf(items, id) < 0 {
			return id
		}
		s.logger.Warn("generated id already in use, retrying", "store", s.opts.Name, "id", id)
	}
}

func (s *Store[T]) begin(op Op) {
	s.transition(op, PhasePending, func(st *State[T]) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *Store[T]) fulfill(op Op, apply func(*State[T])) {
	s.transition(op, PhaseFulfilled, func(st *State[T]) {
		if apply != nil {
			apply(st)
		}
		st.Loading = false
	})
}

// reject records err on the state and returns it unchanged. Data keeps its
// last known value.
func (s *Store[T]) reject(op Op, err error) error {
	s.logger.Warn("store operation failed",
		"store", s.opts.Name,
		"op", string(op),
		"error", err)

	s.transition(op, PhaseRejected, func(st *State[T]) {
		st.Loading = false
		st.Error = err.Error()
	})
	return err
}

func (s *Store[T]) transition(op Op, phase Phase, apply func(*State[T])) {
	s.mu.Lock()
	apply(&s.state)
	snapshot := s.snapshotLocked()
	observers := make([]func(Transition[T]), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(Transition[T]{Op: op, Phase: phase, State: snapshot})
	}
}

func (s *Store[T]) snapshotLocked() State[T] {
	st := s.state
	st.Data = slices.Clone(s.state.Data)
	if st.Data == nil {
		st.Data = []T{}
	}
	return st
}

func indexOf[T Entity[T]](items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool {
		return item.GetID() == id
	})
}
