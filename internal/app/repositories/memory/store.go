// Package memory provides an in-memory transactional store implementing the
// repository interfaces. Queries load, sort and slice under a lock, so it is meant for
// tests, demos and small datasets.
package memory

import (
	"context"
	"sync"

	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/repositories"
)

type state struct {
	divisions       map[int64]models.Division
	coordinators    map[int64]models.Coordinator
	nextDivision    int64
	nextProgram     int64
	nextCoordinator int64
}

func newState() state {
	return state{
		divisions:    map[int64]models.Division{},
		coordinators: map[int64]models.Coordinator{},
	}
}

func cloneDivision(d models.Division) models.Division {
	programs := make([]models.Program, len(d.Programs))
	copy(programs, d.Programs)
	d.Programs = programs
	return d
}

func cloneCoordinator(c models.Coordinator) models.Coordinator {
	if c.Phone != nil {
		phone := *c.Phone
		c.Phone = &phone
	}
	return c
}

func (s state) clone() state {
	out := state{
		divisions:       make(map[int64]models.Division, len(s.divisions)),
		coordinators:    make(map[int64]models.Coordinator, len(s.coordinators)),
		nextDivision:    s.nextDivision,
		nextProgram:     s.nextProgram,
		nextCoordinator: s.nextCoordinator,
	}
	for id, d := range s.divisions {
		out.divisions[id] = cloneDivision(d)
	}
	for id, c := range s.coordinators {
		out.coordinators[id] = cloneCoordinator(c)
	}
	return out
}

type transaction struct {
	store *Store
	state state
}

type txKey struct{}

// Store holds every aggregate behind one RWMutex. A transaction works on a cloned
// state while holding the write lock and swaps it in on success.
type Store struct {
	mu    sync.RWMutex
	state state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{state: newState()}
}

// NewRepositories returns the repository set backed by a fresh in-memory store
func NewRepositories() *repositories.Repositories {
	s := NewStore()
	return &repositories.Repositories{
		TxRunner:              s,
		DivisionRepository:    s.Divisions(),
		CoordinatorRepository: s.Coordinators(),
	}
}

// Divisions returns the division repository view of the store
func (s *Store) Divisions() *DivisionRepository {
	return &DivisionRepository{store: s}
}

// Coordinators returns the coordinator repository view of the store
func (s *Store) Coordinators() *CoordinatorRepository {
	return &CoordinatorRepository{store: s}
}

func (s *Store) txFrom(ctx context.Context) (*transaction, bool) {
	tx, ok := ctx.Value(txKey{}).(*transaction)
	if !ok || tx.store != s {
		return nil, false
	}
	return tx, true
}

// InTx runs fn against a private copy of the state and commits it only when fn
// succeeds. Nested calls join the outer transaction. Repository calls inside fn must
// use the ctx passed to fn.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := s.txFrom(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{store: s, state: s.state.clone()}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// read gives fn the transaction state when ctx carries one, else the committed state under a read lock
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if tx, ok := s.txFrom(ctx); ok {
		return fn(&tx.state)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

// write runs fn atomically, in the caller's transaction if there is one
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	return s.InTx(ctx, func(ctx context.Context) error {
		tx, _ := s.txFrom(ctx)
		return fn(&tx.state)
	})
}

// paginate slices items for page after they have been sorted
func paginate[T any](items []T, page models.PageRequest) models.Page[T] {
	result := models.Page[T]{Items: []T{}, Page: page.Page, Size: page.Size, TotalItems: int64(len(items))}
	start := page.Offset()
	if start < 0 || start >= len(items) || page.Size <= 0 {
		return result
	}
	end := start + page.Size
	if end > len(items) || end < start {
		end = len(items)
	}
	result.Items = items[start:end]
	return result
}
