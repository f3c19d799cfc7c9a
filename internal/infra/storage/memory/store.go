package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Store хранилище в памяти для dev-режима и тестов.
// Транзакция работает с рабочей копией состояния и подменяет ею зафиксированное при коммите.
// Читатели вне транзакции видят только зафиксированное состояние.
type Store struct {
	mu   sync.RWMutex // защищает committed
	txMu sync.Mutex   // сериализует пишущих

	committed *state

	now func() time.Time
}

type state struct {
	prices       map[int64]domain.PriceSchedule
	inventories  map[int64]domain.SpotInventory
	reservations map[uuid.UUID]domain.Reservation
	allocations  map[int64]domain.Allocation
	lastID       int64
}

func newState() *state {
	return &state{
		prices:       make(map[int64]domain.PriceSchedule),
		inventories:  make(map[int64]domain.SpotInventory),
		reservations: make(map[uuid.UUID]domain.Reservation),
		allocations:  make(map[int64]domain.Allocation),
	}
}

// clone копирует карты; значения неизменяемы после записи, поэтому копии структур достаточно
func (st *state) clone() *state {
	next := &state{
		prices:       make(map[int64]domain.PriceSchedule, len(st.prices)),
		inventories:  make(map[int64]domain.SpotInventory, len(st.inventories)),
		reservations: make(map[uuid.UUID]domain.Reservation, len(st.reservations)),
		allocations:  make(map[int64]domain.Allocation, len(st.allocations)),
		lastID:       st.lastID,
	}
	for k, v := range st.prices {
		next.prices[k] = v
	}
	for k, v := range st.inventories {
		next.inventories[k] = v
	}
	for k, v := range st.reservations {
		next.reservations[k] = v
	}
	for k, v := range st.allocations {
		next.allocations[k] = v
	}
	return next
}

func NewStore() *Store {
	return &Store{
		committed: newState(),
		now:       time.Now,
	}
}

func (s *Store) Prices() *PriceRepository {
	return &PriceRepository{store: s}
}

func (s *Store) Inventory() *InventoryRepository {
	return &InventoryRepository{store: s}
}

func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{store: s}
}

func (s *Store) Allocations() *AllocationRepository {
	return &AllocationRepository{store: s}
}

func (s *Store) TxManager() *TransactionManager {
	return &TransactionManager{store: s}
}

type txKey struct{}

func txState(ctx context.Context) (*state, bool) {
	st, ok := ctx.Value(txKey{}).(*state)
	return st, ok
}

// read выполняет fn над рабочей копией транзакции или над зафиксированным состоянием
func (s *Store) read(ctx context.Context, fn func(st *state)) {
	if st, ok := txState(ctx); ok {
		fn(st)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.committed)
}

// write вне транзакции пишет сразу в зафиксированное состояние, ожидая завершения текущей транзакции
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if st, ok := txState(ctx); ok {
		return fn(st)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.committed)
}

// TransactionManager транзакции поверх Store
type TransactionManager struct {
	store *Store
}

func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TransactionManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txState(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	m.store.mu.RLock()
	working := m.store.committed.clone()
	m.store.mu.RUnlock()

	// при ошибке или панике рабочая копия просто отбрасывается
	if err := fn(context.WithValue(ctx, txKey{}, working)); err != nil {
		return err
	}

	m.store.mu.Lock()
	m.store.committed = working
	m.store.mu.Unlock()
	return nil
}
