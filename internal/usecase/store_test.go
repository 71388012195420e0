//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/usecase/shared"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory shared.UnitOfWork where per-row mutexes stand in
// for SELECT ... FOR UPDATE: FindByIDForUpdate blocks until the competing
// transaction finishes, exactly like the row lock it emulates. Writes are
// buffered per transaction and applied only when the callback returns nil.
type memStore struct {
	mu           sync.Mutex
	resLocks     map[resource.ID]*sync.Mutex
	rsvLocks     map[reservation.ID]*sync.Mutex
	resources    map[resource.ID]*resource.Resource
	reservations map[reservation.ID]*reservation.Reservation
}

func newMemStore() *memStore {
	return &memStore{
		resLocks:     make(map[resource.ID]*sync.Mutex),
		rsvLocks:     make(map[reservation.ID]*sync.Mutex),
		resources:    make(map[resource.ID]*resource.Resource),
		reservations: make(map[reservation.ID]*reservation.Reservation),
	}
}

func (s *memStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &memTx{
		store:      s,
		heldRes:    make(map[resource.ID]bool),
		heldRsv:    make(map[reservation.ID]bool),
		pendingRes: make(map[resource.ID]*resource.Resource),
		pendingRsv: make(map[reservation.ID]*reservation.Reservation),
	}
	err := fn(ctx, tx)
	if err == nil {
		s.mu.Lock()
		for id, res := range tx.pendingRes {
			s.resources[id] = res
		}
		for id, rsv := range tx.pendingRsv {
			s.reservations[id] = rsv
		}
		s.mu.Unlock()
	}
	tx.releaseLocks()
	return err
}

func (s *memStore) Reads() shared.Reads {
	return &memReads{store: s}
}

func (s *memStore) putResource(res *resource.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[res.ID()] = res
}

func (s *memStore) putReservation(rsv *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[rsv.ID()] = rsv
}

func (s *memStore) resourceByID(id resource.ID) *resource.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resources[id]
}

func (s *memStore) reservationByID(id reservation.ID) *reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id]
}

// confirmedSum mirrors the SQL aggregate over CONFIRMED rows.
func (s *memStore) confirmedSum(id resource.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for _, rsv := range s.reservations {
		if rsv.ResourceID() == id && rsv.Status() == reservation.StatusConfirmed {
			sum += rsv.Quantity().Int()
		}
	}
	return sum
}

func (s *memStore) countByStatus(id resource.ID, status reservation.Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rsv := range s.reservations {
		if rsv.ResourceID() == id && rsv.Status() == status {
			n++
		}
	}
	return n
}

func (s *memStore) resLock(id resource.ID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.resLocks[id]
	if !ok {
		m = &sync.Mutex{}
		s.resLocks[id] = m
	}
	return m
}

func (s *memStore) rsvLock(id reservation.ID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rsvLocks[id]
	if !ok {
		m = &sync.Mutex{}
		s.rsvLocks[id] = m
	}
	return m
}

type memTx struct {
	store      *memStore
	held       []*sync.Mutex
	heldRes    map[resource.ID]bool
	heldRsv    map[reservation.ID]bool
	pendingRes map[resource.ID]*resource.Resource
	pendingRsv map[reservation.ID]*reservation.Reservation
}

func (t *memTx) Resources() shared.ResourceRepository {
	return (*memResourceTx)(t)
}

func (t *memTx) Reservations() shared.ReservationRepository {
	return (*memReservationTx)(t)
}

func (t *memTx) releaseLocks() {
	for _, m := range t.held {
		m.Unlock()
	}
	t.held = nil
}

func notFoundErr(what string) error {
	return infra.WrapRepoErr(what+" not found", errors.New("no rows in result set"), infra.KindNotFound)
}

type memResourceTx memTx

func (t *memResourceTx) FindByIDForUpdate(_ context.Context, id resource.ID) (*resource.Resource, error) {
	if !t.heldRes[id] {
		m := t.store.resLock(id)
		m.Lock()
		t.held = append(t.held, m)
		t.heldRes[id] = true
	}
	if res, ok := t.pendingRes[id]; ok {
		return res, nil
	}
	res := t.store.resourceByID(id)
	if res == nil {
		return nil, notFoundErr("resource")
	}
	return res, nil
}

func (t *memResourceTx) UpdateWithOptimisticLock(_ context.Context, res *resource.Resource) error {
	// An UPDATE takes the row lock too; without this the non-locking admin
	// path would not contend with in-flight commits.
	if !t.heldRes[res.ID()] {
		m := t.store.resLock(res.ID())
		m.Lock()
		t.held = append(t.held, m)
		t.heldRes[res.ID()] = true
	}
	current, ok := t.pendingRes[res.ID()]
	if !ok {
		current = t.store.resourceByID(res.ID())
	}
	if current == nil {
		return notFoundErr("resource")
	}
	if current.Version() != res.Version()-1 {
		return infra.WrapRepoErr("version mismatch", errors.New("optimistic lock failed"), infra.KindConflict)
	}
	t.pendingRes[res.ID()] = res
	return nil
}

func (t *memResourceTx) Save(_ context.Context, res *resource.Resource) error {
	t.pendingRes[res.ID()] = res
	return nil
}

type memReservationTx memTx

func (t *memReservationTx) Save(_ context.Context, rsv *reservation.Reservation) error {
	t.pendingRsv[rsv.ID()] = rsv
	return nil
}

func (t *memReservationTx) FindByIDForUpdate(_ context.Context, id reservation.ID) (*reservation.Reservation, error) {
	if !t.heldRsv[id] {
		m := t.store.rsvLock(id)
		m.Lock()
		t.held = append(t.held, m)
		t.heldRsv[id] = true
	}
	if rsv, ok := t.pendingRsv[id]; ok {
		return rsv, nil
	}
	rsv := t.store.reservationByID(id)
	if rsv == nil {
		return nil, notFoundErr("reservation")
	}
	return rsv, nil
}

func (t *memReservationTx) SumActiveQuantityByResourceID(_ context.Context, resourceID resource.ID) (int, error) {
	rows := make(map[reservation.ID]*reservation.Reservation)
	t.store.mu.Lock()
	for id, rsv := range t.store.reservations {
		rows[id] = rsv
	}
	t.store.mu.Unlock()
	// Transaction-local writes shadow committed rows.
	for id, rsv := range t.pendingRsv {
		rows[id] = rsv
	}

	sum := 0
	for _, rsv := range rows {
		if rsv.ResourceID() == resourceID && rsv.Status() == reservation.StatusConfirmed {
			sum += rsv.Quantity().Int()
		}
	}
	return sum, nil
}

type memReads struct {
	store *memStore
}

func (r *memReads) ResourceByID(_ context.Context, id resource.ID) (*resource.Resource, error) {
	res := r.store.resourceByID(id)
	if res == nil {
		return nil, notFoundErr("resource")
	}
	return res, nil
}

func (r *memReads) ReservationByID(_ context.Context, id reservation.ID) (*reservation.Reservation, error) {
	rsv := r.store.reservationByID(id)
	if rsv == nil {
		return nil, notFoundErr("reservation")
	}
	return rsv, nil
}

// memSettings is an in-memory maintenance flag.
type memSettings struct {
	mu     sync.Mutex
	active bool
}

func (s *memSettings) MaintenanceActive(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, nil
}

func (s *memSettings) SetMaintenance(_ context.Context, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
	return nil
}

// spyInvalidator counts cache invalidations per resource.
type spyInvalidator struct {
	calls atomic.Int64
}

func (s *spyInvalidator) Invalidate(resource.ID) {
	s.calls.Add(1)
}

func seedResource(t *testing.T, store *memStore, id string, capacity int) resource.ID {
	t.Helper()
	rid, err := resource.NewID(id)
	require.NoError(t, err)
	res, err := resource.NewResource(rid, "room", capacity, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	store.putResource(res)
	return rid
}

func mustClientID(t *testing.T, raw string) reservation.ClientID {
	t.Helper()
	id, err := reservation.NewClientID(raw)
	require.NoError(t, err)
	return id
}

func mustQuantity(t *testing.T, n int) reservation.Quantity {
	t.Helper()
	q, err := reservation.NewQuantity(n)
	require.NoError(t, err)
	return q
}
