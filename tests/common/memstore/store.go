//go:build unit || e2e

// Package memstore is an in-memory stand-in for the Postgres schema. It enforces
// the same uniqueness and overlap constraints so usecase tests can race commits.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"lounge-booking/internal/domain/availability"
	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/customer"
	"lounge-booking/internal/domain/slot"
	"lounge-booking/internal/domain/slotblock"
	"lounge-booking/internal/domain/station"
	"lounge-booking/internal/infra"
	"lounge-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Faults injects storage failures per operation.
type Faults struct {
	ListStations        error
	BookingIDsByPayment error
	CreateBookings      error
	Enqueue             error
	CreateCustomer      error
	RecordVisit         error
	ConfirmBlocks       error
}

type Store struct {
	mu   sync.Mutex
	cond *sync.Cond

	stations  []*station.Station
	customers []*customer.Customer
	claims    map[string]string
	bookings  []*booking.Booking
	blocks    []*slotblock.Block
	sessions  []availability.ActiveSession
	events    []shared.OutboxEvent

	// rows and claims held by transactions that have not finished yet
	pendingClaims map[string]*tx
	pendingRows   map[*tx][]*booking.Booking

	Faults Faults
	// BeforeCustomerCreate runs just before a customer insert; tests use it to lose the race.
	BeforeCustomerCreate func(c *customer.Customer)
	// InsideTx runs at the start of every transaction body.
	InsideTx func()
}

func New(stations ...*station.Station) *Store {
	s := &Store{
		stations:      stations,
		claims:        make(map[string]string),
		pendingClaims: make(map[string]*tx),
		pendingRows:   make(map[*tx][]*booking.Booking),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// ---- shared.UnitOfWork ----

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if s.InsideTx != nil {
		s.InsideTx()
	}
	t := &tx{store: s}
	if err := fn(ctx, t); err != nil {
		s.finish(t, false)
		return err
	}
	s.finish(t, true)
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return commandReads{store: s}
}

func (s *Store) finish(t *tx, commit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if commit {
		for pid, order := range t.claims {
			s.claims[pid] = order
		}
		s.bookings = append(s.bookings, t.rows...)
		s.events = append(s.events, t.events...)
	}
	for pid, owner := range s.pendingClaims {
		if owner == t {
			delete(s.pendingClaims, pid)
		}
	}
	delete(s.pendingRows, t)
	s.cond.Broadcast()
}

type tx struct {
	store  *Store
	claims map[string]string
	rows   []*booking.Booking
	events []shared.OutboxEvent
}

func (t *tx) PaymentClaims() shared.PaymentClaimRepository { return txClaims{t} }
func (t *tx) Bookings() shared.BookingRepository           { return txBookings{t} }
func (t *tx) Outbox() shared.OutboxRepository              { return txOutbox{t} }
func (t *tx) Reads() shared.CommandReads                   { return commandReads{store: t.store, tx: t} }

type txClaims struct{ t *tx }

// Claim blocks while another open transaction holds the same payment, like a unique index does.
func (c txClaims) Claim(_ context.Context, paymentTxnID, orderID string, _ time.Time) error {
	s := c.t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if _, ok := s.claims[paymentTxnID]; ok {
			return infra.NewDuplicateKeyErr("payment_claims_pkey", "payment already claimed")
		}
		owner, pending := s.pendingClaims[paymentTxnID]
		if !pending || owner == c.t {
			break
		}
		s.cond.Wait()
	}
	if _, ok := c.t.claims[paymentTxnID]; ok {
		return infra.NewDuplicateKeyErr("payment_claims_pkey", "payment already claimed")
	}
	if c.t.claims == nil {
		c.t.claims = make(map[string]string)
	}
	c.t.claims[paymentTxnID] = orderID
	s.pendingClaims[paymentTxnID] = c.t
	return nil
}

type txBookings struct{ t *tx }

func (b txBookings) CreateMany(_ context.Context, rows []*booking.Booking) ([]uuid.UUID, error) {
	s := b.t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Faults.CreateBookings != nil {
		return nil, s.Faults.CreateBookings
	}

	for {
		if !s.overlapsPending(b.t, rows) {
			break
		}
		s.cond.Wait()
	}

	occupied := append(slices.Clone(s.bookings), b.t.rows...)
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		for _, o := range occupied {
			if o.StationID() == r.StationID() && o.Conflicts(r.Slot()) {
				return nil, infra.RepositoryError{Kind: infra.KindConflict, Constraint: "bookings_no_overlap"}
			}
		}
		occupied = append(occupied, r)
		ids = append(ids, r.ID())
	}
	b.t.rows = append(b.t.rows, rows...)
	s.pendingRows[b.t] = b.t.rows
	return ids, nil
}

func (s *Store) overlapsPending(self *tx, rows []*booking.Booking) bool {
	for owner, pending := range s.pendingRows {
		if owner == self {
			continue
		}
		for _, p := range pending {
			for _, r := range rows {
				if p.StationID() == r.StationID() && p.Conflicts(r.Slot()) {
					return true
				}
			}
		}
	}
	return false
}

type txOutbox struct{ t *tx }

func (o txOutbox) Enqueue(_ context.Context, ev shared.OutboxEvent) error {
	s := o.t.store
	s.mu.Lock()
	fault := s.Faults.Enqueue
	s.mu.Unlock()
	if fault != nil {
		return fault
	}
	o.t.events = append(o.t.events, ev)
	return nil
}

type commandReads struct {
	store *Store
	tx    *tx
}

func (r commandReads) BookingIDsByPayment(_ context.Context, paymentTxnID string) ([]uuid.UUID, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Faults.BookingIDsByPayment != nil {
		return nil, s.Faults.BookingIDsByPayment
	}
	var ids []uuid.UUID
	visible := s.bookings
	if r.tx != nil {
		visible = append(slices.Clone(visible), r.tx.rows...)
	}
	for _, b := range visible {
		if b.PaymentTxnID() == paymentTxnID {
			ids = append(ids, b.ID())
		}
	}
	return ids, nil
}

// ---- shared.CustomerRepository ----

func (s *Store) FindByPhone(_ context.Context, phone customer.Phone) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.Phone() == phone {
			return c, nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "customer not found")
}

func (s *Store) FindByRef(_ context.Context, ref string) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID().String() == ref || c.CustomID() == ref {
			return c, nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "customer not found")
}

func (s *Store) Create(_ context.Context, c *customer.Customer) error {
	if s.BeforeCustomerCreate != nil {
		s.BeforeCustomerCreate(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Faults.CreateCustomer != nil {
		return s.Faults.CreateCustomer
	}
	for _, existing := range s.customers {
		if existing.Phone() == c.Phone() {
			return infra.NewDuplicateKeyErr("customers_phone_key", "phone already registered")
		}
		if existing.CustomID() == c.CustomID() {
			return infra.NewDuplicateKeyErr("customers_custom_id_key", "customer code taken")
		}
	}
	s.customers = append(s.customers, c)
	return nil
}

func (s *Store) RecordVisit(_ context.Context, id uuid.UUID, spend booking.Pricing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Faults.RecordVisit != nil {
		return s.Faults.RecordVisit
	}
	for i, c := range s.customers {
		if c.ID() == id {
			s.customers[i] = customer.ReconstructCustomer(c.ID(), c.Name(), c.Phone(), c.Email(), c.CustomID(),
				c.TotalSpend().Add(spend.FinalPrice), c.VisitCount()+1, c.CreatedAt())
			return nil
		}
	}
	return infra.NewRepoErr(infra.KindNotFound, "customer not found")
}

// ---- queries.AvailabilityReadStore ----

func (s *Store) ListStations(context.Context) ([]*station.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Faults.ListStations != nil {
		return nil, s.Faults.ListStations
	}
	return slices.Clone(s.stations), nil
}

func (s *Store) BookingsOn(_ context.Context, stationIDs []uuid.UUID, date string, statuses []booking.Status) ([]*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*booking.Booking
	for _, b := range s.bookings {
		if slices.Contains(stationIDs, b.StationID()) && b.Slot().Date() == date && slices.Contains(statuses, b.Status()) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) ActiveBlocksOn(_ context.Context, stationIDs []uuid.UUID, date string, now time.Time) ([]*slotblock.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*slotblock.Block
	for _, b := range s.blocks {
		if slices.Contains(stationIDs, b.StationID()) && b.Slot().Date() == date && b.IsActiveAt(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) OpenSessions(_ context.Context, stationIDs []uuid.UUID) ([]availability.ActiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []availability.ActiveSession
	for _, sess := range s.sessions {
		if slices.Contains(stationIDs, sess.StationID) {
			out = append(out, sess)
		}
	}
	return out, nil
}

// ---- commands.SlotBlockRepository ----

func (s *Store) CreateMany(_ context.Context, blocks []*slotblock.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append(s.blocks, blocks...)
	return nil
}

func (s *Store) Confirm(_ context.Context, stationIDs []uuid.UUID, sl slot.Slot, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Faults.ConfirmBlocks != nil {
		return 0, s.Faults.ConfirmBlocks
	}
	var n int64
	for i, b := range s.blocks {
		if slices.Contains(stationIDs, b.StationID()) && b.Slot().SameInterval(sl) && b.IsActiveAt(now) {
			s.blocks[i] = slotblock.ReconstructBlock(b.ID(), b.StationID(), b.Slot(), b.ExpiresAt(), true, b.CreatedAt())
			n++
		}
	}
	return n, nil
}

func (s *Store) Release(_ context.Context, blockIDs []uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	s.blocks = slices.DeleteFunc(s.blocks, func(b *slotblock.Block) bool {
		drop := slices.Contains(blockIDs, b.ID()) && !b.IsConfirmed()
		if drop {
			n++
		}
		return drop
	})
	return n, nil
}

// ---- seeding and inspection ----

func (s *Store) SeedBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.PaymentTxnID() != "" {
		s.claims[b.PaymentTxnID()] = ""
	}
	s.bookings = append(s.bookings, b)
}

func (s *Store) SeedCustomer(c *customer.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c)
}

func (s *Store) SeedSession(sess availability.ActiveSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sess)
}

func (s *Store) Bookings() []*booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.bookings)
}

func (s *Store) BookingsForPayment(paymentTxnID string) []*booking.Booking {
	var out []*booking.Booking
	for _, b := range s.Bookings() {
		if b.PaymentTxnID() == paymentTxnID {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) Customers() []*customer.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.customers)
}

func (s *Store) Blocks() []*slotblock.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.blocks)
}

func (s *Store) Events() []shared.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

func (s *Store) EventsOn(topic string) []shared.OutboxEvent {
	var out []shared.OutboxEvent
	for _, ev := range s.Events() {
		if ev.Topic == topic {
			out = append(out, ev)
		}
	}
	return out
}

func (s *Store) Claimed(paymentTxnID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.claims[paymentTxnID]
	return ok
}
