//go:build unit || e2e

// Package fakestore is an in-memory stand-in for the Postgres unit of work
// and read store. Within calls are serialized, which gives the same
// outcome as the row lock taken on a departure in Postgres.
package fakestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/infra"
	"tour-booking/internal/infra/converter"
	"tour-booking/internal/infra/pgquery"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	users    map[uuid.UUID]shared.UserSnapshot
	tours    map[uuid.UUID]tour.Tour
	slots    []tour.DateSlot
	bookings map[uuid.UUID]booking.State

	// FailRelease makes every decrement fail, to exercise best-effort
	// slot release.
	FailRelease error
}

func New() *Store {
	return &Store{
		users:    map[uuid.UUID]shared.UserSnapshot{},
		tours:    map[uuid.UUID]tour.Tour{},
		bookings: map[uuid.UUID]booking.State{},
	}
}

var (
	_ shared.UnitOfWork        = (*Store)(nil)
	_ shared.BookingRepository = (*bookingRepo)(nil)
	_ shared.TourCatalog       = (*tourCatalog)(nil)
	_ queries.BookingReadStore = (*ReadStore)(nil)
)

// Seeding

func (s *Store) AddUser(u shared.UserSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) AddTour(t tour.Tour) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tours[t.ID] = t
}

func (s *Store) AddSlot(d tour.DateSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = append(s.slots, d)
}

func (s *Store) PutBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID()] = b.State()
}

// Inspection

// Slot returns the earliest departure starting on start.
func (s *Store) Slot(tourID uuid.UUID, start time.Time) (tour.DateSlot, bool) {
	return s.SlotFor(tourID, start, time.Time{})
}

// SlotFor returns the departure with exactly these dates, or the earliest
// one on start when end is zero.
func (s *Store) SlotFor(tourID uuid.UUID, start, end time.Time) (tour.DateSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.lockIndex(tourID, start, end); i >= 0 {
		return s.slots[i], true
	}
	return tour.DateSlot{}, false
}

func (s *Store) Booking(id uuid.UUID) (*booking.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.bookings[id]
	if !ok {
		return nil, false
	}
	return booking.Reconstruct(st), true
}

func (s *Store) BookingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

// UnitOfWork

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, &fakeTx{store: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &commandReads{store: s}
}

type snapshot struct {
	slots    []tour.DateSlot
	bookings map[uuid.UUID]booking.State
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		slots:    append([]tour.DateSlot(nil), s.slots...),
		bookings: make(map[uuid.UUID]booking.State, len(s.bookings)),
	}
	for id, st := range s.bookings {
		snap.bookings[id] = st
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = snap.slots
	s.bookings = snap.bookings
}

// lockIndex follows lockTourDate: a zero end picks the earliest
// departure on start.
func (s *Store) lockIndex(tourID uuid.UUID, start, end time.Time) int {
	if !end.IsZero() {
		return s.exactIndex(tourID, start, end)
	}
	found := -1
	for i, d := range s.slots {
		if d.TourID != tourID || !sameDay(d.StartDate, start) {
			continue
		}
		if found < 0 || d.EndDate.Before(s.slots[found].EndDate) {
			found = i
		}
	}
	return found
}

// exactIndex follows setTourDateBooked: both dates must match.
func (s *Store) exactIndex(tourID uuid.UUID, start, end time.Time) int {
	if end.IsZero() {
		return -1
	}
	for i, d := range s.slots {
		if d.TourID == tourID && sameDay(d.StartDate, start) && sameDay(d.EndDate, end) {
			return i
		}
	}
	return -1
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

type fakeTx struct {
	store *Store
}

func (t *fakeTx) Bookings() shared.BookingRepository { return &bookingRepo{store: t.store} }
func (t *fakeTx) Tours() shared.TourCatalog          { return &tourCatalog{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads         { return &commandReads{store: t.store} }
func (t *fakeTx) DB() pgquery.DBTX                   { return nil }

type bookingRepo struct {
	store *Store
}

func (r *bookingRepo) Create(_ context.Context, _ pgquery.DBTX, b *booking.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.bookings[b.ID()]; ok {
		return infra.WrapRepoErr("booking already exists", nil, infra.KindDuplicateKey)
	}
	r.store.bookings[b.ID()] = b.State()
	return nil
}

func (r *bookingRepo) FindByIDForUpdate(_ context.Context, _ pgquery.DBTX, id uuid.UUID) (*booking.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	st, ok := r.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return booking.Reconstruct(st), nil
}

func (r *bookingRepo) Save(_ context.Context, _ pgquery.DBTX, b *booking.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	r.store.bookings[b.ID()] = b.State()
	return nil
}

func (r *bookingRepo) Delete(_ context.Context, _ pgquery.DBTX, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.bookings[id]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	delete(r.store.bookings, id)
	return nil
}

type tourCatalog struct {
	store *Store
}

func (c *tourCatalog) GetTourByID(_ context.Context, _ pgquery.DBTX, id uuid.UUID) (*tour.Tour, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	t, ok := c.store.tours[id]
	if !ok {
		return nil, infra.WrapRepoErr("tour not found", nil, infra.KindNotFound)
	}
	return &t, nil
}

func (c *tourCatalog) LockDeparture(_ context.Context, _ pgquery.DBTX, tourID uuid.UUID, start, end time.Time) (*tour.DateSlot, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	i := c.store.lockIndex(tourID, start, end)
	if i < 0 {
		return nil, nil
	}
	slot := c.store.slots[i]
	return &slot, nil
}

func (c *tourCatalog) GetAvailableSlots(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time) (int, bool, error) {
	slot, err := c.LockDeparture(ctx, tx, tourID, start, end)
	if err != nil || slot == nil {
		return 0, false, err
	}
	return slot.Available(), true, nil
}

func (c *tourCatalog) IncrementBookedSlots(_ context.Context, _ pgquery.DBTX, tourID uuid.UUID, start, end time.Time, n int) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if i := c.store.exactIndex(tourID, start, end); i >= 0 {
		c.store.slots[i].Increment(n)
	}
	return nil
}

func (c *tourCatalog) DecrementBookedSlots(_ context.Context, _ pgquery.DBTX, tourID uuid.UUID, start, end time.Time, n int) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.store.FailRelease != nil {
		return c.store.FailRelease
	}
	if i := c.store.exactIndex(tourID, start, end); i >= 0 {
		c.store.slots[i].Decrement(n)
	}
	return nil
}

type commandReads struct {
	store *Store
}

func (r *commandReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return &u, nil
}

func (r *commandReads) TourByID(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	return (&tourCatalog{store: r.store}).GetTourByID(ctx, nil, id)
}

// ReadStore serves booking views from the same in-memory state.
type ReadStore struct {
	store *Store
}

func (s *Store) ReadStore() *ReadStore {
	return &ReadStore{store: s}
}

func (r *ReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	st, ok := r.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return r.view(st), nil
}

func (r *ReadStore) FindByCode(_ context.Context, code string) (*queries.BookingView, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var found *booking.State
	for _, st := range r.store.bookings {
		if st.BookingCode != code {
			continue
		}
		if found == nil || st.CreatedAt.Before(found.CreatedAt) {
			found = &st
		}
	}
	if found == nil {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return r.view(*found), nil
}

func (r *ReadStore) FindAll(_ context.Context, filter queries.BookingFilter, page queries.PageRequest) ([]*queries.BookingView, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []booking.State
	for _, st := range r.store.bookings {
		if matches(st, filter) {
			matched = append(matched, st)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if page.SortOrder == queries.SortAsc {
			return sortKeyLess(matched[i], matched[j], page.SortBy)
		}
		return sortKeyLess(matched[j], matched[i], page.SortBy)
	})

	total := len(matched)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Limit
	if page.Limit <= 0 || end > total {
		end = total
	}

	views := make([]*queries.BookingView, 0, end-start)
	for _, st := range matched[start:end] {
		views = append(views, r.view(st))
	}
	return views, total, nil
}

func (r *ReadStore) Statistics(_ context.Context) (*queries.BookingStatistics, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stats := &queries.BookingStatistics{}
	for _, st := range r.store.bookings {
		stats.Total++
		switch st.Status {
		case booking.StatusPending:
			stats.Pending++
		case booking.StatusConfirmed:
			stats.Confirmed++
		case booking.StatusCompleted:
			stats.Completed++
		case booking.StatusCancelled:
			stats.Cancelled++
		}
		if st.Status != booking.StatusCancelled {
			stats.TotalRevenue += st.Pricing.Total
		}
		stats.TotalPaid += st.Payment.PaidAmount
	}
	return stats, nil
}

func (r *ReadStore) view(st booking.State) *queries.BookingView {
	v := converter.BookingViewFromDomain(booking.Reconstruct(st))
	if t, ok := r.store.tours[st.TourID]; ok {
		v.Tour = &queries.TourSummary{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}
	if u, ok := r.store.users[st.UserID]; ok {
		v.User = &queries.UserSummary{ID: u.ID, FullName: u.FullName, Email: u.Email}
	}
	return v
}

func matches(st booking.State, f queries.BookingFilter) bool {
	if f.Status != nil && st.Status != *f.Status {
		return false
	}
	if f.UserID != nil && st.UserID != *f.UserID {
		return false
	}
	if f.TourID != nil && st.TourID != *f.TourID {
		return false
	}
	if f.StartFrom != nil && st.SelectedDate.StartDate.Before(*f.StartFrom) {
		return false
	}
	if f.StartTo != nil && st.SelectedDate.StartDate.After(*f.StartTo) {
		return false
	}
	return true
}

func sortKeyLess(a, b booking.State, by string) bool {
	switch by {
	case "updatedAt":
		return a.UpdatedAt.Before(b.UpdatedAt)
	case "startDate":
		return a.SelectedDate.StartDate.Before(b.SelectedDate.StartDate)
	case "total":
		return a.Pricing.Total < b.Pricing.Total
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
