// Package memory provides an in-process implementation of the domain
// repositories and transaction manager. It backs local development and the
// service-level tests; the per-room critical section is a mutex keyed by
// room id instead of a database row lock.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/domain"
)

// Store holds all entities behind a single RWMutex plus one mutex per room
// for the check-then-write critical sections.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]domain.User
	floors   map[uuid.UUID]domain.Floor
	rooms    map[uuid.UUID]domain.Room
	bookings map[uuid.UUID]domain.Booking

	lockMu    sync.Mutex
	roomLocks map[uuid.UUID]*sync.Mutex
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:     make(map[uuid.UUID]domain.User),
		floors:    make(map[uuid.UUID]domain.Floor),
		rooms:     make(map[uuid.UUID]domain.Room),
		bookings:  make(map[uuid.UUID]domain.Booking),
		roomLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Users returns the user repository view of the store
func (s *Store) Users() domain.UserRepository { return &userRepo{s: s} }

// Floors returns the floor repository view of the store
func (s *Store) Floors() domain.FloorRepository { return &floorRepo{s: s} }

// Rooms returns the room repository view of the store
func (s *Store) Rooms() domain.RoomRepository { return &roomRepo{s: s} }

// Bookings returns the booking repository view of the store
func (s *Store) Bookings() domain.BookingRepository { return &bookingRepo{s: s} }

func (s *Store) roomLock(roomID uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	m, ok := s.roomLocks[roomID]
	if !ok {
		m = &sync.Mutex{}
		s.roomLocks[roomID] = m
	}
	return m
}

// InRoomTx serializes fn against other writers on the same room.
func (s *Store) InRoomTx(ctx context.Context, roomID uuid.UUID, fn func(ctx context.Context, ts domain.TxStore) error) error {
	m := s.roomLock(roomID)
	m.Lock()
	defer m.Unlock()

	return fn(ctx, s)
}

// InFloorTx serializes fn against writers on every room of the floor. Locks
// are taken in a stable order so two overlapping floor transactions cannot
// deadlock.
func (s *Store) InFloorTx(ctx context.Context, floorID uuid.UUID, fn func(ctx context.Context, ts domain.TxStore) error) error {
	s.mu.RLock()
	var ids []uuid.UUID
	for _, room := range s.rooms {
		if room.FloorID == floorID {
			ids = append(ids, room.ID)
		}
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		m := s.roomLock(id)
		m.Lock()
		defer m.Unlock()
	}

	return fn(ctx, s)
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.Conflictf("email already exists")
		}
	}

	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

type floorRepo struct{ s *Store }

func (r *floorRepo) Create(_ context.Context, floor *domain.Floor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.floors {
		if f.Name == floor.Name {
			return domain.Conflictf("floorName already exists")
		}
		if f.Number == floor.Number {
			return domain.Conflictf("floorNumber already exists")
		}
	}

	r.s.floors[floor.ID] = *floor
	return nil
}

func (r *floorRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Floor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.floors[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *floorRepo) List(_ context.Context) ([]domain.Floor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	floors := make([]domain.Floor, 0, len(r.s.floors))
	for _, f := range r.s.floors {
		floors = append(floors, f)
	}
	sort.Slice(floors, func(i, j int) bool { return floors[i].Number < floors[j].Number })
	return floors, nil
}

func (r *floorRepo) Update(_ context.Context, id uuid.UUID, update *domain.FloorUpdate, updatedBy uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.floors[id]
	if !ok {
		return nil
	}

	if update.Name != nil {
		for _, other := range r.s.floors {
			if other.ID != id && other.Name == *update.Name {
				return domain.Conflictf("floorName already exists")
			}
		}
		f.Name = *update.Name
	}
	if update.Description != nil {
		f.Description = *update.Description
	}
	f.UpdatedBy = &updatedBy
	f.UpdatedAt = time.Now()

	r.s.floors[id] = f
	return nil
}

func (r *floorRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.floors, id)
	return nil
}

type roomRepo struct{ s *Store }

func (r *roomRepo) Create(_ context.Context, room *domain.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.rooms {
		if existing.Number == room.Number {
			return domain.Conflictf("roomId already exists")
		}
	}

	r.s.rooms[room.ID] = cloneRoom(*room)
	return nil
}

func (r *roomRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	room, ok := r.s.rooms[id]
	if !ok {
		return nil, nil
	}
	out := cloneRoom(room)
	return &out, nil
}

func (r *roomRepo) ListByFloor(_ context.Context, floorID uuid.UUID) ([]domain.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rooms []domain.Room
	for _, room := range r.s.rooms {
		if room.FloorID == floorID {
			rooms = append(rooms, cloneRoom(room))
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })
	return rooms, nil
}

func (r *roomRepo) ListCandidates(_ context.Context, minCapacity int, features []domain.Feature) ([]domain.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rooms []domain.Room
	for _, room := range r.s.rooms {
		if room.Capacity >= minCapacity && domain.HasAllFeatures(room.Features, features) {
			rooms = append(rooms, cloneRoom(room))
		}
	}
	return rooms, nil
}

func (r *roomRepo) Update(_ context.Context, id uuid.UUID, update *domain.RoomUpdate, updatedBy uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room, ok := r.s.rooms[id]
	if !ok {
		return nil
	}

	if update.Name != nil {
		room.Name = *update.Name
	}
	if update.Capacity != nil {
		room.Capacity = *update.Capacity
	}
	if update.Features != nil {
		room.Features = append([]domain.Feature(nil), (*update.Features)...)
	}
	room.UpdatedBy = &updatedBy
	room.UpdatedAt = time.Now()

	r.s.rooms[id] = room
	return nil
}

func (r *roomRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.rooms, id)
	return nil
}

func (r *roomRepo) DeleteByFloor(_ context.Context, floorID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, room := range r.s.rooms {
		if room.FloorID == floorID {
			delete(r.s.rooms, id)
		}
	}
	return nil
}

func (r *roomRepo) AppendBookingID(_ context.Context, roomID, bookingID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room, ok := r.s.rooms[roomID]
	if !ok {
		return nil
	}
	for _, id := range room.BookingIDs {
		if id == bookingID {
			return nil
		}
	}
	room.BookingIDs = append(room.BookingIDs, bookingID)
	r.s.rooms[roomID] = room
	return nil
}

func (r *roomRepo) RemoveBookingID(_ context.Context, roomID, bookingID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room, ok := r.s.rooms[roomID]
	if !ok {
		return nil
	}
	kept := room.BookingIDs[:0]
	for _, id := range room.BookingIDs {
		if id != bookingID {
			kept = append(kept, id)
		}
	}
	room.BookingIDs = kept
	r.s.rooms[roomID] = room
	return nil
}

type bookingRepo struct{ s *Store }

func (r *bookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *bookingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *bookingRepo) Update(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[booking.ID]; !ok {
		return nil
	}
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *bookingRepo) ListForUser(_ context.Context, userID uuid.UUID, from time.Time) ([]domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var bookings []domain.Booking
	for _, b := range r.s.bookings {
		if b.UserID == userID && b.Status == domain.BookingConfirmed && !b.Start.Before(from) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].Start.Before(bookings[j].Start) })
	return bookings, nil
}

func (r *bookingRepo) ListAll(_ context.Context, from time.Time) ([]domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var bookings []domain.Booking
	for _, b := range r.s.bookings {
		if b.Status == domain.BookingConfirmed && !b.Start.Before(from) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].Start.Before(bookings[j].Start) })
	return bookings, nil
}

func (r *bookingRepo) HasOverlap(_ context.Context, roomID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.bookings {
		if b.RoomID != roomID || b.Status != domain.BookingConfirmed || b.ID == exclude {
			continue
		}
		if domain.Overlaps(b.Start, b.End, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *bookingRepo) ConflictingRoomIDs(_ context.Context, roomIDs []uuid.UUID, start, end time.Time) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = true
	}

	conflicting := make(map[uuid.UUID]bool)
	for _, b := range r.s.bookings {
		if !wanted[b.RoomID] || b.Status != domain.BookingConfirmed {
			continue
		}
		if domain.Overlaps(b.Start, b.End, start, end) {
			conflicting[b.RoomID] = true
		}
	}

	var ids []uuid.UUID
	for id := range conflicting {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *bookingRepo) CountFutureConfirmed(_ context.Context, roomIDs []uuid.UUID, from time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = true
	}

	count := 0
	for _, b := range r.s.bookings {
		if wanted[b.RoomID] && b.Status == domain.BookingConfirmed && !b.Start.Before(from) {
			count++
		}
	}
	return count, nil
}

func cloneRoom(room domain.Room) domain.Room {
	room.Features = append([]domain.Feature(nil), room.Features...)
	room.BookingIDs = append([]uuid.UUID(nil), room.BookingIDs...)
	return room
}
