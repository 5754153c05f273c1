package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository handles user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// FloorRepository handles floor persistence.
type FloorRepository interface {
	Create(ctx context.Context, floor *Floor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Floor, error)
	List(ctx context.Context) ([]Floor, error)
	Update(ctx context.Context, id uuid.UUID, update *FloorUpdate, updatedBy uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoomRepository handles room persistence.
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*Room, error)
	ListByFloor(ctx context.Context, floorID uuid.UUID) ([]Room, error)
	// ListCandidates returns rooms with capacity >= minCapacity that carry
	// every requested feature.
	ListCandidates(ctx context.Context, minCapacity int, features []Feature) ([]Room, error)
	Update(ctx context.Context, id uuid.UUID, update *RoomUpdate, updatedBy uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByFloor(ctx context.Context, floorID uuid.UUID) error
	// AppendBookingID and RemoveBookingID maintain the room's derived
	// booking index.
	AppendBookingID(ctx context.Context, roomID, bookingID uuid.UUID) error
	RemoveBookingID(ctx context.Context, roomID, bookingID uuid.UUID) error
}

// BookingRepository handles booking persistence and the conflict-detection
// primitives built over it. Only confirmed bookings participate in overlap
// queries; cancelled bookings are invisible to them.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	Update(ctx context.Context, booking *Booking) error
	// ListForUser returns a user's confirmed bookings starting at or after
	// from, ordered by start ascending.
	ListForUser(ctx context.Context, userID uuid.UUID, from time.Time) ([]Booking, error)
	// ListAll returns every confirmed booking starting at or after from,
	// ordered by start ascending.
	ListAll(ctx context.Context, from time.Time) ([]Booking, error)
	// HasOverlap reports whether any confirmed booking for the room
	// intersects the half-open window [start, end). A non-nil exclude id is
	// left out of the check so an update can ignore the booking being moved.
	HasOverlap(ctx context.Context, roomID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error)
	// ConflictingRoomIDs returns the subset of roomIDs that have at least
	// one confirmed booking intersecting [start, end), in one batch query.
	ConflictingRoomIDs(ctx context.Context, roomIDs []uuid.UUID, start, end time.Time) ([]uuid.UUID, error)
	// CountFutureConfirmed counts confirmed bookings across roomIDs with
	// start at or after from.
	CountFutureConfirmed(ctx context.Context, roomIDs []uuid.UUID, from time.Time) (int, error)
}

// TxStore bundles the repositories scoped to one storage transaction.
type TxStore interface {
	Floors() FloorRepository
	Rooms() RoomRepository
	Bookings() BookingRepository
}

// TxManager serializes check-then-write sequences per room. Both methods run
// fn inside a storage transaction that excludes other writers on the same
// scope; unrelated rooms stay fully concurrent. A returned error rolls the
// transaction back with no observable partial state.
type TxManager interface {
	// InRoomTx locks the single room identified by roomID.
	InRoomTx(ctx context.Context, roomID uuid.UUID, fn func(ctx context.Context, s TxStore) error) error
	// InFloorTx locks every room on the floor, for the floor-delete guard.
	InFloorTx(ctx context.Context, floorID uuid.UUID, fn func(ctx context.Context, s TxStore) error) error
}
