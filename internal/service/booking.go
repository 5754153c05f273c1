package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/rs/zerolog/log"
)

// BookingService owns the booking lifecycle. Every write that could change
// which intervals a room holds runs inside a per-room transaction, so the
// availability check and the write it guards are atomic against concurrent
// writers on the same room.
type BookingService struct {
	tx          domain.TxManager
	roomRepo    domain.RoomRepository
	bookingRepo domain.BookingRepository
}

// NewBookingService creates a new booking service
func NewBookingService(tx domain.TxManager, roomRepo domain.RoomRepository, bookingRepo domain.BookingRepository) *BookingService {
	return &BookingService{
		tx:          tx,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
	}
}

// Create books a room for the half-open window [input.Start, input.End).
// Validation failures surface before the room lock is taken; the overlap
// check and the insert happen together under it.
func (s *BookingService) Create(ctx context.Context, principal domain.Principal, roomID uuid.UUID, input domain.BookingCreate) (*domain.Booking, error) {
	now := time.Now()
	if err := validateInterval(input.Start, input.End, now); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Purpose) == "" {
		return nil, domain.Validationf("purpose is required")
	}

	var created *domain.Booking
	err := s.tx.InRoomTx(ctx, roomID, func(ctx context.Context, store domain.TxStore) error {
		room, err := store.Rooms().GetByID(ctx, roomID)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}
		if room == nil {
			return domain.NotFoundf("room not found")
		}
		if input.Capacity > room.Capacity {
			return domain.Validationf("requested capacity %d exceeds room capacity %d", input.Capacity, room.Capacity)
		}

		overlap, err := store.Bookings().HasOverlap(ctx, roomID, input.Start, input.End, uuid.Nil)
		if err != nil {
			return fmt.Errorf("failed to check overlap: %w", err)
		}
		if overlap {
			return domain.Conflictf("room is already booked for this time slot")
		}

		booking := &domain.Booking{
			ID:        uuid.New(),
			RoomID:    roomID,
			UserID:    principal.UserID,
			Start:     input.Start,
			End:       input.End,
			Capacity:  input.Capacity,
			Purpose:   strings.TrimSpace(input.Purpose),
			Status:    domain.BookingConfirmed,
			CreatedBy: principal.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.Bookings().Create(ctx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		if err := store.Rooms().AppendBookingID(ctx, roomID, booking.ID); err != nil {
			return fmt.Errorf("failed to index booking: %w", err)
		}

		created = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", created.ID.String()).
		Str("room_id", roomID.String()).
		Str("user_id", principal.UserID.String()).
		Time("start", created.Start).
		Time("end", created.End).
		Msg("booking created")

	return created, nil
}

// Update applies a partial patch to a confirmed booking. When the patch moves
// the booking in time, the resulting interval is re-checked for overlap under
// the room lock with the booking itself excluded, so an unchanged or shrunk
// window never conflicts with itself.
func (s *BookingService) Update(ctx context.Context, principal domain.Principal, bookingID uuid.UUID, patch domain.BookingUpdate) (*domain.Booking, error) {
	if patch.Empty() {
		return nil, domain.Validationf("at least one field must be provided for update")
	}

	// Read outside the lock to learn which room to lock; everything is
	// re-validated against committed state inside.
	existing, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if existing == nil {
		return nil, domain.NotFoundf("booking not found")
	}

	now := time.Now()
	var updated *domain.Booking
	err = s.tx.InRoomTx(ctx, existing.RoomID, func(ctx context.Context, store domain.TxStore) error {
		booking, err := store.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}
		if booking == nil {
			return domain.NotFoundf("booking not found")
		}
		if !principal.CanActOn(booking.UserID) {
			return domain.Forbiddenf("not authorized to modify this booking")
		}
		if booking.Status == domain.BookingCancelled {
			return domain.Validationf("cannot update a cancelled booking")
		}

		next := *booking
		if patch.Start != nil {
			next.Start = *patch.Start
		}
		if patch.End != nil {
			next.End = *patch.End
		}
		if patch.Capacity != nil {
			next.Capacity = *patch.Capacity
		}
		if patch.Purpose != nil {
			purpose := strings.TrimSpace(*patch.Purpose)
			if purpose == "" {
				return domain.Validationf("purpose is required")
			}
			next.Purpose = purpose
		}

		if patch.ChangesInterval() {
			if err := validateInterval(next.Start, next.End, now); err != nil {
				return err
			}
		}

		room, err := store.Rooms().GetByID(ctx, booking.RoomID)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}
		if room == nil {
			return domain.NotFoundf("room not found")
		}
		if next.Capacity > room.Capacity {
			return domain.Validationf("requested capacity %d exceeds room capacity %d", next.Capacity, room.Capacity)
		}

		if patch.ChangesInterval() {
			overlap, err := store.Bookings().HasOverlap(ctx, booking.RoomID, next.Start, next.End, booking.ID)
			if err != nil {
				return fmt.Errorf("failed to check overlap: %w", err)
			}
			if overlap {
				return domain.Conflictf("room is already booked for this time slot")
			}
		}

		next.UpdatedBy = &principal.UserID
		next.UpdatedAt = now
		if err := store.Bookings().Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Cancel marks a confirmed booking cancelled and drops it from the room's
// booking index. The record itself is kept; cancellation is terminal and the
// freed window becomes bookable immediately.
func (s *BookingService) Cancel(ctx context.Context, principal domain.Principal, bookingID uuid.UUID) (*domain.Booking, error) {
	existing, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if existing == nil {
		return nil, domain.NotFoundf("booking not found")
	}

	var cancelled *domain.Booking
	err = s.tx.InRoomTx(ctx, existing.RoomID, func(ctx context.Context, store domain.TxStore) error {
		booking, err := store.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}
		if booking == nil {
			return domain.NotFoundf("booking not found")
		}
		if !principal.CanActOn(booking.UserID) {
			return domain.Forbiddenf("not authorized to cancel this booking")
		}
		if booking.Status == domain.BookingCancelled {
			return domain.Validationf("booking is already cancelled")
		}

		booking.Status = domain.BookingCancelled
		booking.UpdatedBy = &principal.UserID
		booking.UpdatedAt = time.Now()
		if err := store.Bookings().Update(ctx, booking); err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}
		if err := store.Rooms().RemoveBookingID(ctx, booking.RoomID, booking.ID); err != nil {
			return fmt.Errorf("failed to deindex booking: %w", err)
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", cancelled.ID.String()).
		Str("room_id", cancelled.RoomID.String()).
		Msg("booking cancelled")

	return cancelled, nil
}

// Get retrieves a booking visible to the principal.
func (s *BookingService) Get(ctx context.Context, principal domain.Principal, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, domain.NotFoundf("booking not found")
	}
	if !principal.CanActOn(booking.UserID) {
		return nil, domain.Forbiddenf("not authorized to view this booking")
	}
	return booking, nil
}

// ListForUser returns a user's upcoming confirmed bookings, soonest first.
func (s *BookingService) ListForUser(ctx context.Context, principal domain.Principal, userID uuid.UUID) ([]domain.Booking, error) {
	if !principal.CanActOn(userID) {
		return nil, domain.Forbiddenf("not authorized to view these bookings")
	}

	bookings, err := s.bookingRepo.ListForUser(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListAll returns every upcoming confirmed booking across all rooms. Admins
// only.
func (s *BookingService) ListAll(ctx context.Context, principal domain.Principal) ([]domain.Booking, error) {
	if !principal.IsAdmin() {
		return nil, domain.Forbiddenf("not authorized to view all bookings")
	}

	bookings, err := s.bookingRepo.ListAll(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// validateInterval rejects windows that start in the past or do not end
// strictly after they start.
func validateInterval(start, end, now time.Time) error {
	if start.Before(now) {
		return domain.Validationf("start time cannot be in the past")
	}
	if !end.After(start) {
		return domain.Validationf("end time must be after start time")
	}
	return nil
}
