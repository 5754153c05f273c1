package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/domain"
)

// AvailabilityService answers "which rooms are free" queries. It is a pure
// read path: no locks are taken, so a result can go stale the moment it is
// returned. The booking write path re-checks under the room lock, which is
// what actually upholds the no-double-booking guarantee.
type AvailabilityService struct {
	roomRepo    domain.RoomRepository
	bookingRepo domain.BookingRepository
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(roomRepo domain.RoomRepository, bookingRepo domain.BookingRepository) *AvailabilityService {
	return &AvailabilityService{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
	}
}

// Search returns the rooms that hold at least query.Capacity, carry every
// requested feature, and have no confirmed booking overlapping the window.
// No matching rooms is an empty result, not an error.
func (s *AvailabilityService) Search(ctx context.Context, query domain.AvailabilityQuery) ([]domain.Room, error) {
	if err := validateInterval(query.Start, query.End, time.Now()); err != nil {
		return nil, err
	}
	if err := validateFeatures(query.Features); err != nil {
		return nil, err
	}

	candidates, err := s.roomRepo.ListCandidates(ctx, query.Capacity, query.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate rooms: %w", err)
	}
	if len(candidates) == 0 {
		return []domain.Room{}, nil
	}

	roomIDs := make([]uuid.UUID, len(candidates))
	for i, room := range candidates {
		roomIDs[i] = room.ID
	}

	// One batch overlap query for all candidates instead of one per room.
	conflicting, err := s.bookingRepo.ConflictingRoomIDs(ctx, roomIDs, query.Start, query.End)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}

	busy := make(map[uuid.UUID]struct{}, len(conflicting))
	for _, id := range conflicting {
		busy[id] = struct{}{}
	}

	available := make([]domain.Room, 0, len(candidates))
	for _, room := range candidates {
		if _, ok := busy[room.ID]; !ok {
			available = append(available, room)
		}
	}

	return available, nil
}

// validateFeatures rejects features outside the known vocabulary, naming the
// allowed values in the error.
func validateFeatures(features []domain.Feature) error {
	var invalid []string
	for _, f := range features {
		if !f.Valid() {
			invalid = append(invalid, string(f))
		}
	}
	if len(invalid) == 0 {
		return nil
	}

	allowed := make([]string, 0, len(domain.Features()))
	for _, f := range domain.Features() {
		allowed = append(allowed, string(f))
	}
	return domain.Validationf("invalid features: %s. Allowed features are: %s",
		strings.Join(invalid, ", "), strings.Join(allowed, ", "))
}
