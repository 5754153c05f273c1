package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/roomstack/roombook/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

// FloorService manages the floor and room catalog. Catalog reads go through
// the Redis cache when one is configured; every catalog write invalidates the
// affected entries. Deletes are guarded: a floor or room with future
// confirmed bookings cannot be removed.
type FloorService struct {
	tx           domain.TxManager
	floorRepo    domain.FloorRepository
	roomRepo     domain.RoomRepository
	catalogCache *redis.CatalogCache
}

// NewFloorService creates a new floor service. catalogCache may be nil, in
// which case reads always hit storage.
func NewFloorService(tx domain.TxManager, floorRepo domain.FloorRepository, roomRepo domain.RoomRepository, catalogCache *redis.CatalogCache) *FloorService {
	return &FloorService{
		tx:           tx,
		floorRepo:    floorRepo,
		roomRepo:     roomRepo,
		catalogCache: catalogCache,
	}
}

// CreateFloor creates a floor, optionally with an initial set of rooms.
func (s *FloorService) CreateFloor(ctx context.Context, principal domain.Principal, input domain.FloorCreate) (*domain.Floor, []domain.Room, error) {
	now := time.Now()
	floor := &domain.Floor{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Number:      *input.Number,
		Description: strings.TrimSpace(input.Description),
		CreatedBy:   principal.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.floorRepo.Create(ctx, floor); err != nil {
		return nil, nil, err
	}

	rooms := make([]domain.Room, 0, len(input.Rooms))
	for _, rc := range input.Rooms {
		room, err := s.createRoom(ctx, principal, floor.ID, rc, now)
		if err != nil {
			return nil, nil, err
		}
		rooms = append(rooms, *room)
	}

	s.invalidateFloors(ctx)
	return floor, rooms, nil
}

// ListFloors returns all floors ordered by floor number.
func (s *FloorService) ListFloors(ctx context.Context) ([]domain.Floor, error) {
	if s.catalogCache != nil {
		if floors, err := s.catalogCache.GetFloors(ctx); err == nil && floors != nil {
			return floors, nil
		}
	}

	floors, err := s.floorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floors: %w", err)
	}

	if s.catalogCache != nil {
		if err := s.catalogCache.SetFloors(ctx, floors); err != nil {
			log.Warn().Err(err).Msg("failed to cache floor list")
		}
	}

	return floors, nil
}

// GetFloor retrieves a floor by ID.
func (s *FloorService) GetFloor(ctx context.Context, floorID uuid.UUID) (*domain.Floor, error) {
	floor, err := s.floorRepo.GetByID(ctx, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get floor: %w", err)
	}
	if floor == nil {
		return nil, domain.NotFoundf("floor not found")
	}
	return floor, nil
}

// UpdateFloor applies a partial patch to a floor.
func (s *FloorService) UpdateFloor(ctx context.Context, principal domain.Principal, floorID uuid.UUID, patch domain.FloorUpdate) (*domain.Floor, error) {
	if patch.Empty() {
		return nil, domain.Validationf("at least one field must be provided for update")
	}

	floor, err := s.floorRepo.GetByID(ctx, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get floor: %w", err)
	}
	if floor == nil {
		return nil, domain.NotFoundf("floor not found")
	}

	if err := s.floorRepo.Update(ctx, floorID, &patch, principal.UserID); err != nil {
		return nil, err
	}

	updated, err := s.floorRepo.GetByID(ctx, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get floor: %w", err)
	}

	s.invalidateFloors(ctx)
	return updated, nil
}

// DeleteFloor removes a floor and all its rooms. The guard and the deletes
// run with every room on the floor locked, so a booking cannot slip in
// between the check and the removal.
func (s *FloorService) DeleteFloor(ctx context.Context, principal domain.Principal, floorID uuid.UUID) error {
	floor, err := s.floorRepo.GetByID(ctx, floorID)
	if err != nil {
		return fmt.Errorf("failed to get floor: %w", err)
	}
	if floor == nil {
		return domain.NotFoundf("floor not found")
	}

	err = s.tx.InFloorTx(ctx, floorID, func(ctx context.Context, store domain.TxStore) error {
		rooms, err := store.Rooms().ListByFloor(ctx, floorID)
		if err != nil {
			return fmt.Errorf("failed to list rooms: %w", err)
		}

		now := time.Now()
		for _, room := range rooms {
			count, err := store.Bookings().CountFutureConfirmed(ctx, []uuid.UUID{room.ID}, now)
			if err != nil {
				return fmt.Errorf("failed to count bookings: %w", err)
			}
			if count > 0 {
				return domain.Validationf("cannot delete floor: room %s has %d future booking(s)", room.Name, count)
			}
		}

		if err := store.Rooms().DeleteByFloor(ctx, floorID); err != nil {
			return fmt.Errorf("failed to delete rooms: %w", err)
		}
		if err := store.Floors().Delete(ctx, floorID); err != nil {
			return fmt.Errorf("failed to delete floor: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateFloors(ctx)
	s.invalidateFloorRooms(ctx, floorID)

	log.Info().Str("floor_id", floorID.String()).Msg("floor deleted")
	return nil
}

// ListRooms returns all rooms on a floor.
func (s *FloorService) ListRooms(ctx context.Context, floorID uuid.UUID) ([]domain.Room, error) {
	floor, err := s.floorRepo.GetByID(ctx, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get floor: %w", err)
	}
	if floor == nil {
		return nil, domain.NotFoundf("floor not found")
	}

	if s.catalogCache != nil {
		if rooms, err := s.catalogCache.GetFloorRooms(ctx, floorID); err == nil && rooms != nil {
			return rooms, nil
		}
	}

	rooms, err := s.roomRepo.ListByFloor(ctx, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	if s.catalogCache != nil {
		if err := s.catalogCache.SetFloorRooms(ctx, floorID, rooms); err != nil {
			log.Warn().Err(err).Msg("failed to cache room list")
		}
	}

	return rooms, nil
}

// CreateRoom adds a room to an existing floor.
func (s *FloorService) CreateRoom(ctx context.Context, principal domain.Principal, floorID uuid.UUID, input domain.RoomCreate) (*domain.Room, error) {
	floor, err := s.floorRepo.GetByID(ctx, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get floor: %w", err)
	}
	if floor == nil {
		return nil, domain.NotFoundf("floor not found")
	}

	room, err := s.createRoom(ctx, principal, floorID, input, time.Now())
	if err != nil {
		return nil, err
	}

	s.invalidateFloorRooms(ctx, floorID)
	return room, nil
}

// GetRoom retrieves a room by ID.
func (s *FloorService) GetRoom(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, domain.NotFoundf("room not found")
	}
	return room, nil
}

// UpdateRoom applies a partial patch to a room. Shrinking capacity does not
// touch existing bookings.
func (s *FloorService) UpdateRoom(ctx context.Context, principal domain.Principal, roomID uuid.UUID, patch domain.RoomUpdate) (*domain.Room, error) {
	if patch.Empty() {
		return nil, domain.Validationf("at least one field must be provided for update")
	}
	if patch.Features != nil {
		if err := validateFeatures(*patch.Features); err != nil {
			return nil, err
		}
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, domain.NotFoundf("room not found")
	}

	if err := s.roomRepo.Update(ctx, roomID, &patch, principal.UserID); err != nil {
		return nil, err
	}

	updated, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	s.invalidateFloorRooms(ctx, room.FloorID)
	return updated, nil
}

// DeleteRoom removes a room. The future-booking guard and the delete run
// under the room lock, excluding concurrent booking creation.
func (s *FloorService) DeleteRoom(ctx context.Context, principal domain.Principal, roomID uuid.UUID) error {
	var floorID uuid.UUID
	err := s.tx.InRoomTx(ctx, roomID, func(ctx context.Context, store domain.TxStore) error {
		room, err := store.Rooms().GetByID(ctx, roomID)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}
		if room == nil {
			return domain.NotFoundf("room not found")
		}
		floorID = room.FloorID

		count, err := store.Bookings().CountFutureConfirmed(ctx, []uuid.UUID{roomID}, time.Now())
		if err != nil {
			return fmt.Errorf("failed to count bookings: %w", err)
		}
		if count > 0 {
			return domain.Validationf("cannot delete room with %d future booking(s)", count)
		}

		return store.Rooms().Delete(ctx, roomID)
	})
	if err != nil {
		return err
	}

	s.invalidateFloorRooms(ctx, floorID)

	log.Info().Str("room_id", roomID.String()).Msg("room deleted")
	return nil
}

func (s *FloorService) createRoom(ctx context.Context, principal domain.Principal, floorID uuid.UUID, input domain.RoomCreate, now time.Time) (*domain.Room, error) {
	if err := validateFeatures(input.Features); err != nil {
		return nil, err
	}

	room := &domain.Room{
		ID:        uuid.New(),
		Number:    *input.Number,
		Name:      strings.TrimSpace(input.Name),
		Capacity:  *input.Capacity,
		Features:  input.Features,
		FloorID:   floorID,
		CreatedBy: principal.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Cache invalidation failures are logged, never surfaced: entries expire on
// their own TTL.
func (s *FloorService) invalidateFloors(ctx context.Context) {
	if s.catalogCache == nil {
		return
	}
	if err := s.catalogCache.InvalidateFloors(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate floor cache")
	}
}

func (s *FloorService) invalidateFloorRooms(ctx context.Context, floorID uuid.UUID) {
	if s.catalogCache == nil {
		return
	}
	if err := s.catalogCache.InvalidateFloorRooms(ctx, floorID); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate room cache")
	}
}
