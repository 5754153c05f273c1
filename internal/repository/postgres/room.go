package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/roomstack/roombook/internal/domain"
)

// RoomRepository handles room data access
type RoomRepository struct {
	q querier
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *DB) *RoomRepository {
	return &RoomRepository{q: db.Pool}
}

const roomColumns = `
	r.id, r.number, r.name, r.capacity, r.features, r.floor_id,
	(SELECT COALESCE(array_agg(rb.booking_id::text), '{}') FROM room_bookings rb WHERE rb.room_id = r.id),
	r.created_by, r.updated_by, r.created_at, r.updated_at
`

// Create inserts a new room
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (id, number, name, capacity, features, floor_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.Exec(ctx, query,
		room.ID,
		room.Number,
		room.Name,
		room.Capacity,
		featureStrings(room.Features),
		room.FloorID,
		room.CreatedBy,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		if conflict, ok := uniqueViolation(err); ok {
			return conflict
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms r WHERE r.id = $1`

	room, err := scanRoom(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// ListByFloor retrieves all rooms on a floor
func (r *RoomRepository) ListByFloor(ctx context.Context, floorID uuid.UUID) ([]domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms r WHERE r.floor_id = $1 ORDER BY r.number ASC`

	rows, err := r.q.Query(ctx, query, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	return collectRooms(rows)
}

// ListCandidates retrieves rooms with capacity >= minCapacity carrying every
// requested feature. The @> containment test is the set-subset check.
func (r *RoomRepository) ListCandidates(ctx context.Context, minCapacity int, features []domain.Feature) ([]domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms r WHERE r.capacity >= $1 AND r.features @> $2`

	rows, err := r.q.Query(ctx, query, minCapacity, featureStrings(features))
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate rooms: %w", err)
	}
	defer rows.Close()

	return collectRooms(rows)
}

// Update applies a partial room update
func (r *RoomRepository) Update(ctx context.Context, id uuid.UUID, update *domain.RoomUpdate, updatedBy uuid.UUID) error {
	var features *[]string
	if update.Features != nil {
		fs := featureStrings(*update.Features)
		features = &fs
	}

	query := `
		UPDATE rooms
		SET name = COALESCE($2, name),
		    capacity = COALESCE($3, capacity),
		    features = COALESCE($4, features),
		    updated_by = $5,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.q.Exec(ctx, query, id, update.Name, update.Capacity, features, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

// Delete removes a room
func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

// DeleteByFloor removes every room on a floor
func (r *RoomRepository) DeleteByFloor(ctx context.Context, floorID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM rooms WHERE floor_id = $1`, floorID); err != nil {
		return fmt.Errorf("failed to delete rooms for floor: %w", err)
	}
	return nil
}

// AppendBookingID adds a booking to the room's derived booking index
func (r *RoomRepository) AppendBookingID(ctx context.Context, roomID, bookingID uuid.UUID) error {
	query := `
		INSERT INTO room_bookings (room_id, booking_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, roomID, bookingID); err != nil {
		return fmt.Errorf("failed to index booking: %w", err)
	}
	return nil
}

// RemoveBookingID removes a booking from the room's derived booking index
func (r *RoomRepository) RemoveBookingID(ctx context.Context, roomID, bookingID uuid.UUID) error {
	query := `DELETE FROM room_bookings WHERE room_id = $1 AND booking_id = $2`

	if _, err := r.q.Exec(ctx, query, roomID, bookingID); err != nil {
		return fmt.Errorf("failed to unindex booking: %w", err)
	}
	return nil
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var (
		room       domain.Room
		features   []string
		bookingIDs []string
	)

	err := row.Scan(
		&room.ID,
		&room.Number,
		&room.Name,
		&room.Capacity,
		&features,
		&room.FloorID,
		&bookingIDs,
		&room.CreatedBy,
		&room.UpdatedBy,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	room.Features = make([]domain.Feature, 0, len(features))
	for _, f := range features {
		room.Features = append(room.Features, domain.Feature(f))
	}

	room.BookingIDs = make([]uuid.UUID, 0, len(bookingIDs))
	for _, raw := range bookingIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid booking id in index: %w", err)
		}
		room.BookingIDs = append(room.BookingIDs, id)
	}

	return &room, nil
}

func collectRooms(rows pgx.Rows) ([]domain.Room, error) {
	var rooms []domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, *room)
	}

	return rooms, rows.Err()
}

func featureStrings(features []domain.Feature) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		out = append(out, string(f))
	}
	return out
}
