package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/roomstack/roombook/internal/domain"
)

// BookingRepository handles booking data access
type BookingRepository struct {
	q querier
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{q: db.Pool}
}

const bookingColumns = `
	id, room_id, user_id, start_time, end_time, capacity, purpose, status,
	created_by, updated_by, created_at, updated_at
`

// Create inserts a new booking
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.Exec(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.UserID,
		booking.Start,
		booking.End,
		booking.Capacity,
		booking.Purpose,
		booking.Status,
		booking.CreatedBy,
		booking.UpdatedBy,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// Update writes the full booking row
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET start_time = $2, end_time = $3, capacity = $4, purpose = $5,
		    status = $6, updated_by = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := r.q.Exec(ctx, query,
		booking.ID,
		booking.Start,
		booking.End,
		booking.Capacity,
		booking.Purpose,
		booking.Status,
		booking.UpdatedBy,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return nil
}

// ListForUser retrieves a user's confirmed bookings starting at or after from
func (r *BookingRepository) ListForUser(ctx context.Context, userID uuid.UUID, from time.Time) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND status = 'confirmed' AND start_time >= $2
		ORDER BY start_time ASC
	`

	rows, err := r.q.Query(ctx, query, userID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListAll retrieves every confirmed booking starting at or after from
func (r *BookingRepository) ListAll(ctx context.Context, from time.Time) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'confirmed' AND start_time >= $1
		ORDER BY start_time ASC
	`

	rows, err := r.q.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// HasOverlap reports whether any confirmed booking for the room intersects
// the half-open window [start, end). The symmetric test start_time < end AND
// end_time > start covers partial overlap, containment, and coincidence;
// boundary-touching intervals do not match.
func (r *BookingRepository) HasOverlap(ctx context.Context, roomID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND status = 'confirmed'
			  AND start_time < $3
			  AND end_time > $2
			  AND id <> $4
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, roomID, start, end, exclude).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}

	return exists, nil
}

// ConflictingRoomIDs returns the subset of roomIDs with at least one
// confirmed booking intersecting [start, end), in one batch query.
func (r *BookingRepository) ConflictingRoomIDs(ctx context.Context, roomIDs []uuid.UUID, start, end time.Time) ([]uuid.UUID, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT room_id::text
		FROM bookings
		WHERE room_id::text = ANY($1)
		  AND status = 'confirmed'
		  AND start_time < $3
		  AND end_time > $2
	`

	rows, err := r.q.Query(ctx, query, uuidStrings(roomIDs), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicting rooms: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan room id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid room id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CountFutureConfirmed counts confirmed bookings across roomIDs with start
// at or after from
func (r *BookingRepository) CountFutureConfirmed(ctx context.Context, roomIDs []uuid.UUID, from time.Time) (int, error) {
	if len(roomIDs) == 0 {
		return 0, nil
	}

	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE room_id::text = ANY($1)
		  AND status = 'confirmed'
		  AND start_time >= $2
	`

	var count int
	if err := r.q.QueryRow(ctx, query, uuidStrings(roomIDs), from).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count future bookings: %w", err)
	}

	return count, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var booking domain.Booking
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserID,
		&booking.Start,
		&booking.End,
		&booking.Capacity,
		&booking.Purpose,
		&booking.Status,
		&booking.CreatedBy,
		&booking.UpdatedBy,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
