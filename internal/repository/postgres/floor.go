package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/roomstack/roombook/internal/domain"
)

// FloorRepository handles floor data access
type FloorRepository struct {
	q querier
}

// NewFloorRepository creates a new floor repository
func NewFloorRepository(db *DB) *FloorRepository {
	return &FloorRepository{q: db.Pool}
}

// Create inserts a new floor
func (r *FloorRepository) Create(ctx context.Context, floor *domain.Floor) error {
	query := `
		INSERT INTO floors (id, name, number, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		floor.ID,
		floor.Name,
		floor.Number,
		floor.Description,
		floor.CreatedBy,
		floor.CreatedAt,
		floor.UpdatedAt,
	)
	if err != nil {
		if conflict, ok := uniqueViolation(err); ok {
			return conflict
		}
		return fmt.Errorf("failed to create floor: %w", err)
	}

	return nil
}

// GetByID retrieves a floor by ID
func (r *FloorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Floor, error) {
	query := `
		SELECT id, name, number, description, created_by, updated_by, created_at, updated_at
		FROM floors
		WHERE id = $1
	`

	var floor domain.Floor
	err := r.q.QueryRow(ctx, query, id).Scan(
		&floor.ID,
		&floor.Name,
		&floor.Number,
		&floor.Description,
		&floor.CreatedBy,
		&floor.UpdatedBy,
		&floor.CreatedAt,
		&floor.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get floor: %w", err)
	}

	return &floor, nil
}

// List retrieves all floors ordered by number
func (r *FloorRepository) List(ctx context.Context) ([]domain.Floor, error) {
	query := `
		SELECT id, name, number, description, created_by, updated_by, created_at, updated_at
		FROM floors
		ORDER BY number ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list floors: %w", err)
	}
	defer rows.Close()

	var floors []domain.Floor
	for rows.Next() {
		var floor domain.Floor
		if err := rows.Scan(
			&floor.ID,
			&floor.Name,
			&floor.Number,
			&floor.Description,
			&floor.CreatedBy,
			&floor.UpdatedBy,
			&floor.CreatedAt,
			&floor.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan floor: %w", err)
		}
		floors = append(floors, floor)
	}

	return floors, rows.Err()
}

// Update applies a partial floor update
func (r *FloorRepository) Update(ctx context.Context, id uuid.UUID, update *domain.FloorUpdate, updatedBy uuid.UUID) error {
	query := `
		UPDATE floors
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_by = $4,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.q.Exec(ctx, query, id, update.Name, update.Description, updatedBy)
	if err != nil {
		if conflict, ok := uniqueViolation(err); ok {
			return conflict
		}
		return fmt.Errorf("failed to update floor: %w", err)
	}

	return nil
}

// Delete removes a floor
func (r *FloorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM floors WHERE id = $1`

	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete floor: %w", err)
	}

	return nil
}
