package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/roomstack/roombook/internal/domain"
)

// TxManager serializes check-then-write sequences per room using row-level
// locks. Writers on the same room queue behind SELECT ... FOR UPDATE and
// re-run their checks against committed state; unrelated rooms stay fully
// concurrent.
type TxManager struct {
	db *DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// InRoomTx runs fn inside a transaction holding the lock on one room row.
// Locking zero rows is fine: the room does not exist and fn's own room
// lookup reports that.
func (tm *TxManager) InRoomTx(ctx context.Context, roomID uuid.UUID, fn func(ctx context.Context, s domain.TxStore) error) error {
	return tm.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT 1 FROM rooms WHERE id = $1 FOR UPDATE`, roomID); err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}
		return fn(ctx, &txStore{tx: tx})
	})
}

// InFloorTx runs fn inside a transaction holding locks on every room of a
// floor, so the floor-delete guard excludes concurrent booking creation on
// any of its rooms.
func (tm *TxManager) InFloorTx(ctx context.Context, floorID uuid.UUID, fn func(ctx context.Context, s domain.TxStore) error) error {
	return tm.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT 1 FROM rooms WHERE floor_id = $1 FOR UPDATE`, floorID); err != nil {
			return fmt.Errorf("failed to lock floor rooms: %w", err)
		}
		return fn(ctx, &txStore{tx: tx})
	})
}

func (tm *TxManager) inTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	tx, err := tm.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// txStore exposes the repositories scoped to one transaction.
type txStore struct {
	tx pgx.Tx
}

func (s *txStore) Floors() domain.FloorRepository {
	return &FloorRepository{q: s.tx}
}

func (s *txStore) Rooms() domain.RoomRepository {
	return &RoomRepository{q: s.tx}
}

func (s *txStore) Bookings() domain.BookingRepository {
	return &BookingRepository{q: s.tx}
}
