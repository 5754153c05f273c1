package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorCreate_WithRooms(t *testing.T) {
	env := newTestEnv(t)

	number := 3
	roomNumber := int64(301)
	capacity := 8
	floor, rooms, err := env.floors.CreateFloor(context.Background(), env.admin, domain.FloorCreate{
		Name:        "Third Floor",
		Number:      &number,
		Description: "west wing",
		Rooms: []domain.RoomCreate{
			{Number: &roomNumber, Name: "Boardroom", Capacity: &capacity, Features: []domain.Feature{domain.FeatureProjector}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Third Floor", floor.Name)
	assert.Equal(t, 3, floor.Number)
	assert.Equal(t, env.admin.UserID, floor.CreatedBy)
	require.Len(t, rooms, 1)
	assert.Equal(t, floor.ID, rooms[0].FloorID)

	listed, err := env.floors.ListRooms(context.Background(), floor.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestFloorCreate_Duplicates(t *testing.T) {
	env := newTestEnv(t)
	env.seedFloor(t, 1)

	floors, err := env.floors.ListFloors(context.Background())
	require.NoError(t, err)
	require.Len(t, floors, 1)

	number := 1
	_, _, err = env.floors.CreateFloor(context.Background(), env.admin, domain.FloorCreate{
		Name:   floors[0].Name,
		Number: &number,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFloorUpdate(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)

	_, err := env.floors.UpdateFloor(context.Background(), env.admin, floor.ID, domain.FloorUpdate{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	desc := "renovated"
	updated, err := env.floors.UpdateFloor(context.Background(), env.admin, floor.ID, domain.FloorUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "renovated", updated.Description)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, env.admin.UserID, *updated.UpdatedBy)

	_, err = env.floors.UpdateFloor(context.Background(), env.admin, uuid.New(), domain.FloorUpdate{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFloorDelete_GuardedByFutureBookings(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)
	booking := env.seedBooking(t, env.client, room.ID, 2, 4)

	err := env.floors.DeleteFloor(context.Background(), env.admin, floor.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Cancelling the booking clears the guard.
	_, err = env.bookings.Cancel(context.Background(), env.client, booking.ID)
	require.NoError(t, err)

	require.NoError(t, env.floors.DeleteFloor(context.Background(), env.admin, floor.ID))

	_, err = env.floors.GetFloor(context.Background(), floor.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.floors.GetRoom(context.Background(), room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomCreate(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)

	number := int64(101)
	capacity := 6
	_, err := env.floors.CreateRoom(context.Background(), env.admin, uuid.New(), domain.RoomCreate{
		Number: &number, Name: "Huddle", Capacity: &capacity,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.floors.CreateRoom(context.Background(), env.admin, floor.ID, domain.RoomCreate{
		Number: &number, Name: "Huddle", Capacity: &capacity,
		Features: []domain.Feature{"Sauna"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	room, err := env.floors.CreateRoom(context.Background(), env.admin, floor.ID, domain.RoomCreate{
		Number: &number, Name: "Huddle", Capacity: &capacity,
		Features: []domain.Feature{domain.FeatureWifi},
	})
	require.NoError(t, err)

	// Room numbers are globally unique.
	_, err = env.floors.CreateRoom(context.Background(), env.admin, floor.ID, domain.RoomCreate{
		Number: &number, Name: "Huddle 2", Capacity: &capacity,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := env.floors.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(101), got.Number)
}

func TestRoomUpdate(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 4, domain.FeatureWifi)

	_, err := env.floors.UpdateRoom(context.Background(), env.admin, room.ID, domain.RoomUpdate{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	badFeatures := []domain.Feature{"Pool"}
	_, err = env.floors.UpdateRoom(context.Background(), env.admin, room.ID, domain.RoomUpdate{Features: &badFeatures})
	assert.ErrorIs(t, err, domain.ErrValidation)

	capacity := 2
	features := []domain.Feature{domain.FeatureProjector}
	updated, err := env.floors.UpdateRoom(context.Background(), env.admin, room.ID, domain.RoomUpdate{
		Capacity: &capacity,
		Features: &features,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Capacity)
	assert.Equal(t, features, updated.Features)
}

// Shrinking capacity leaves existing larger bookings untouched.
func TestRoomUpdate_ShrinkKeepsBookings(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)

	start, end := window(2, 4)
	booking, err := env.bookings.Create(context.Background(), env.client, room.ID, domain.BookingCreate{
		Start: start, End: end, Capacity: 8, Purpose: "all hands",
	})
	require.NoError(t, err)

	capacity := 4
	_, err = env.floors.UpdateRoom(context.Background(), env.admin, room.ID, domain.RoomUpdate{Capacity: &capacity})
	require.NoError(t, err)

	got, err := env.bookings.Get(context.Background(), env.client, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	assert.Equal(t, 8, got.Capacity)
}

func TestRoomDelete_GuardedByFutureBookings(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)
	booking := env.seedBooking(t, env.client, room.ID, 2, 4)

	err := env.floors.DeleteRoom(context.Background(), env.admin, room.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.bookings.Cancel(context.Background(), env.client, booking.ID)
	require.NoError(t, err)

	require.NoError(t, env.floors.DeleteRoom(context.Background(), env.admin, room.ID))

	err = env.floors.DeleteRoom(context.Background(), env.admin, room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
