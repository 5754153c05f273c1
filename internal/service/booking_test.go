package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingCreate(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)

	start, end := window(0, 1)
	booking, err := env.bookings.Create(context.Background(), env.client, room.ID, domain.BookingCreate{
		Start:    start,
		End:      end,
		Capacity: 4,
		Purpose:  "planning",
	})
	require.NoError(t, err)

	assert.Equal(t, room.ID, booking.RoomID)
	assert.Equal(t, env.client.UserID, booking.UserID)
	assert.Equal(t, domain.BookingConfirmed, booking.Status)
	assert.Equal(t, env.client.UserID, booking.CreatedBy)

	// The room's derived index picks up the new booking.
	stored, err := env.floors.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.BookingIDs, booking.ID)
}

func TestBookingCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 4)

	start, end := window(0, 1)

	tests := []struct {
		name  string
		input domain.BookingCreate
	}{
		{"start in the past", domain.BookingCreate{Start: start.Add(-48 * time.Hour), End: end, Capacity: 2, Purpose: "x"}},
		{"end before start", domain.BookingCreate{Start: end, End: start, Capacity: 2, Purpose: "x"}},
		{"end equals start", domain.BookingCreate{Start: start, End: start, Capacity: 2, Purpose: "x"}},
		{"capacity exceeds room", domain.BookingCreate{Start: start, End: end, Capacity: 5, Purpose: "x"}},
		{"blank purpose", domain.BookingCreate{Start: start, End: end, Capacity: 2, Purpose: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.bookings.Create(context.Background(), env.client, room.ID, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err := env.bookings.Create(context.Background(), env.client, uuid.New(), domain.BookingCreate{
		Start: start, End: end, Capacity: 2, Purpose: "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingCreate_Conflict(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)
	env.seedBooking(t, env.client, room.ID, 2, 4)

	cases := []struct {
		name     string
		from, to int
		wantErr  bool
	}{
		{"identical window", 2, 4, true},
		{"overlaps the start", 1, 3, true},
		{"overlaps the end", 3, 5, true},
		{"contained inside", 2, 3, true},
		{"contains existing", 1, 5, true},
		{"touches at start boundary", 0, 2, false},
		{"touches at end boundary", 4, 6, false},
		{"disjoint before", 0, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := window(tc.from, tc.to)
			_, err := env.bookings.Create(context.Background(), env.other, room.ID, domain.BookingCreate{
				Start: start, End: end, Capacity: 1, Purpose: "standup",
			})
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrConflict)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingCreate_OtherRoomUnaffected(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	roomA := env.seedRoom(t, floor.ID, 10)
	roomB := env.seedRoom(t, floor.ID, 10)
	env.seedBooking(t, env.client, roomA.ID, 2, 4)

	start, end := window(2, 4)
	_, err := env.bookings.Create(context.Background(), env.other, roomB.ID, domain.BookingCreate{
		Start: start, End: end, Capacity: 1, Purpose: "standup",
	})
	assert.NoError(t, err)
}

// Many writers race for the same slot; exactly one may win.
func TestBookingCreate_ConcurrentSameSlot(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)

	const writers = 16
	start, end := window(1, 2)

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := domain.Principal{UserID: uuid.New(), Role: domain.RoleClient}
			_, errs[i] = env.bookings.Create(context.Background(), p, room.ID, domain.BookingCreate{
				Start: start, End: end, Capacity: 1, Purpose: "race",
			})
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, domain.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, conflicts)

	all, err := env.bookings.ListAll(context.Background(), env.admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBookingUpdate(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)
	booking := env.seedBooking(t, env.client, room.ID, 2, 4)

	// Shrinking inside the original window must not conflict with itself.
	newEnd := booking.Start.Add(booking.End.Sub(booking.Start) / 2)
	updated, err := env.bookings.Update(context.Background(), env.client, booking.ID, domain.BookingUpdate{
		End: &newEnd,
	})
	require.NoError(t, err)
	assert.Equal(t, newEnd, updated.End)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, env.client.UserID, *updated.UpdatedBy)

	// Moving onto another booking conflicts.
	env.seedBooking(t, env.other, room.ID, 6, 8)
	s6, e8 := window(6, 8)
	_, err = env.bookings.Update(context.Background(), env.client, booking.ID, domain.BookingUpdate{
		Start: &s6, End: &e8,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Patch without fields is rejected.
	_, err = env.bookings.Update(context.Background(), env.client, booking.ID, domain.BookingUpdate{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// A different client cannot touch the booking; admins can.
	purpose := "retro"
	_, err = env.bookings.Update(context.Background(), env.other, booking.ID, domain.BookingUpdate{Purpose: &purpose})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err = env.bookings.Update(context.Background(), env.admin, booking.ID, domain.BookingUpdate{Purpose: &purpose})
	require.NoError(t, err)
	assert.Equal(t, "retro", updated.Purpose)
}

func TestBookingCancel(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)
	booking := env.seedBooking(t, env.client, room.ID, 2, 4)

	_, err := env.bookings.Cancel(context.Background(), env.other, booking.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cancelled, err := env.bookings.Cancel(context.Background(), env.client, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)

	// Cancellation is terminal.
	_, err = env.bookings.Cancel(context.Background(), env.client, booking.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	capacity := 2
	_, err = env.bookings.Update(context.Background(), env.client, booking.ID, domain.BookingUpdate{Capacity: &capacity})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// The freed window is immediately bookable and the index dropped it.
	rebooked := env.seedBooking(t, env.other, room.ID, 2, 4)
	stored, err := env.floors.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.BookingIDs, booking.ID)
	assert.Contains(t, stored.BookingIDs, rebooked.ID)
}

func TestBookingLists(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)

	later := env.seedBooking(t, env.client, room.ID, 6, 7)
	earlier := env.seedBooking(t, env.client, room.ID, 2, 3)
	env.seedBooking(t, env.other, room.ID, 4, 5)

	mine, err := env.bookings.ListForUser(context.Background(), env.client, env.client.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, earlier.ID, mine[0].ID)
	assert.Equal(t, later.ID, mine[1].ID)

	// Clients cannot read someone else's list; admins can.
	_, err = env.bookings.ListForUser(context.Background(), env.other, env.client.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	theirs, err := env.bookings.ListForUser(context.Background(), env.admin, env.client.UserID)
	require.NoError(t, err)
	assert.Len(t, theirs, 2)

	_, err = env.bookings.ListAll(context.Background(), env.client)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := env.bookings.ListAll(context.Background(), env.admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBookingGet(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)
	room := env.seedRoom(t, floor.ID, 10)
	booking := env.seedBooking(t, env.client, room.ID, 2, 4)

	got, err := env.bookings.Get(context.Background(), env.client, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	_, err = env.bookings.Get(context.Background(), env.other, booking.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.bookings.Get(context.Background(), env.client, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
