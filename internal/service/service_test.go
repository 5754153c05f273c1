package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/roomstack/roombook/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

// Shared fixtures for the service tests, all running against the in-memory
// store so the per-room critical sections are exercised for real.

type testEnv struct {
	store    *memory.Store
	bookings *BookingService
	floors   *FloorService
	search   *AvailabilityService

	admin  domain.Principal
	client domain.Principal
	other  domain.Principal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	return &testEnv{
		store:    store,
		bookings: NewBookingService(store, store.Rooms(), store.Bookings()),
		floors:   NewFloorService(store, store.Floors(), store.Rooms(), nil),
		search:   NewAvailabilityService(store.Rooms(), store.Bookings()),
		admin:    domain.Principal{UserID: uuid.New(), Email: "admin@example.com", Role: domain.RoleAdmin},
		client:   domain.Principal{UserID: uuid.New(), Email: "client@example.com", Role: domain.RoleClient},
		other:    domain.Principal{UserID: uuid.New(), Email: "other@example.com", Role: domain.RoleClient},
	}
}

func (e *testEnv) seedFloor(t *testing.T, number int) *domain.Floor {
	t.Helper()

	floor, _, err := e.floors.CreateFloor(context.Background(), e.admin, domain.FloorCreate{
		Name:   "Floor " + uuid.NewString()[:8],
		Number: &number,
	})
	require.NoError(t, err)
	return floor
}

var roomNumberSeq int64

func (e *testEnv) seedRoom(t *testing.T, floorID uuid.UUID, capacity int, features ...domain.Feature) *domain.Room {
	t.Helper()

	roomNumberSeq++
	number := roomNumberSeq
	room, err := e.floors.CreateRoom(context.Background(), e.admin, floorID, domain.RoomCreate{
		Number:   &number,
		Name:     "Room " + uuid.NewString()[:8],
		Capacity: &capacity,
		Features: features,
	})
	require.NoError(t, err)
	return room
}

// window returns a half-open window [base+fromHours, base+toHours) anchored a
// day in the future so past-start validation never trips.
func window(fromHours, toHours int) (time.Time, time.Time) {
	base := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	return base.Add(time.Duration(fromHours) * time.Hour), base.Add(time.Duration(toHours) * time.Hour)
}

func (e *testEnv) seedBooking(t *testing.T, p domain.Principal, roomID uuid.UUID, fromHours, toHours int) *domain.Booking {
	t.Helper()

	start, end := window(fromHours, toHours)
	booking, err := e.bookings.Create(context.Background(), p, roomID, domain.BookingCreate{
		Start:    start,
		End:      end,
		Capacity: 1,
		Purpose:  "team sync",
	})
	require.NoError(t, err)
	return booking
}
