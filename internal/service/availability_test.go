package service

import (
	"context"
	"testing"
	"time"

	"github.com/roomstack/roombook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilitySearch(t *testing.T) {
	env := newTestEnv(t)
	floor := env.seedFloor(t, 1)

	small := env.seedRoom(t, floor.ID, 4, domain.FeatureWifi)
	large := env.seedRoom(t, floor.ID, 12, domain.FeatureWifi, domain.FeatureProjector)
	busy := env.seedRoom(t, floor.ID, 12, domain.FeatureWifi, domain.FeatureProjector)
	env.seedBooking(t, env.client, busy.ID, 2, 4)

	start, end := window(2, 4)

	t.Run("capacity and features filter candidates", func(t *testing.T) {
		rooms, err := env.search.Search(context.Background(), domain.AvailabilityQuery{
			Capacity: 8,
			Start:    start,
			End:      end,
			Features: []domain.Feature{domain.FeatureProjector},
		})
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, large.ID, rooms[0].ID)
	})

	t.Run("busy room returns once its window is clear", func(t *testing.T) {
		laterStart, laterEnd := window(4, 6)
		rooms, err := env.search.Search(context.Background(), domain.AvailabilityQuery{
			Capacity: 8,
			Start:    laterStart,
			End:      laterEnd,
			Features: []domain.Feature{domain.FeatureProjector},
		})
		require.NoError(t, err)
		assert.Len(t, rooms, 2)
	})

	t.Run("boundary touching does not exclude", func(t *testing.T) {
		touchStart, touchEnd := window(0, 2)
		rooms, err := env.search.Search(context.Background(), domain.AvailabilityQuery{
			Capacity: 8,
			Start:    touchStart,
			End:      touchEnd,
			Features: []domain.Feature{domain.FeatureProjector},
		})
		require.NoError(t, err)
		assert.Len(t, rooms, 2)
	})

	t.Run("no features matches every candidate", func(t *testing.T) {
		rooms, err := env.search.Search(context.Background(), domain.AvailabilityQuery{
			Capacity: 1,
			Start:    start,
			End:      end,
		})
		require.NoError(t, err)
		assert.Len(t, rooms, 2) // small and large; busy is booked
		ids := []any{rooms[0].ID, rooms[1].ID}
		assert.Contains(t, ids, small.ID)
		assert.Contains(t, ids, large.ID)
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		rooms, err := env.search.Search(context.Background(), domain.AvailabilityQuery{
			Capacity: 100,
			Start:    start,
			End:      end,
		})
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})
}

func TestAvailabilitySearch_Validation(t *testing.T) {
	env := newTestEnv(t)
	start, end := window(0, 1)

	_, err := env.search.Search(context.Background(), domain.AvailabilityQuery{
		Capacity: 4, Start: end, End: start,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.search.Search(context.Background(), domain.AvailabilityQuery{
		Capacity: 4, Start: start.Add(-48 * time.Hour), End: end,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.search.Search(context.Background(), domain.AvailabilityQuery{
		Capacity: 4, Start: start, End: end,
		Features: []domain.Feature{"Jacuzzi"},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, domain.Message(err), "Jacuzzi")
	assert.Contains(t, domain.Message(err), "Projector")
}
