package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func TestErrorKinds(t *testing.T) {
	err := Conflictf("room is already booked for this time slot")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "room is already booked for this time slot", err.Error())
}

func TestMessageSurvivesWrapping(t *testing.T) {
	inner := NotFoundf("room not found")
	wrapped := fmt.Errorf("create booking: %w", inner)

	require.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "room not found", Message(wrapped))
}

func TestMessageUnknownError(t *testing.T) {
	assert.Equal(t, "", Message(errors.New("pq: connection refused")))
}
