package domain

import (
	"time"

	"github.com/google/uuid"
)

// Feature is a bookable room amenity drawn from a fixed vocabulary.
type Feature string

const (
	FeatureProjector  Feature = "Projector"
	FeatureWhiteboard Feature = "Whiteboard"
	FeatureWifi       Feature = "Wifi"
)

// Features returns the full feature vocabulary.
func Features() []Feature {
	return []Feature{FeatureProjector, FeatureWhiteboard, FeatureWifi}
}

// Valid reports whether f belongs to the feature vocabulary.
func (f Feature) Valid() bool {
	switch f {
	case FeatureProjector, FeatureWhiteboard, FeatureWifi:
		return true
	}
	return false
}

// HasAllFeatures reports whether have contains every feature in want.
func HasAllFeatures(have, want []Feature) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Room represents a bookable meeting room.
//
// BookingIDs is a derived index over the room's confirmed bookings. It is
// maintained alongside booking writes but the booking collection filtered by
// room and status stays the source of truth; the index is rebuildable.
type Room struct {
	ID         uuid.UUID   `json:"id"`
	Number     int64       `json:"roomId"`
	Name       string      `json:"roomName"`
	Capacity   int         `json:"capacity"`
	Features   []Feature   `json:"roomFeatures"`
	FloorID    uuid.UUID   `json:"floorId"`
	BookingIDs []uuid.UUID `json:"bookings,omitempty"`
	CreatedBy  uuid.UUID   `json:"createdBy"`
	UpdatedBy  *uuid.UUID  `json:"updatedBy,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// RoomCreate represents room creation data.
type RoomCreate struct {
	Number   *int64    `json:"roomId" validate:"required,min=1"`
	Name     string    `json:"roomName" validate:"required,max=255"`
	Capacity *int      `json:"capacity" validate:"required,min=1"`
	Features []Feature `json:"roomFeatures"`
}

// RoomUpdate represents a partial room update. Shrinking capacity does not
// retroactively invalidate existing bookings.
type RoomUpdate struct {
	Name     *string    `json:"roomName,omitempty" validate:"omitempty,max=255"`
	Capacity *int       `json:"capacity,omitempty" validate:"omitempty,min=1"`
	Features *[]Feature `json:"roomFeatures,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (u RoomUpdate) Empty() bool {
	return u.Name == nil && u.Capacity == nil && u.Features == nil
}
