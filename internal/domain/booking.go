package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking. Cancellation is
// terminal; a cancelled booking never returns to confirmed.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking represents a reservation of a room for a half-open time window
// [Start, End). For a fixed room, confirmed bookings are pairwise
// non-overlapping.
type Booking struct {
	ID        uuid.UUID     `json:"id"`
	RoomID    uuid.UUID     `json:"roomId"`
	UserID    uuid.UUID     `json:"userId"`
	Start     time.Time     `json:"startTime"`
	End       time.Time     `json:"endTime"`
	Capacity  int           `json:"capacity"`
	Purpose   string        `json:"purpose"`
	Status    BookingStatus `json:"status"`
	CreatedBy uuid.UUID     `json:"createdBy"`
	UpdatedBy *uuid.UUID    `json:"updatedBy,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// BookingCreate represents booking creation data.
type BookingCreate struct {
	Start    time.Time `json:"startTime" validate:"required"`
	End      time.Time `json:"endTime" validate:"required"`
	Capacity int       `json:"capacity" validate:"required,min=1"`
	Purpose  string    `json:"purpose" validate:"required,max=1024"`
}

// BookingUpdate represents a partial booking update.
type BookingUpdate struct {
	Start    *time.Time `json:"startTime,omitempty"`
	End      *time.Time `json:"endTime,omitempty"`
	Capacity *int       `json:"capacity,omitempty" validate:"omitempty,min=1"`
	Purpose  *string    `json:"purpose,omitempty" validate:"omitempty,max=1024"`
}

// Empty reports whether the patch changes nothing.
func (u BookingUpdate) Empty() bool {
	return u.Start == nil && u.End == nil && u.Capacity == nil && u.Purpose == nil
}

// ChangesInterval reports whether the patch moves the booking in time.
func (u BookingUpdate) ChangesInterval() bool {
	return u.Start != nil || u.End != nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. The symmetric two-inequality form covers partial
// overlap, containment in either direction, and exact coincidence; intervals
// that merely touch at a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
