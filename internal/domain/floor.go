package domain

import (
	"time"

	"github.com/google/uuid"
)

// Floor represents a building floor containing meeting rooms.
type Floor struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"floorName"`
	Number      int        `json:"floorNumber"`
	Description string     `json:"floorDescription"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	UpdatedBy   *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FloorCreate represents floor creation data. Rooms may be created inline.
type FloorCreate struct {
	Name        string       `json:"floorName" validate:"required,max=255"`
	Number      *int         `json:"floorNumber" validate:"required,min=0"`
	Description string       `json:"floorDescription" validate:"max=1024"`
	Rooms       []RoomCreate `json:"rooms" validate:"omitempty,dive"`
}

// FloorUpdate represents a partial floor update.
type FloorUpdate struct {
	Name        *string `json:"floorName,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"floorDescription,omitempty" validate:"omitempty,max=1024"`
}

// Empty reports whether the patch changes nothing.
func (u FloorUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil
}
