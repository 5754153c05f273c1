package domain

import "time"

// AvailabilityQuery asks which rooms can host a meeting of a given size,
// with a set of required features, over the half-open window [Start, End).
type AvailabilityQuery struct {
	Capacity int       `json:"capacity" validate:"required,min=1"`
	Start    time.Time `json:"startTime" validate:"required"`
	End      time.Time `json:"endTime" validate:"required"`
	Features []Feature `json:"roomFeatures"`
}
