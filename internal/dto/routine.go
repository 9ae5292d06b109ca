package dto

import (
	"github.com/ruet-cse/class-routine-api/internal/models"
	"github.com/ruet-cse/class-routine-api/internal/timetable"
)

// CourseEntryRequest is one proposed course for a cell.
type CourseEntryRequest struct {
	Code     string   `json:"code" validate:"required"`
	Teachers []string `json:"teachers" validate:"required,min=1"`
	Rooms    []string `json:"rooms" validate:"required,min=1"`
}

// CellEditRequest asks for a placement attempt at one grid cell.
// OccupiedRooms optionally blocks rooms per period independent of the
// schedule grids (maintenance, external reservations).
type CellEditRequest struct {
	Day           string               `json:"day" validate:"required"`
	Section       string               `json:"section" validate:"required"`
	Period        int                  `json:"period" validate:"required,min=1,max=9"`
	Courses       []CourseEntryRequest `json:"courses" validate:"required,min=1,dive"`
	OccupiedRooms map[int][]string     `json:"occupied_rooms,omitempty"`
}

// CellDeleteRequest clears one grid cell, expanding over a sessional block
// when the period is the block start.
type CellDeleteRequest struct {
	Day     string `json:"day" validate:"required"`
	Section string `json:"section" validate:"required"`
	Period  int    `json:"period" validate:"required,min=1,max=9"`
}

// CellEditResult reports the outcome of a placement attempt back to the
// editing surface.
type CellEditResult struct {
	Outcome    string                  `json:"outcome"`
	Reason     string                  `json:"reason,omitempty"`
	Violations []string                `json:"violations,omitempty"`
	Collisions *timetable.CollisionSet `json:"collisions,omitempty"`
	Batch      *models.Batch           `json:"batch,omitempty"`
}

// OutcomeRejected marks an attempt that failed validation and mutated nothing.
const OutcomeRejected = string(timetable.OutcomeRejected)
