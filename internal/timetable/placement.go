package timetable

import (
	"fmt"

	"github.com/ruet-cse/class-routine-api/internal/models"
)

// Outcome is the terminal state of a placement attempt.
type Outcome string

const (
	// OutcomeCommitted means the schedule was updated.
	OutcomeCommitted Outcome = "committed"
	// OutcomeRecorded means a conflict was logged and the schedule left as is.
	OutcomeRecorded Outcome = "recorded"
	// OutcomeRejected means the attempt was structurally invalid and nothing changed.
	OutcomeRejected Outcome = "rejected"
)

// RejectReasonSessionalPlacement flags a sessional block starting outside
// periods 1, 4 or 7.
const RejectReasonSessionalPlacement = "INVALID_SESSIONAL_PLACEMENT"

// Result reports the outcome of a placement attempt. Batch carries the
// updated value for committed and recorded outcomes.
type Result struct {
	Outcome    Outcome
	Reason     string
	Batch      models.Batch
	Collisions CollisionSet
}

// Place runs one placement attempt of candidate into
// batches[batchIndex] at (day, section, period).
//
// The attempt classifies the candidate, clears any stale conflict record at
// the target cell, detects collisions against all batches over every period
// the candidate would occupy, and then either commits the assignment into
// the whole occupied-period set or records a conflict leaving the prior
// schedule content untouched. The input batches are never mutated.
func Place(batches []models.Batch, batchIndex int, day, section string, period int, candidate models.CourseAssignment) (Result, error) {
	if batchIndex < 0 || batchIndex >= len(batches) {
		return Result{}, fmt.Errorf("batch index %d out of range", batchIndex)
	}
	if !models.ValidDay(day) || !models.ValidSection(section) || !models.ValidPeriod(period) {
		return Result{}, fmt.Errorf("invalid cell coordinate (%s, %s, %d)", day, section, period)
	}

	cls, err := Classify(candidate.Code, period)
	if err != nil {
		return Result{}, err
	}

	if cls.IsSessional && !ValidSessionalStart(period) {
		return Result{Outcome: OutcomeRejected, Reason: RejectReasonSessionalPlacement}, nil
	}

	updated := batches[batchIndex].Clone()

	// A new attempt for the cell supersedes whatever conflict the last
	// attempt recorded there.
	updated.ClearConflict(day, section, period)

	var collisions CollisionSet
	for _, p := range cls.Periods {
		collisions.merge(Detect(batches, day, p, section, candidate.Teachers, candidate.Rooms))
	}

	if collisions.Blocking() {
		updated.SetConflict(day, section, period, &models.ConflictRecord{
			Code:           candidate.Code,
			Teachers:       collisions.Teachers,
			Rooms:          collisions.Rooms,
			Sections:       collisions.Sections,
			OriginalPeriod: period,
		})
		return Result{Outcome: OutcomeRecorded, Batch: updated, Collisions: collisions}, nil
	}

	committed := candidate
	committed.IsSessional = cls.IsSessional
	if cls.IsSessional {
		committed.StartPeriod = cls.StartPeriod
	} else {
		committed.StartPeriod = 0
	}
	for _, p := range cls.Periods {
		entry := committed
		updated.SetAssignment(day, section, p, &entry)
	}

	return Result{Outcome: OutcomeCommitted, Batch: updated, Collisions: collisions}, nil
}

// DeleteCell removes the content of one cell, expanding to the whole
// sessional block when the targeted period is the block's start. The
// conflict record at the exact targeted period is cleared unconditionally.
// Deleting an empty cell returns the batch unchanged.
func DeleteCell(batch models.Batch, day, section string, period int) models.Batch {
	updated := batch.Clone()

	periods := []int{period}
	if current := updated.Assignment(day, section, period); current != nil &&
		current.IsSessional && current.StartPeriod == period {
		periods = nil
		for p := period; p <= period+2 && p <= models.LastPeriod; p++ {
			periods = append(periods, p)
		}
	}

	for _, p := range periods {
		updated.ClearAssignment(day, section, p)
	}
	updated.ClearConflict(day, section, period)

	return updated
}
