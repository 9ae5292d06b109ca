package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Fixed grid enumerations. A weekly routine spans five working days, three
// parallel sections per batch and nine class periods per day.
var (
	Days     = []string{"sat", "sun", "mon", "tue", "wed"}
	Sections = []string{"A", "B", "C"}
)

const (
	FirstPeriod = 1
	LastPeriod  = 9
)

// ValidDay reports whether day is one of the five working days.
func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// ValidSection reports whether section is one of A, B or C.
func ValidSection(section string) bool {
	for _, s := range Sections {
		if s == section {
			return true
		}
	}
	return false
}

// ValidPeriod reports whether period lies in the 1..9 range.
func ValidPeriod(period int) bool {
	return period >= FirstPeriod && period <= LastPeriod
}

// PeriodKey converts a period number to its string map key.
func PeriodKey(period int) string {
	return strconv.Itoa(period)
}

// CourseAssignment is a committed entry in a schedule cell. It is an
// immutable value: edits replace the whole assignment, never a field.
type CourseAssignment struct {
	Code        string   `json:"code"`
	Teachers    []string `json:"teachers"`
	Rooms       []string `json:"rooms"`
	IsSessional bool     `json:"isSessional"`
	StartPeriod int      `json:"startPeriod,omitempty"`
}

// ConflictRecord captures a rejected placement attempt for human review.
// It never participates in the active schedule.
type ConflictRecord struct {
	Code           string   `json:"code"`
	Teachers       []string `json:"teachers"`
	Rooms          []string `json:"rooms"`
	Sections       []string `json:"sections"`
	OriginalPeriod int      `json:"originalPeriod"`
}

// ScheduleGrid maps day -> section -> period key -> assignment. The grid is
// sparse: a missing entry at any level means the slot is free.
type ScheduleGrid map[string]map[string]map[string]*CourseAssignment

// ConflictGrid mirrors ScheduleGrid for conflict records.
type ConflictGrid map[string]map[string]map[string]*ConflictRecord

// Value implements driver.Valuer so the grid persists as JSONB.
func (g ScheduleGrid) Value() (driver.Value, error) {
	if g == nil {
		g = ScheduleGrid{}
	}
	return json.Marshal(g)
}

// Scan implements sql.Scanner for JSONB columns.
func (g *ScheduleGrid) Scan(src interface{}) error {
	return scanJSON(src, g)
}

// Value implements driver.Valuer so the grid persists as JSONB.
func (g ConflictGrid) Value() (driver.Value, error) {
	if g == nil {
		g = ConflictGrid{}
	}
	return json.Marshal(g)
}

// Scan implements sql.Scanner for JSONB columns.
func (g *ConflictGrid) Scan(src interface{}) error {
	return scanJSON(src, g)
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
}

// Batch is one student cohort with its weekly schedule and conflict log.
type Batch struct {
	ID        string       `db:"id" json:"id"`
	Year      string       `db:"year" json:"year"`
	Semester  string       `db:"semester" json:"semester"`
	Name      string       `db:"name" json:"name"`
	Color     string       `db:"color" json:"color"`
	Schedule  ScheduleGrid `db:"schedule" json:"schedule"`
	Conflicts ConflictGrid `db:"conflicts" json:"conflicts"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// NewEmptyGrids returns schedule and conflict grids with every day/section
// present and no entries, matching the shape of a freshly created batch.
func NewEmptyGrids() (ScheduleGrid, ConflictGrid) {
	schedule := make(ScheduleGrid, len(Days))
	conflicts := make(ConflictGrid, len(Days))
	for _, day := range Days {
		schedule[day] = make(map[string]map[string]*CourseAssignment, len(Sections))
		conflicts[day] = make(map[string]map[string]*ConflictRecord, len(Sections))
		for _, section := range Sections {
			schedule[day][section] = map[string]*CourseAssignment{}
			conflicts[day][section] = map[string]*ConflictRecord{}
		}
	}
	return schedule, conflicts
}

// Assignment reads the schedule cell at (day, section, period). Missing
// entries read as nil, never as an error.
func (b *Batch) Assignment(day, section string, period int) *CourseAssignment {
	if b.Schedule == nil {
		return nil
	}
	return b.Schedule[day][section][PeriodKey(period)]
}

// SetAssignment writes an assignment into exactly one cell, creating the
// intermediate maps on demand.
func (b *Batch) SetAssignment(day, section string, period int, a *CourseAssignment) {
	if b.Schedule == nil {
		b.Schedule = ScheduleGrid{}
	}
	if b.Schedule[day] == nil {
		b.Schedule[day] = map[string]map[string]*CourseAssignment{}
	}
	if b.Schedule[day][section] == nil {
		b.Schedule[day][section] = map[string]*CourseAssignment{}
	}
	b.Schedule[day][section][PeriodKey(period)] = a
}

// ClearAssignment removes the assignment at exactly one cell. Clearing an
// empty cell is a no-op.
func (b *Batch) ClearAssignment(day, section string, period int) {
	if b.Schedule == nil || b.Schedule[day] == nil || b.Schedule[day][section] == nil {
		return
	}
	delete(b.Schedule[day][section], PeriodKey(period))
}

// Conflict reads the conflict log entry at (day, section, period).
func (b *Batch) Conflict(day, section string, period int) *ConflictRecord {
	if b.Conflicts == nil {
		return nil
	}
	return b.Conflicts[day][section][PeriodKey(period)]
}

// SetConflict writes a conflict record for exactly one cell.
func (b *Batch) SetConflict(day, section string, period int, rec *ConflictRecord) {
	if b.Conflicts == nil {
		b.Conflicts = ConflictGrid{}
	}
	if b.Conflicts[day] == nil {
		b.Conflicts[day] = map[string]map[string]*ConflictRecord{}
	}
	if b.Conflicts[day][section] == nil {
		b.Conflicts[day][section] = map[string]*ConflictRecord{}
	}
	b.Conflicts[day][section][PeriodKey(period)] = rec
}

// ClearConflict removes the conflict record at exactly one cell.
func (b *Batch) ClearConflict(day, section string, period int) {
	if b.Conflicts == nil || b.Conflicts[day] == nil || b.Conflicts[day][section] == nil {
		return
	}
	delete(b.Conflicts[day][section], PeriodKey(period))
}

// Clone returns a deep copy of the batch. The placement engine edits the
// copy so that nothing is visible to callers until the outcome is final.
func (b *Batch) Clone() Batch {
	clone := *b

	if b.Schedule != nil {
		clone.Schedule = make(ScheduleGrid, len(b.Schedule))
		for day, sections := range b.Schedule {
			clone.Schedule[day] = make(map[string]map[string]*CourseAssignment, len(sections))
			for section, periods := range sections {
				clone.Schedule[day][section] = make(map[string]*CourseAssignment, len(periods))
				for key, assignment := range periods {
					clone.Schedule[day][section][key] = assignment.copy()
				}
			}
		}
	}

	if b.Conflicts != nil {
		clone.Conflicts = make(ConflictGrid, len(b.Conflicts))
		for day, sections := range b.Conflicts {
			clone.Conflicts[day] = make(map[string]map[string]*ConflictRecord, len(sections))
			for section, periods := range sections {
				clone.Conflicts[day][section] = make(map[string]*ConflictRecord, len(periods))
				for key, rec := range periods {
					clone.Conflicts[day][section][key] = rec.copy()
				}
			}
		}
	}

	return clone
}

func (a *CourseAssignment) copy() *CourseAssignment {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Teachers = append([]string(nil), a.Teachers...)
	cp.Rooms = append([]string(nil), a.Rooms...)
	return &cp
}

func (r *ConflictRecord) copy() *ConflictRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Teachers = append([]string(nil), r.Teachers...)
	cp.Rooms = append([]string(nil), r.Rooms...)
	cp.Sections = append([]string(nil), r.Sections...)
	return &cp
}

// BatchFilter describes query params for listing batches.
type BatchFilter struct {
	Year      string
	Semester  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
