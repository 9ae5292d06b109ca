package timetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruet-cse/class-routine-api/internal/models"
)

// DefaultRooms is the department's fixed room inventory.
var DefaultRooms = []string{
	"101", "102", "103", "104", "201", "202", "203",
	"HPCL Lab", "PG Lab", "OS Lab", "NW Lab", "SW Lab", "HW Lab", "ACL Lab", "Mobile Apps Lab",
}

// codesPerWindow is the number of valid course codes per year/semester.
const codesPerWindow = 21

// CourseEntry is one proposed course for a cell. A lab period may host
// several entries at once (split sub-groups sharing the slot).
type CourseEntry struct {
	Code     string
	Teachers []string
	Rooms    []string
}

// PeriodSlot is one occupied period in a teacher's day.
type PeriodSlot struct {
	Period    int
	Sessional bool
}

// TeacherSchedule maps teacher -> section -> occupied slots for one day,
// merged across all batches.
type TeacherSchedule map[string]map[string][]PeriodSlot

// BuildTeacherSchedule collects every teacher's occupied periods on the
// given day across all batches.
func BuildTeacherSchedule(batches []models.Batch, day string) TeacherSchedule {
	schedule := TeacherSchedule{}
	for i := range batches {
		for section, periods := range batches[i].Schedule[day] {
			for key, assignment := range periods {
				if assignment == nil {
					continue
				}
				period, err := strconv.Atoi(key)
				if err != nil {
					continue
				}
				for _, teacher := range assignment.Teachers {
					if schedule[teacher] == nil {
						schedule[teacher] = map[string][]PeriodSlot{}
					}
					schedule[teacher][section] = append(schedule[teacher][section],
						PeriodSlot{Period: period, Sessional: assignment.IsSessional})
				}
			}
		}
	}
	return schedule
}

// DoubleBookedError is the hard blocking condition: the teacher already
// occupies the same period in a different section.
type DoubleBookedError struct {
	Teacher string
	Section string
	Period  int
}

func (e *DoubleBookedError) Error() string {
	return fmt.Sprintf("%s is already teaching in section %s at period %d", e.Teacher, e.Section, e.Period)
}

// Validator runs pre-flight rule checks on proposed course entries before
// the placement engine is attempted.
type Validator struct {
	rooms map[string]struct{}
}

// NewValidator builds a validator over the given room inventory; with no
// arguments the department default inventory applies.
func NewValidator(rooms ...string) *Validator {
	if len(rooms) == 0 {
		rooms = DefaultRooms
	}
	set := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		set[r] = struct{}{}
	}
	return &Validator{rooms: set}
}

// ValidateEntries checks all proposed entries for one cell and returns the
// accumulated violations. A cross-section teacher collision short-circuits
// as a DoubleBookedError instead of joining the list; placement must not
// proceed when it fires.
//
// occupiedRooms is an externally supplied map of period -> rooms blocked
// for that period (maintenance, reservations); it is independent of the
// schedule grids, which the conflict detector covers.
func (v *Validator) ValidateEntries(year, semester, section string, period int, entries []CourseEntry, schedule TeacherSchedule, occupiedRooms map[int][]string) ([]string, error) {
	var violations []string
	isLabPeriod := ValidSessionalStart(period)

	for i, entry := range entries {
		label := fmt.Sprintf("Course %d", i+1)

		code := strings.TrimSpace(entry.Code)
		value, numErr := codeValue(code)
		isLabCourse := numErr == nil && value%2 == 0

		switch {
		case code == "":
			violations = append(violations, label+": Code is required")
		case numErr != nil:
			violations = append(violations, label+": Code must be numeric")
		case !v.codeInWindow(value, year, semester):
			violations = append(violations, label+": Invalid course code")
		}

		if isLabCourse && !isLabPeriod {
			violations = append(violations, label+": Sessional courses (even codes) must be placed in lab periods (1,4,7)")
		}

		teachers := nonBlank(entry.Teachers)
		if len(teachers) == 0 {
			violations = append(violations, label+": At least one teacher required")
		}

		for _, teacher := range teachers {
			sections := schedule[teacher]

			if !isLabCourse {
				var lecturePeriods []int
				for _, slot := range sections[section] {
					if !slot.Sessional {
						lecturePeriods = append(lecturePeriods, slot.Period)
					}
				}
				proposed := append(lecturePeriods, period)

				if len(proposed) > 2 {
					violations = append(violations, fmt.Sprintf("%s can't have more than 2 lectures in section %s", teacher, section))
				} else if len(proposed) == 2 {
					diff := proposed[0] - proposed[1]
					if diff != 1 && diff != -1 {
						violations = append(violations, fmt.Sprintf("%s's lectures in section %s must be consecutive", teacher, section))
					}
				}
			}

			for other, slots := range sections {
				if other == section {
					continue
				}
				for _, slot := range slots {
					if slot.Period == period {
						return nil, &DoubleBookedError{Teacher: teacher, Section: other, Period: period}
					}
				}
			}
		}

		rooms := nonBlank(entry.Rooms)
		if len(rooms) == 0 {
			violations = append(violations, label+": At least one room required")
		} else {
			for _, room := range rooms {
				if _, ok := v.rooms[room]; !ok {
					violations = append(violations, label+": Invalid room selected")
					break
				}
			}
		}

		for _, room := range rooms {
			for _, occupied := range occupiedRooms[period] {
				if occupied == room {
					violations = append(violations, fmt.Sprintf("%s is occupied in period %d", room, period))
				}
			}
		}
	}

	return violations, nil
}

// codeInWindow checks the per-batch validity window
// base <= code < base+21 with base = yearDigit*1000 + semesterDigit*100.
func (v *Validator) codeInWindow(code int, year, semester string) bool {
	if year == "" {
		return false
	}
	yearDigit := int(year[0] - '0')
	if yearDigit < 1 || yearDigit > 9 {
		return false
	}
	semesterDigit := 1
	if strings.EqualFold(semester, "Even") {
		semesterDigit = 2
	}
	base := yearDigit*1000 + semesterDigit*100
	return code >= base && code < base+codesPerWindow
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
