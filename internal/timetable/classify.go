// Package timetable implements the placement and conflict-detection engine
// for weekly class routines. All functions operate on in-memory batch
// values and mutate nothing owned by the caller; placement returns a fresh
// batch with only the affected cells replaced.
package timetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruet-cse/class-routine-api/internal/models"
)

// SessionalStartPeriods are the only legal start periods for a three-period
// sessional block.
var SessionalStartPeriods = []int{1, 4, 7}

// Classification describes how a course occupies the grid when placed at a
// given period.
type Classification struct {
	IsSessional bool
	StartPeriod int
	Periods     []int
}

// Classify derives the course type and occupied-period set from the course
// code and target period. Even-valued codes are sessional and span three
// consecutive periods clipped to the end of the day; odd codes occupy the
// single target period.
func Classify(code string, period int) (Classification, error) {
	value, err := codeValue(code)
	if err != nil {
		return Classification{}, err
	}

	if value%2 != 0 {
		return Classification{Periods: []int{period}}, nil
	}

	cls := Classification{IsSessional: true, StartPeriod: period}
	for p := period; p <= period+2 && p <= models.LastPeriod; p++ {
		cls.Periods = append(cls.Periods, p)
	}
	return cls, nil
}

// ValidSessionalStart reports whether a sessional block may begin at period.
func ValidSessionalStart(period int) bool {
	for _, p := range SessionalStartPeriods {
		if p == period {
			return true
		}
	}
	return false
}

// codeValue parses the numeric value of the last token of a course code.
// Cells holding several courses carry a joined code like "2102/2104"; the
// leading digit run of the token decides the type, so the joined form
// classifies by its first course.
func codeValue(code string) (int, error) {
	fields := strings.Fields(strings.TrimSpace(code))
	if len(fields) == 0 {
		return 0, fmt.Errorf("course code is empty")
	}

	token := fields[len(fields)-1]
	digits := token
	for i, r := range token {
		if r < '0' || r > '9' {
			digits = token[:i]
			break
		}
	}
	if digits == "" {
		return 0, fmt.Errorf("course code %q is not numeric", code)
	}

	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("course code %q is not numeric", code)
	}
	return value, nil
}
