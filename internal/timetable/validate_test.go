package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruet-cse/class-routine-api/internal/models"
)

func validEntry() CourseEntry {
	return CourseEntry{Code: "2101", Teachers: []string{"ABC"}, Rooms: []string{"101"}}
}

func TestValidateEntriesAccepts(t *testing.T) {
	v := NewValidator()

	violations, err := v.ValidateEntries("2nd", "Odd", "A", 3, []CourseEntry{validEntry()}, TeacherSchedule{}, nil)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidateEntriesRequiredFields(t *testing.T) {
	v := NewValidator()

	violations, err := v.ValidateEntries("2nd", "Odd", "A", 3, []CourseEntry{{}}, TeacherSchedule{}, nil)
	require.NoError(t, err)
	assert.Contains(t, violations, "Course 1: Code is required")
	assert.Contains(t, violations, "Course 1: At least one teacher required")
	assert.Contains(t, violations, "Course 1: At least one room required")
}

func TestValidateEntriesNonNumericCode(t *testing.T) {
	v := NewValidator()
	entry := validEntry()
	entry.Code = "abc"

	violations, err := v.ValidateEntries("2nd", "Odd", "A", 3, []CourseEntry{entry}, TeacherSchedule{}, nil)
	require.NoError(t, err)
	assert.Contains(t, violations, "Course 1: Code must be numeric")
}

func TestValidateEntriesCodeWindow(t *testing.T) {
	v := NewValidator()

	// 2nd year Odd semester: base 2100, window [2100, 2121).
	cases := []struct {
		code string
		ok   bool
	}{
		{"2100", true},
		{"2120", true},
		{"2121", false},
		{"2099", false},
		{"3101", false},
	}
	for _, tc := range cases {
		entry := validEntry()
		entry.Code = tc.code
		violations, err := v.ValidateEntries("2nd", "Odd", "A", 3, []CourseEntry{entry}, TeacherSchedule{}, nil)
		require.NoError(t, err)
		if tc.ok {
			assert.NotContains(t, violations, "Course 1: Invalid course code", "code %s", tc.code)
		} else {
			assert.Contains(t, violations, "Course 1: Invalid course code", "code %s", tc.code)
		}
	}
}

func TestValidateEntriesEvenSemesterWindow(t *testing.T) {
	v := NewValidator()
	entry := validEntry()
	entry.Code = "2201"

	violations, err := v.ValidateEntries("2nd", "Even", "A", 3, []CourseEntry{entry}, TeacherSchedule{}, nil)
	require.NoError(t, err)
	assert.NotContains(t, violations, "Course 1: Invalid course code")
}

func TestValidateEntriesSessionalNeedsLabPeriod(t *testing.T) {
	v := NewValidator()
	entry := validEntry()
	entry.Code = "2106"

	violations, err := v.ValidateEntries("2nd", "Odd", "A", 3, []CourseEntry{entry}, TeacherSchedule{}, nil)
	require.NoError(t, err)
	assert.Contains(t, violations, "Course 1: Sessional courses (even codes) must be placed in lab periods (1,4,7)")

	violations, err = v.ValidateEntries("2nd", "Odd", "A", 4, []CourseEntry{entry}, TeacherSchedule{}, nil)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidateEntriesLectureLoadLimit(t *testing.T) {
	v := NewValidator()
	schedule := TeacherSchedule{
		"ABC": {"A": {{Period: 2}, {Period: 3}}},
	}

	violations, err := v.ValidateEntries("2nd", "Odd", "A", 5, []CourseEntry{validEntry()}, schedule, nil)
	require.NoError(t, err)
	assert.Contains(t, violations, "ABC can't have more than 2 lectures in section A")
}

func TestValidateEntriesLectureAdjacency(t *testing.T) {
	v := NewValidator()
	schedule := TeacherSchedule{
		"ABC": {"A": {{Period: 2}}},
	}

	// Adjacent second lecture is fine.
	violations, err := v.ValidateEntries("2nd", "Odd", "A", 3, []CourseEntry{validEntry()}, schedule, nil)
	require.NoError(t, err)
	assert.Empty(t, violations)

	// A gap between the two lectures is not.
	violations, err = v.ValidateEntries("2nd", "Odd", "A", 5, []CourseEntry{validEntry()}, schedule, nil)
	require.NoError(t, err)
	assert.Contains(t, violations, "ABC's lectures in section A must be consecutive")
}

func TestValidateEntriesSessionalSlotsDoNotCountAsLectures(t *testing.T) {
	v := NewValidator()
	schedule := TeacherSchedule{
		"ABC": {"A": {
			{Period: 4, Sessional: true},
			{Period: 5, Sessional: true},
			{Period: 6, Sessional: true},
		}},
	}

	violations, err := v.ValidateEntries("2nd", "Odd", "A", 2, []CourseEntry{validEntry()}, schedule, nil)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidateEntriesCrossSectionDoubleBook(t *testing.T) {
	v := NewValidator()
	schedule := TeacherSchedule{
		"ABC": {"B": {{Period: 3}}},
	}

	violations, err := v.ValidateEntries("2nd", "Odd", "A", 3, []CourseEntry{validEntry()}, schedule, nil)
	require.Error(t, err)
	assert.Nil(t, violations)

	var dbErr *DoubleBookedError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, "ABC", dbErr.Teacher)
	assert.Equal(t, "B", dbErr.Section)
	assert.Equal(t, 3, dbErr.Period)
}

func TestValidateEntriesUnknownRoom(t *testing.T) {
	v := NewValidator()
	entry := validEntry()
	entry.Rooms = []string{"999"}

	violations, err := v.ValidateEntries("2nd", "Odd", "A", 3, []CourseEntry{entry}, TeacherSchedule{}, nil)
	require.NoError(t, err)
	assert.Contains(t, violations, "Course 1: Invalid room selected")
}

func TestValidateEntriesOccupiedRoom(t *testing.T) {
	v := NewValidator()
	occupied := map[int][]string{3: {"101"}}

	violations, err := v.ValidateEntries("2nd", "Odd", "A", 3, []CourseEntry{validEntry()}, TeacherSchedule{}, occupied)
	require.NoError(t, err)
	assert.Contains(t, violations, "101 is occupied in period 3")
}

func TestBuildTeacherSchedule(t *testing.T) {
	schedule, conflicts := models.NewEmptyGrids()
	batch := models.Batch{ID: "b1", Schedule: schedule, Conflicts: conflicts}
	batch.SetAssignment("sat", "A", 2, &models.CourseAssignment{Code: "2101", Teachers: []string{"ABC"}})
	batch.SetAssignment("sat", "B", 4, &models.CourseAssignment{Code: "2102", Teachers: []string{"ABC"}, IsSessional: true, StartPeriod: 4})
	batch.SetAssignment("sun", "A", 1, &models.CourseAssignment{Code: "2103", Teachers: []string{"ABC"}})

	got := BuildTeacherSchedule([]models.Batch{batch}, "sat")
	require.Contains(t, got, "ABC")
	assert.Equal(t, []PeriodSlot{{Period: 2}}, got["ABC"]["A"])
	assert.Equal(t, []PeriodSlot{{Period: 4, Sessional: true}}, got["ABC"]["B"])
	// Sunday's slot is not part of Saturday's schedule.
	assert.Len(t, got["ABC"], 2)
}
