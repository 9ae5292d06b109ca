package timetable

import (
	"sort"

	"github.com/ruet-cse/class-routine-api/internal/models"
)

// CollisionSet holds the resources a candidate assignment would double-book
// at one (day, period), plus any other sections occupied at that period.
type CollisionSet struct {
	Teachers []string `json:"teachers"`
	Rooms    []string `json:"rooms"`
	Sections []string `json:"sections"`
}

// Blocking reports whether a concrete resource collides. A bare section
// overlap without a shared teacher or room does not block placement.
func (c CollisionSet) Blocking() bool {
	return len(c.Teachers) > 0 || len(c.Rooms) > 0
}

func (c *CollisionSet) merge(other CollisionSet) {
	c.Teachers = unionSorted(c.Teachers, other.Teachers)
	c.Rooms = unionSorted(c.Rooms, other.Rooms)
	c.Sections = unionSorted(c.Sections, other.Sections)
}

// Detect scans every batch and section at exactly (day, period) and
// intersects each occupied cell's teachers and rooms with the candidate
// sets. Sections other than excludeSection that hold anything at the
// period are reported regardless of resource overlap; callers decide what
// a bare section overlap means.
func Detect(batches []models.Batch, day string, period int, excludeSection string, teachers, rooms []string) CollisionSet {
	teacherSet := toSet(teachers)
	roomSet := toSet(rooms)

	hitTeachers := map[string]struct{}{}
	hitRooms := map[string]struct{}{}
	hitSections := map[string]struct{}{}

	for i := range batches {
		daySections := batches[i].Schedule[day]
		for section, periods := range daySections {
			assignment := periods[models.PeriodKey(period)]
			if assignment == nil {
				continue
			}
			for _, t := range assignment.Teachers {
				if _, ok := teacherSet[t]; ok {
					hitTeachers[t] = struct{}{}
				}
			}
			for _, r := range assignment.Rooms {
				if _, ok := roomSet[r]; ok {
					hitRooms[r] = struct{}{}
				}
			}
			if section != excludeSection {
				hitSections[section] = struct{}{}
			}
		}
	}

	return CollisionSet{
		Teachers: sortedKeys(hitTeachers),
		Rooms:    sortedKeys(hitRooms),
		Sections: sortedKeys(hitSections),
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unionSorted(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	set := toSet(a)
	for _, v := range b {
		set[v] = struct{}{}
	}
	return sortedKeys(set)
}
