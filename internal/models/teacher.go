package models

import "time"

// Teacher represents an instructor record. Schedules reference teachers by
// short name; deleting a teacher does not cascade into existing grids.
type Teacher struct {
	ID          string    `db:"id" json:"id"`
	FullName    string    `db:"full_name" json:"full_name"`
	ShortName   string    `db:"short_name" json:"short_name"`
	Designation string    `db:"designation" json:"designation"`
	Department  string    `db:"department" json:"department"`
	University  string    `db:"university" json:"university"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search     string
	Department string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
