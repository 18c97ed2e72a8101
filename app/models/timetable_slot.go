package models

import (
	"time"

	"github.com/lib/pq"
)

// TimetableSlot represents one scheduled occurrence of a class meeting:
// a time window on a day (or concrete date) in a room, bound to one
// subject and the set of teachers delivering it. Composition changes are
// whole-slot replace operations, never field-by-field edits. Parallel
// tracks written by one replace share a CompositionID; that is what lets
// them legally occupy the same window.
type TimetableSlot struct {
	ID             string         `json:"id" db:"id"`
	CompositionID  string         `json:"composition_id" db:"composition_id"`
	BranchID       string         `json:"branch_id" db:"branch_id" validate:"required,uuid"`
	ClassID        string         `json:"class_id" db:"class_id" validate:"required,uuid"`
	AcademicYearID string         `json:"academic_year_id" db:"academic_year_id" validate:"required,uuid"`
	SubjectID      string         `json:"subject_id" db:"subject_id" validate:"required,uuid"`
	TeacherIDs     pq.StringArray `json:"teacher_ids" db:"teacher_ids"`
	DayOfWeek      *string        `json:"day_of_week,omitempty" db:"day_of_week"`
	Date           *CustomTime    `json:"date,omitempty" db:"date"`
	StartTime      string         `json:"start_time" db:"start_time"`
	EndTime        string         `json:"end_time" db:"end_time"`
	RoomNumber     string         `json:"room_number" db:"room_number"`
	BuildingName   string         `json:"building_name,omitempty" db:"building_name"`
	Status         SlotStatus     `json:"status" db:"status"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`

	SubjectName string `json:"subject_name,omitempty" db:"-"`
	ClassName   string `json:"class_name,omitempty" db:"-"`
}

// DayKey returns the value that identifies the slot's day for conflict
// scoping: the concrete date when present, otherwise the weekday name.
func (s *TimetableSlot) DayKey() string {
	if s.Date != nil && !s.Date.Time.IsZero() {
		return s.Date.Time.Format("2006-01-02")
	}
	if s.DayOfWeek != nil {
		return *s.DayOfWeek
	}
	return ""
}
