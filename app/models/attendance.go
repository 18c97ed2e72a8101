package models

import "time"

// AttendanceRecord is one status observation of one student for one slot
// occurrence on one date. (student_id, timetable_slot_id, date) is the
// natural key and is globally unique.
type AttendanceRecord struct {
	ID              string           `json:"id" db:"id"`
	StudentID       string           `json:"student_id" db:"student_id" validate:"required"`
	TimetableSlotID string           `json:"timetable_slot_id" db:"timetable_slot_id" validate:"required"`
	Date            CustomTime       `json:"date" db:"date" validate:"required"`
	Status          AttendanceStatus `json:"status" db:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	BranchID        string           `json:"branch_id" db:"branch_id"`
	ClassID         string           `json:"class_id" db:"class_id"`
	SubjectID       string           `json:"subject_id" db:"subject_id"`
	AcademicYearID  string           `json:"academic_year_id" db:"academic_year_id"`
	Notes           string           `json:"notes,omitempty" db:"notes"`
	MarkedBy        *string          `json:"marked_by,omitempty" db:"marked_by"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// Key returns the record's natural key.
func (r *AttendanceRecord) Key() AttendanceKey {
	return AttendanceKey{
		StudentID:       r.StudentID,
		TimetableSlotID: r.TimetableSlotID,
		Date:            r.Date.Time.Format("2006-01-02"),
	}
}

// AttendanceKey is the composite natural key of an attendance record.
type AttendanceKey struct {
	StudentID       string
	TimetableSlotID string
	Date            string
}

// AttendanceSummary is the status breakdown over a filter scope.
type AttendanceSummary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
	Total   int `json:"total"`
}
