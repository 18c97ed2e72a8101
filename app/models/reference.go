package models

import "time"

// Branch represents one school branch (campus).
type Branch struct {
	ID        string    `json:"id" db:"id" validate:"required,uuid"`
	ShortName string    `json:"short_name" db:"short_name" validate:"required"`
	LegalName string    `json:"legal_name" db:"legal_name"`
	District  string    `json:"district,omitempty" db:"district"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Class represents a class (e.g. "Grade 10A") within a branch.
type Class struct {
	ID           string    `json:"id" db:"id" validate:"required,uuid"`
	BranchID     string    `json:"branch_id" db:"branch_id" validate:"required,uuid"`
	Name         string    `json:"name" db:"name" validate:"required"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	StudentCount int       `json:"student_count,omitempty" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Subject represents a taught subject.
type Subject struct {
	ID        string    `json:"id" db:"id" validate:"required,uuid"`
	Name      string    `json:"name" db:"name" validate:"required"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// User represents a staff account. Only teachers matter to this core;
// names are kept split for import resolution ("John Smith").
type User struct {
	ID        string    `json:"id" db:"id" validate:"required,uuid"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	Roles     []string  `json:"roles,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TeachingAssignment binds a teacher to a (class, subject, academic year)
// triple with a role. Auto-assignment only considers active TEACHER rows.
type TeachingAssignment struct {
	ID             string         `json:"id" db:"id"`
	TeacherID      string         `json:"teacher_id" db:"teacher_id" validate:"required,uuid"`
	ClassID        string         `json:"class_id" db:"class_id" validate:"required,uuid"`
	SubjectID      string         `json:"subject_id" db:"subject_id" validate:"required,uuid"`
	AcademicYearID string         `json:"academic_year_id" db:"academic_year_id" validate:"required,uuid"`
	Role           AssignmentRole `json:"role" db:"role"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}
