package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

// Import error codes reported per failing row.
const (
	CodeUnresolvedReference = "UNRESOLVED_REFERENCE"
	CodeInvalidWindow       = "INVALID_WINDOW"
	CodeInvalidDate         = "INVALID_DATE"
	CodeOutOfYearRange      = "OUT_OF_ACADEMIC_YEAR_RANGE"
	CodeSchedulingConflict  = "SCHEDULING_CONFLICT"
	CodeBatchTooLarge       = "BATCH_TOO_LARGE"
)

// ImportRow is one parsed spreadsheet row of a bulk timetable upload.
// All fields are the raw cell values; Row is the 1-based data row number
// reported back on errors so corrections can target the bad rows.
type ImportRow struct {
	Row          int
	Branch       string
	Class        string
	AcademicYear string
	Subject      string
	Teacher      string
	Date         string
	StartTime    string
	EndTime      string
	RoomNumber   string
	BuildingName string
	Status       string
}

// RowError is one structured problem with one import row.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Code   string `json:"code"`
}

// ReferenceResolver resolves human-readable names from the spreadsheet to
// identifiers. A lookup miss is reported as ("", nil) / (nil, nil); a
// non-nil error means the reference store itself failed.
type ReferenceResolver interface {
	BranchIDByName(name string) (string, error)
	ClassIDByName(branchID, name string) (string, error)
	SubjectIDByName(name string) (string, error)
	TeacherIDByName(name string) (string, error)
	AcademicYearByName(name string) (*models.AcademicYear, error)
}

// SlotSource exposes the persisted active slots of a conflict scope.
type SlotSource interface {
	ActiveSlotsInScope(scope ScopeKey) ([]models.TimetableSlot, error)
}

// ImportValidator turns a tabular upload into a validated batch of slots
// plus a structured per-row error report. Rows are independent: a failing
// row never blocks its batch-mates.
type ImportValidator struct {
	Refs     ReferenceResolver
	Slots    SlotSource
	Detector ConflictDetector
	MaxRows  int
}

// Validate processes rows in order. Rows beyond MaxRows are rejected
// unparsed. Conflicts are checked both against persisted slots and
// against rows already accepted in this batch. The returned slots are
// built but not yet persisted.
func (v *ImportValidator) Validate(rows []ImportRow) ([]models.TimetableSlot, []RowError, error) {
	committed := make([]models.TimetableSlot, 0, len(rows))
	rowErrors := make([]RowError, 0)

	for i, row := range rows {
		if v.MaxRows > 0 && i >= v.MaxRows {
			rowErrors = append(rowErrors, RowError{
				Row:    row.Row,
				Field:  "",
				Reason: fmt.Sprintf("row limit of %d exceeded", v.MaxRows),
				Code:   CodeBatchTooLarge,
			})
			continue
		}

		slot, rowErr, err := v.validateRow(row, committed)
		if err != nil {
			return nil, nil, err
		}
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		committed = append(committed, *slot)
	}
	return committed, rowErrors, nil
}

func (v *ImportValidator) validateRow(row ImportRow, accepted []models.TimetableSlot) (*models.TimetableSlot, *RowError, error) {
	fail := func(field, reason, code string) (*models.TimetableSlot, *RowError, error) {
		return nil, &RowError{Row: row.Row, Field: field, Reason: reason, Code: code}, nil
	}

	// 1. Resolve names against reference data.
	branchID, err := v.Refs.BranchIDByName(strings.TrimSpace(row.Branch))
	if err != nil {
		return nil, nil, err
	}
	if branchID == "" {
		return fail("branch", fmt.Sprintf("unknown branch %q", row.Branch), CodeUnresolvedReference)
	}

	classID, err := v.Refs.ClassIDByName(branchID, strings.TrimSpace(row.Class))
	if err != nil {
		return nil, nil, err
	}
	if classID == "" {
		return fail("class", fmt.Sprintf("unknown class %q", row.Class), CodeUnresolvedReference)
	}

	year, err := v.Refs.AcademicYearByName(strings.TrimSpace(row.AcademicYear))
	if err != nil {
		return nil, nil, err
	}
	if year == nil {
		return fail("academicYear", fmt.Sprintf("unknown academic year %q", row.AcademicYear), CodeUnresolvedReference)
	}

	subjectID, err := v.Refs.SubjectIDByName(strings.TrimSpace(row.Subject))
	if err != nil {
		return nil, nil, err
	}
	if subjectID == "" {
		return fail("subject", fmt.Sprintf("unknown subject %q", row.Subject), CodeUnresolvedReference)
	}

	teacherID, err := v.Refs.TeacherIDByName(strings.TrimSpace(row.Teacher))
	if err != nil {
		return nil, nil, err
	}
	if teacherID == "" {
		return fail("teacher", fmt.Sprintf("unknown teacher %q", row.Teacher), CodeUnresolvedReference)
	}

	// 2. Parse date and time window.
	date, err := time.Parse("2006-01-02", strings.TrimSpace(row.Date))
	if err != nil {
		return fail("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", row.Date), CodeInvalidDate)
	}
	window, err := NewTimeWindow(row.StartTime, row.EndTime)
	if err != nil {
		field := "startTime"
		if _, perr := ParseClock(row.StartTime); perr == nil {
			field = "endTime"
		}
		return fail(field, err.Error(), CodeInvalidWindow)
	}

	// 3. The date must fall inside the academic year.
	if !year.Contains(date) {
		return fail("date", fmt.Sprintf("%s is outside academic year %s (%s – %s)",
			row.Date, year.Name,
			year.StartDate.Time.Format("2006-01-02"),
			year.EndDate.Time.Format("2006-01-02")), CodeOutOfYearRange)
	}

	if row.RoomNumber == "" {
		return fail("roomNumber", "room number is required", CodeUnresolvedReference)
	}

	status := models.SlotActive
	if s := strings.ToUpper(strings.TrimSpace(row.Status)); s != "" {
		if s != string(models.SlotActive) && s != string(models.SlotInactive) {
			return fail("status", fmt.Sprintf("unknown status %q", row.Status), CodeUnresolvedReference)
		}
		status = models.SlotStatus(s)
	}

	// 4. Conflicts: first against rows already accepted in this batch,
	// then against persisted slots.
	scope := ScopeKey{
		BranchID:   branchID,
		ClassID:    classID,
		RoomNumber: strings.TrimSpace(row.RoomNumber),
		DayKey:     date.Format("2006-01-02"),
	}
	if ids := v.Detector.Detect(window, scope, accepted); len(ids) > 0 {
		return fail("startTime", "overlaps another row in this upload", CodeSchedulingConflict)
	}
	persisted, err := v.Slots.ActiveSlotsInScope(scope)
	if err != nil {
		return nil, nil, err
	}
	if ids := v.Detector.Detect(window, scope, persisted); len(ids) > 0 {
		return fail("startTime", fmt.Sprintf("overlaps existing slot %s", ids[0]), CodeSchedulingConflict)
	}

	// Imported rows are single-track: each is its own composition.
	slot := &models.TimetableSlot{
		ID:             uuid.New().String(),
		CompositionID:  uuid.New().String(),
		BranchID:       branchID,
		ClassID:        classID,
		AcademicYearID: year.ID,
		SubjectID:      subjectID,
		TeacherIDs:     []string{teacherID},
		Date:           &models.CustomTime{Time: date},
		StartTime:      window.StartClock(),
		EndTime:        window.EndClock(),
		RoomNumber:     scope.RoomNumber,
		BuildingName:   strings.TrimSpace(row.BuildingName),
		Status:         status,
		IsActive:       status == models.SlotActive,
	}
	return slot, nil, nil
}
