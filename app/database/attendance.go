package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/zsuyunov/abis-edu-sub011/app/attendance"
	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

// AttendanceStore is the SQL implementation of the ledger's store.
type AttendanceStore struct {
	DB *sql.DB
}

const attendanceColumns = `ar.id, ar.student_id, ar.timetable_slot_id, ar.date, ar.status,
		ar.branch_id, ar.class_id, ar.subject_id, ar.academic_year_id, ar.notes, ar.marked_by,
		ar.created_at, ar.updated_at`

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Insert creates a record and maps a natural-key collision to
// ErrDuplicateAttendance so the single-create path can reject it.
func (s *AttendanceStore) Insert(rec *models.AttendanceRecord) error {
	query := `INSERT INTO attendance_records
			  (id, student_id, timetable_slot_id, date, status,
			   branch_id, class_id, subject_id, academic_year_id, notes, marked_by,
			   created_at, updated_at)
			  VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := s.DB.QueryRow(query, rec.StudentID, rec.TimetableSlotID, rec.Date.Time, rec.Status,
		nullable(rec.BranchID), nullable(rec.ClassID), nullable(rec.SubjectID),
		nullable(rec.AcademicYearID), rec.Notes, rec.MarkedBy).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.ErrDuplicateAttendance
		}
		return err
	}
	return nil
}

// Upsert creates or overwrites a record keyed by the natural key.
func (s *AttendanceStore) Upsert(rec *models.AttendanceRecord) error {
	query := `INSERT INTO attendance_records
			  (id, student_id, timetable_slot_id, date, status,
			   branch_id, class_id, subject_id, academic_year_id, notes, marked_by,
			   created_at, updated_at)
			  VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			  ON CONFLICT ON CONSTRAINT attendance_records_natural_key
			  DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes,
				marked_by = EXCLUDED.marked_by, updated_at = NOW()
			  RETURNING id, created_at, updated_at`

	err := s.DB.QueryRow(query, rec.StudentID, rec.TimetableSlotID, rec.Date.Time, rec.Status,
		nullable(rec.BranchID), nullable(rec.ClassID), nullable(rec.SubjectID),
		nullable(rec.AcademicYearID), rec.Notes, rec.MarkedBy).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	return err
}

// filterClause builds the WHERE clause for a filter. The teacher filter
// goes through the slot's teacher set; everything else is a direct column.
func filterClause(f attendance.Filter) (string, []interface{}) {
	where := "WHERE 1=1"
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.BranchID != "" {
		where += " AND ar.branch_id = " + arg(f.BranchID)
	}
	if f.ClassID != "" {
		where += " AND ar.class_id = " + arg(f.ClassID)
	}
	if f.StudentID != "" {
		where += " AND ar.student_id = " + arg(f.StudentID)
	}
	if f.AcademicYearID != "" {
		where += " AND ar.academic_year_id = " + arg(f.AcademicYearID)
	}
	if f.Status != "" {
		where += " AND ar.status = " + arg(f.Status)
	}
	if f.Date != "" {
		where += " AND ar.date = " + arg(f.Date)
	}
	if f.TeacherID != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM timetable_slots ts
			WHERE ts.id = ar.timetable_slot_id AND ts.teacher_ids @> ` + arg(pq.Array([]string{f.TeacherID})) + `)`
	}
	return where, args
}

// List returns the filtered page of records plus the total match count.
func (s *AttendanceStore) List(f attendance.Filter) ([]models.AttendanceRecord, int, error) {
	where, args := filterClause(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM attendance_records ar ` + where
	if err := s.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	query := `SELECT ` + attendanceColumns + `
			  FROM attendance_records ar ` + where + `
			  ORDER BY ar.date DESC, ar.student_id ASC
			  LIMIT ` + fmt.Sprintf("$%d", len(args)+1) + ` OFFSET ` + fmt.Sprintf("$%d", len(args)+2)
	args = append(args, f.Limit, offset)

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		rec := models.AttendanceRecord{}
		var branch, class, subject, year sql.NullString
		err := rows.Scan(&rec.ID, &rec.StudentID, &rec.TimetableSlotID, &rec.Date.Time, &rec.Status,
			&branch, &class, &subject, &year, &rec.Notes, &rec.MarkedBy,
			&rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		rec.BranchID = branch.String
		rec.ClassID = class.String
		rec.SubjectID = subject.String
		rec.AcademicYearID = year.String
		records = append(records, rec)
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, total, rows.Err()
}

// Summarize returns the status breakdown over a filter scope in one query.
func (s *AttendanceStore) Summarize(f attendance.Filter) (models.AttendanceSummary, error) {
	where, args := filterClause(f)
	query := `SELECT
				COUNT(*) FILTER (WHERE ar.status = 'PRESENT'),
				COUNT(*) FILTER (WHERE ar.status = 'ABSENT'),
				COUNT(*) FILTER (WHERE ar.status = 'LATE'),
				COUNT(*) FILTER (WHERE ar.status = 'EXCUSED'),
				COUNT(*)
			  FROM attendance_records ar ` + where

	var sum models.AttendanceSummary
	err := s.DB.QueryRow(query, args...).Scan(&sum.Present, &sum.Absent, &sum.Late, &sum.Excused, &sum.Total)
	return sum, err
}
