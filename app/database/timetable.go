package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/zsuyunov/abis-edu-sub011/app/models"
	"github.com/zsuyunov/abis-edu-sub011/app/scheduling"
)

// SlotStore is the SQL implementation of the scheduling store interfaces.
type SlotStore struct {
	DB *sql.DB
}

const slotColumns = `id, composition_id, branch_id, class_id, academic_year_id, subject_id, teacher_ids,
		day_of_week, date, start_minute, end_minute, room_number, building_name,
		status, is_active, created_at, updated_at`

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func scanSlot(scanner interface{ Scan(...interface{}) error }) (*models.TimetableSlot, error) {
	slot := &models.TimetableSlot{}
	var (
		day      sql.NullString
		date     sql.NullTime
		startMin int
		endMin   int
	)
	err := scanner.Scan(&slot.ID, &slot.CompositionID, &slot.BranchID, &slot.ClassID, &slot.AcademicYearID,
		&slot.SubjectID, (*pq.StringArray)(&slot.TeacherIDs), &day, &date,
		&startMin, &endMin, &slot.RoomNumber, &slot.BuildingName,
		&slot.Status, &slot.IsActive, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if day.Valid {
		d := day.String
		slot.DayOfWeek = &d
	}
	if date.Valid {
		slot.Date = &models.CustomTime{Time: date.Time}
	}
	slot.StartTime = minutesToClock(startMin)
	slot.EndTime = minutesToClock(endMin)
	return slot, nil
}

// SlotByID returns the slot or (nil, nil) when no row matches.
func (s *SlotStore) SlotByID(id string) (*models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots WHERE id = $1`
	slot, err := scanSlot(s.DB.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *SlotStore) querySlots(query string, args ...interface{}) ([]models.TimetableSlot, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []models.TimetableSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}
	return slots, rows.Err()
}

// ActiveSlotsInScope returns every active slot in a conflict scope.
func (s *SlotStore) ActiveSlotsInScope(scope scheduling.ScopeKey) ([]models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots
			  WHERE branch_id = $1 AND class_id = $2 AND room_number = $3 AND day_key = $4
				AND is_active = true`
	return s.querySlots(query, scope.BranchID, scope.ClassID, scope.RoomNumber, scope.DayKey)
}

// ActiveSlotsAt returns every active slot occupying the exact
// (scope, window, academic year) tuple.
func (s *SlotStore) ActiveSlotsAt(scope scheduling.ScopeKey, window scheduling.TimeWindow, academicYearID string) ([]models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots
			  WHERE branch_id = $1 AND class_id = $2 AND room_number = $3 AND day_key = $4
				AND academic_year_id = $5 AND start_minute = $6 AND end_minute = $7
				AND is_active = true`
	return s.querySlots(query, scope.BranchID, scope.ClassID, scope.RoomNumber, scope.DayKey,
		academicYearID, window.Start, window.End)
}

// GetClassTimetable returns a class's active slots with subject names,
// ordered for display.
func (s *SlotStore) GetClassTimetable(classID string) ([]models.TimetableSlot, error) {
	query := `SELECT ts.id, ts.composition_id, ts.branch_id, ts.class_id, ts.academic_year_id, ts.subject_id,
				ts.teacher_ids, ts.day_of_week, ts.date, ts.start_minute, ts.end_minute,
				ts.room_number, ts.building_name, ts.status, ts.is_active,
				ts.created_at, ts.updated_at, sub.name, c.name
			  FROM timetable_slots ts
			  JOIN subjects sub ON sub.id = ts.subject_id
			  JOIN classes c ON c.id = ts.class_id
			  WHERE ts.class_id = $1 AND ts.is_active = true
			  ORDER BY ts.day_key, ts.start_minute`

	rows, err := s.DB.Query(query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []models.TimetableSlot
	for rows.Next() {
		slot := models.TimetableSlot{}
		var (
			day      sql.NullString
			date     sql.NullTime
			startMin int
			endMin   int
		)
		err := rows.Scan(&slot.ID, &slot.CompositionID, &slot.BranchID, &slot.ClassID, &slot.AcademicYearID,
			&slot.SubjectID, (*pq.StringArray)(&slot.TeacherIDs), &day, &date,
			&startMin, &endMin, &slot.RoomNumber, &slot.BuildingName,
			&slot.Status, &slot.IsActive, &slot.CreatedAt, &slot.UpdatedAt,
			&slot.SubjectName, &slot.ClassName)
		if err != nil {
			return nil, err
		}
		if day.Valid {
			d := day.String
			slot.DayOfWeek = &d
		}
		if date.Valid {
			slot.Date = &models.CustomTime{Time: date.Time}
		}
		slot.StartTime = minutesToClock(startMin)
		slot.EndTime = minutesToClock(endMin)
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func insertSlotTx(tx *sql.Tx, slot *models.TimetableSlot) error {
	window, err := scheduling.NewTimeWindow(slot.StartTime, slot.EndTime)
	if err != nil {
		return err
	}

	var day interface{}
	if slot.DayOfWeek != nil {
		day = *slot.DayOfWeek
	}
	var date interface{}
	if slot.Date != nil {
		date = slot.Date.Time
	}

	query := `INSERT INTO timetable_slots
			  (id, composition_id, branch_id, class_id, academic_year_id, subject_id, teacher_ids,
			   day_of_week, date, day_key, start_minute, end_minute,
			   room_number, building_name, status, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())`

	_, err = tx.Exec(query, slot.ID, slot.CompositionID, slot.BranchID, slot.ClassID, slot.AcademicYearID,
		slot.SubjectID, pq.Array([]string(slot.TeacherIDs)), day, date, slot.DayKey(),
		window.Start, window.End, slot.RoomNumber, slot.BuildingName,
		slot.Status, slot.IsActive)
	return err
}

// ReplaceSlots removes the old occupants of a time slot and inserts the
// replacement composition in one transaction, so a failure partway can
// never leave the slot in a deleted-but-not-recreated state.
func (s *SlotStore) ReplaceSlots(deleteIDs []string, create []models.TimetableSlot) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if len(deleteIDs) > 0 {
		if _, err := tx.Exec(`DELETE FROM timetable_slots WHERE id = ANY($1)`, pq.Array(deleteIDs)); err != nil {
			return err
		}
	}
	for i := range create {
		if err := insertSlotTx(tx, &create[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// InsertSlots persists a validated import batch in one transaction.
func (s *SlotStore) InsertSlots(slots []models.TimetableSlot) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range slots {
		if err := insertSlotTx(tx, &slots[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeactivateSlot soft deletes a slot.
func (s *SlotStore) DeactivateSlot(id string) error {
	res, err := s.DB.Exec(
		`UPDATE timetable_slots SET is_active = false, status = 'INACTIVE', updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return scheduling.ErrSlotNotFound
	}
	return nil
}
