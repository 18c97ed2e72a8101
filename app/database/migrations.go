package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the schema and applies the constraints the
// scheduling core relies on. Every statement is idempotent so the
// function is safe to run on every boot.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration statement failed: %v", err)
			return err
		}
	}

	if err := ensureAttendanceNaturalKey(db); err != nil {
		return err
	}
	if err := ensureSlotOverlapExclusion(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	`CREATE TABLE IF NOT EXISTS branches (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		short_name TEXT NOT NULL UNIQUE,
		legal_name TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS classes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		branch_id UUID NOT NULL REFERENCES branches(id),
		name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (branch_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS subjects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS academic_years (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		is_current BOOLEAN NOT NULL DEFAULT false,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS teaching_assignments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		teacher_id UUID NOT NULL REFERENCES users(id),
		class_id UUID NOT NULL REFERENCES classes(id),
		subject_id UUID NOT NULL REFERENCES subjects(id),
		academic_year_id UUID NOT NULL REFERENCES academic_years(id),
		role VARCHAR(20) NOT NULL DEFAULT 'TEACHER',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (teacher_id, class_id, subject_id, academic_year_id, role)
	)`,

	// start_minute/end_minute hold minutes since midnight; day_key holds
	// the concrete date ("2024-09-06") or weekday name and is what the
	// overlap exclusion keys on.
	`CREATE TABLE IF NOT EXISTS timetable_slots (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		composition_id UUID NOT NULL DEFAULT gen_random_uuid(),
		branch_id UUID NOT NULL REFERENCES branches(id),
		class_id UUID NOT NULL REFERENCES classes(id),
		academic_year_id UUID NOT NULL REFERENCES academic_years(id),
		subject_id UUID NOT NULL REFERENCES subjects(id),
		teacher_ids TEXT[] NOT NULL DEFAULT '{}',
		day_of_week VARCHAR(10),
		date DATE,
		day_key TEXT NOT NULL,
		start_minute INT NOT NULL,
		end_minute INT NOT NULL,
		room_number TEXT NOT NULL,
		building_name TEXT NOT NULL DEFAULT '',
		status VARCHAR(10) NOT NULL DEFAULT 'ACTIVE',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (end_minute > start_minute)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_timetable_slots_scope
		ON timetable_slots (branch_id, class_id, room_number, day_key)
		WHERE is_active`,

	`CREATE INDEX IF NOT EXISTS idx_timetable_slots_class
		ON timetable_slots (class_id) WHERE is_active`,

	`CREATE TABLE IF NOT EXISTS attendance_records (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id TEXT NOT NULL,
		timetable_slot_id UUID NOT NULL REFERENCES timetable_slots(id),
		date DATE NOT NULL,
		status VARCHAR(10) NOT NULL,
		branch_id UUID,
		class_id UUID,
		subject_id UUID,
		academic_year_id UUID,
		notes TEXT NOT NULL DEFAULT '',
		marked_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_attendance_class_date
		ON attendance_records (class_id, date)`,

	`CREATE INDEX IF NOT EXISTS idx_attendance_student
		ON attendance_records (student_id)`,
}

// ensureAttendanceNaturalKey enforces one record per (student, slot, date).
// The bulk upsert path targets this constraint with ON CONFLICT.
func ensureAttendanceNaturalKey(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint
				WHERE conname = 'attendance_records_natural_key'
			) THEN
				ALTER TABLE attendance_records
					ADD CONSTRAINT attendance_records_natural_key
					UNIQUE (student_id, timetable_slot_id, date);
			END IF;
		END $$;
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to add attendance natural key constraint: %v", err)
		return err
	}
	return nil
}

// ensureSlotOverlapExclusion backs the application-level conflict check
// with a storage-enforced guarantee: no two active slots of different
// compositions sharing (branch, class, room, day) may hold overlapping
// minute ranges, even under concurrent writers. Sibling tracks of one
// composition occupy the same window on purpose (elective splits), so
// rows with equal composition_id are exempt; btree_gist provides the
// <> operator the exemption needs.
func ensureSlotOverlapExclusion(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint
				WHERE conname = 'timetable_slots_no_overlap'
			) THEN
				ALTER TABLE timetable_slots
					ADD CONSTRAINT timetable_slots_no_overlap
					EXCLUDE USING gist (
						branch_id WITH =,
						class_id WITH =,
						room_number WITH =,
						day_key WITH =,
						composition_id WITH <>,
						int4range(start_minute, end_minute) WITH &&
					) WHERE (is_active);
			END IF;
		END $$;
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to add slot overlap exclusion constraint: %v", err)
		return err
	}
	return nil
}
