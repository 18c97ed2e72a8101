package database

import (
	"database/sql"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

// CachedResolver resolves human-readable names from bulk uploads to ids.
// Lookups are cached with a short TTL so a 1000-row upload does not issue
// a query per repeated branch/class/subject/teacher name. A lookup miss
// is returned as an empty result with a nil error; only storage failures
// are errors.
type CachedResolver struct {
	DB    *sql.DB
	cache *gocache.Cache
}

func NewCachedResolver(db *sql.DB) *CachedResolver {
	return &CachedResolver{
		DB:    db,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (r *CachedResolver) lookupID(cacheKey, query string, args ...interface{}) (string, error) {
	if v, ok := r.cache.Get(cacheKey); ok {
		return v.(string), nil
	}
	var id string
	err := r.DB.QueryRow(query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	r.cache.SetDefault(cacheKey, id)
	return id, nil
}

func (r *CachedResolver) BranchIDByName(name string) (string, error) {
	return r.lookupID("branch:"+name,
		`SELECT id FROM branches WHERE short_name = $1 AND is_active = true`, name)
}

func (r *CachedResolver) ClassIDByName(branchID, name string) (string, error) {
	return r.lookupID("class:"+branchID+":"+name,
		`SELECT id FROM classes WHERE branch_id = $1 AND name = $2 AND is_active = true`,
		branchID, name)
}

func (r *CachedResolver) SubjectIDByName(name string) (string, error) {
	return r.lookupID("subject:"+name,
		`SELECT id FROM subjects WHERE name = $1 AND is_active = true`, name)
}

// TeacherIDByName matches the spreadsheet's "First Last" teacher column.
func (r *CachedResolver) TeacherIDByName(name string) (string, error) {
	return r.lookupID("teacher:"+name,
		`SELECT id FROM users
		 WHERE TRIM(first_name || ' ' || last_name) = $1 AND is_active = true`, name)
}

func (r *CachedResolver) AcademicYearByName(name string) (*models.AcademicYear, error) {
	cacheKey := "year:" + name
	if v, ok := r.cache.Get(cacheKey); ok {
		return v.(*models.AcademicYear), nil
	}

	year := &models.AcademicYear{}
	query := `SELECT id, name, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM academic_years WHERE name = $1 AND is_active = true`
	err := r.DB.QueryRow(query, name).Scan(&year.ID, &year.Name, &year.StartDate.Time, &year.EndDate.Time,
		&year.IsCurrent, &year.IsActive, &year.CreatedAt, &year.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(cacheKey, year)
	return year, nil
}

// AssignmentLookup resolves active TEACHER-role assignments for the
// auto-assigner. Kept separate from CachedResolver: staffing changes must
// be visible immediately, so these reads are never cached.
type AssignmentLookup struct {
	DB *sql.DB
}

func (l *AssignmentLookup) ActiveTeacherIDs(classID, subjectID, academicYearID string) ([]string, error) {
	query := `SELECT ta.teacher_id
			  FROM teaching_assignments ta
			  JOIN users u ON u.id = ta.teacher_id
			  WHERE ta.class_id = $1 AND ta.subject_id = $2 AND ta.academic_year_id = $3
				AND ta.role = 'TEACHER' AND ta.is_active = true AND u.is_active = true
			  ORDER BY ta.created_at ASC`

	rows, err := l.DB.Query(query, classID, subjectID, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
