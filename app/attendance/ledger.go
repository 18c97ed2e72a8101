package attendance

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

// ErrDuplicateAttendance is returned by the single-create path when a
// record for the same (student, slot, date) natural key already exists.
// The bulk path upserts instead; the two entry points differ on purpose.
var ErrDuplicateAttendance = errors.New("attendance record already exists for this student, slot and date")

// Filter scopes attendance reads. Zero-valued fields are ignored.
type Filter struct {
	BranchID       string
	ClassID        string
	TeacherID      string
	StudentID      string
	AcademicYearID string
	Status         string
	Date           string // YYYY-MM-DD
	Page           int
	Limit          int
}

// Store is the persistence surface of the ledger. Insert must fail with
// ErrDuplicateAttendance on a natural-key collision; Upsert must
// create-or-overwrite keyed by the same natural key so retries are safe.
type Store interface {
	Insert(rec *models.AttendanceRecord) error
	Upsert(rec *models.AttendanceRecord) error
	List(f Filter) ([]models.AttendanceRecord, int, error)
	Summarize(f Filter) (models.AttendanceSummary, error)
}

// ItemResult is the per-record outcome of a bulk upsert.
type ItemResult struct {
	Index     int    `json:"index"`
	StudentID string `json:"student_id"`
	SlotID    string `json:"timetable_slot_id"`
	Date      string `json:"date"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// BulkResult is the merged outcome of a bulk upsert: a complete
// accounting, never an all-or-nothing exception.
type BulkResult struct {
	Processed  int          `json:"processed"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Results    []ItemResult `json:"results"`
}

// DefaultBatchSize bounds memory and latency of bulk upserts when no
// explicit size is configured.
const DefaultBatchSize = 50

// Ledger records and reconciles per-student attendance against slot
// occurrences.
type Ledger struct {
	store     Store
	batchSize int
}

func NewLedger(store Store, batchSize int) *Ledger {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Ledger{store: store, batchSize: batchSize}
}

func validateRecord(rec *models.AttendanceRecord) error {
	if rec.StudentID == "" {
		return fmt.Errorf("student_id is required")
	}
	if rec.TimetableSlotID == "" {
		return fmt.Errorf("timetable_slot_id is required")
	}
	if rec.Date.Time.IsZero() {
		return fmt.Errorf("date is required")
	}
	if !models.ValidAttendanceStatus(string(rec.Status)) {
		return fmt.Errorf("invalid status %q", rec.Status)
	}
	return nil
}

// Create records a single observation. A second write for the same
// natural key is rejected, never silently overwritten.
func (l *Ledger) Create(rec *models.AttendanceRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	return l.store.Insert(rec)
}

// BulkUpsert reconciles a batch of records in fixed-size sub-batches.
// Records within a sub-batch are dispatched concurrently and are fully
// independent: one failure never fails its batch-mates. Each record is
// keyed by its natural key, so retrying a partially applied batch is safe.
func (l *Ledger) BulkUpsert(recs []models.AttendanceRecord) BulkResult {
	results := make([]ItemResult, len(recs))

	for start := 0; start < len(recs); start += l.batchSize {
		end := start + l.batchSize
		if end > len(recs) {
			end = len(recs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = l.upsertOne(i, &recs[i])
			}(i)
		}
		// The batch boundary is a synchronization point.
		wg.Wait()
	}

	out := BulkResult{Processed: len(recs), Results: results}
	for _, r := range results {
		if r.Success {
			out.Successful++
		} else {
			out.Failed++
		}
	}
	return out
}

func (l *Ledger) upsertOne(index int, rec *models.AttendanceRecord) ItemResult {
	res := ItemResult{
		Index:     index,
		StudentID: rec.StudentID,
		SlotID:    rec.TimetableSlotID,
		Date:      rec.Date.Time.Format("2006-01-02"),
	}
	if err := validateRecord(rec); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := l.store.Upsert(rec); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

// List returns the filtered page of records, the total match count, and
// the status summary over the same filter with the date constraint
// removed, so one round trip serves both the day view and the overall
// distribution.
func (l *Ledger) List(f Filter) ([]models.AttendanceRecord, int, models.AttendanceSummary, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	records, total, err := l.store.List(f)
	if err != nil {
		return nil, 0, models.AttendanceSummary{}, err
	}

	summaryFilter := f
	summaryFilter.Date = ""
	summary, err := l.store.Summarize(summaryFilter)
	if err != nil {
		return nil, 0, models.AttendanceSummary{}, err
	}
	return records, total, summary, nil
}
