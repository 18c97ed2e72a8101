package scheduling

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

// SlotStore is the persistence surface the slot manager needs. ReplaceSlots
// must apply the delete and the inserts in a single transaction so a
// mid-operation failure can never leave a time slot half-replaced.
type SlotStore interface {
	SlotByID(id string) (*models.TimetableSlot, error)
	// ActiveSlotsAt returns every active slot occupying the exact
	// (scope, window, academic year) tuple.
	ActiveSlotsAt(scope ScopeKey, window TimeWindow, academicYearID string) ([]models.TimetableSlot, error)
	// ActiveSlotsInScope returns every active slot in a conflict scope,
	// regardless of window.
	ActiveSlotsInScope(scope ScopeKey) ([]models.TimetableSlot, error)
	ReplaceSlots(deleteIDs []string, create []models.TimetableSlot) error
}

// ReplaceEntry is one subject/teacher track of a replacement request.
// Empty fields fall back to the original slot's values.
type ReplaceEntry struct {
	SubjectID    string   `json:"subjectId" validate:"required"`
	TeacherIDs   []string `json:"teacherIds,omitempty"`
	StartTime    string   `json:"startTime,omitempty"`
	EndTime      string   `json:"endTime,omitempty"`
	RoomNumber   string   `json:"roomNumber,omitempty"`
	BuildingName string   `json:"buildingName,omitempty"`
	DayOfWeek    string   `json:"dayOfWeek,omitempty"`
}

// SlotManager owns slot creation, whole-slot replacement and deactivation.
type SlotManager struct {
	Store    SlotStore
	Assigner *TeacherAutoAssigner
	Detector ConflictDetector
}

// Replace swaps the entire composition of the time slot identified by
// originalID for the given entries. One scheduled period can host several
// parallel subject/teacher tracks (elective splits), so the unit of edit
// is the whole (day, window, class, room, branch, year) tuple: every
// active occupant is removed and one slot is created per entry.
//
// Every entry is validated and fully built before anything is deleted,
// and the store commits delete+create as one transaction.
func (m *SlotManager) Replace(originalID string, entries []ReplaceEntry) ([]models.TimetableSlot, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("replace requires at least one entry")
	}

	orig, err := m.Store.SlotByID(originalID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, ErrSlotNotFound
	}

	origWindow, err := NewTimeWindow(orig.StartTime, orig.EndTime)
	if err != nil {
		return nil, fmt.Errorf("original slot %s has an unusable window: %w", originalID, err)
	}

	// All entries of one replace form one composition; sharing the id is
	// what lets the parallel tracks occupy the same window.
	compositionID := uuid.New().String()

	created := make([]models.TimetableSlot, 0, len(entries))
	for i, entry := range entries {
		slot, err := m.buildSlot(orig, origWindow, entry, compositionID)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		created = append(created, slot)
	}

	// Find every active occupant of the original tuple, not just the slot
	// that was passed in.
	occupants, err := m.Store.ActiveSlotsAt(ScopeOf(orig), origWindow, orig.AcademicYearID)
	if err != nil {
		return nil, err
	}
	deleting := make(map[string]bool, len(occupants))
	deleteIDs := make([]string, 0, len(occupants))
	for i := range occupants {
		deleting[occupants[i].ID] = true
		deleteIDs = append(deleteIDs, occupants[i].ID)
	}

	// An entry may override its window, room or day, which can land it in
	// a scope with other occupants. None of the new slots may overlap an
	// active slot that survives the replace.
	for i := range created {
		if err := m.checkConflicts(&created[i], deleting); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	if err := m.Store.ReplaceSlots(deleteIDs, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (m *SlotManager) checkConflicts(slot *models.TimetableSlot, deleting map[string]bool) error {
	window, err := NewTimeWindow(slot.StartTime, slot.EndTime)
	if err != nil {
		return err
	}

	scope := ScopeOf(slot)
	existing, err := m.Store.ActiveSlotsInScope(scope)
	if err != nil {
		return err
	}
	var survivors []models.TimetableSlot
	for _, s := range existing {
		if !deleting[s.ID] {
			survivors = append(survivors, s)
		}
	}

	if ids := m.Detector.Detect(window, scope, survivors); len(ids) > 0 {
		return fmt.Errorf("%w: overlaps active slot %s", ErrSchedulingConflict, ids[0])
	}
	return nil
}

func (m *SlotManager) buildSlot(orig *models.TimetableSlot, origWindow TimeWindow, entry ReplaceEntry, compositionID string) (models.TimetableSlot, error) {
	if strings.TrimSpace(entry.SubjectID) == "" {
		return models.TimetableSlot{}, fmt.Errorf("subjectId is required")
	}

	start, end := entry.StartTime, entry.EndTime
	if start == "" {
		start = origWindow.StartClock()
	}
	if end == "" {
		end = origWindow.EndClock()
	}
	window, err := NewTimeWindow(start, end)
	if err != nil {
		return models.TimetableSlot{}, err
	}

	room := entry.RoomNumber
	if room == "" {
		room = orig.RoomNumber
	}
	building := entry.BuildingName
	if building == "" {
		building = orig.BuildingName
	}

	day := orig.DayOfWeek
	if entry.DayOfWeek != "" {
		if orig.Date != nil && !orig.Date.Time.IsZero() {
			return models.TimetableSlot{}, ErrDatedSlotDayOverride
		}
		d := strings.ToLower(strings.TrimSpace(entry.DayOfWeek))
		if !models.ValidDayOfWeek(d) {
			return models.TimetableSlot{}, fmt.Errorf("invalid dayOfWeek %q", entry.DayOfWeek)
		}
		day = &d
	}

	teacherIDs, err := m.Assigner.Resolve(entry.TeacherIDs, orig.ClassID, entry.SubjectID, orig.AcademicYearID)
	if err != nil {
		return models.TimetableSlot{}, err
	}

	return models.TimetableSlot{
		ID:             uuid.New().String(),
		CompositionID:  compositionID,
		BranchID:       orig.BranchID,
		ClassID:        orig.ClassID,
		AcademicYearID: orig.AcademicYearID,
		SubjectID:      entry.SubjectID,
		TeacherIDs:     teacherIDs,
		DayOfWeek:      day,
		Date:           orig.Date,
		StartTime:      window.StartClock(),
		EndTime:        window.EndClock(),
		RoomNumber:     room,
		BuildingName:   building,
		Status:         models.SlotActive,
		IsActive:       true,
	}, nil
}
