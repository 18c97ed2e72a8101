package scheduling

import (
	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

// ScopeKey identifies the slice of the timetable inside which two slots
// may conflict. Room is part of the key on purpose: two classes can share
// a window in different rooms, but one room cannot host two overlapping
// slots. Teacher double-booking is not part of this scope.
type ScopeKey struct {
	BranchID   string
	ClassID    string
	RoomNumber string
	DayKey     string // concrete date "2006-01-02" or weekday name
}

// ScopeOf derives the conflict scope of an existing slot.
func ScopeOf(slot *models.TimetableSlot) ScopeKey {
	return ScopeKey{
		BranchID:   slot.BranchID,
		ClassID:    slot.ClassID,
		RoomNumber: slot.RoomNumber,
		DayKey:     slot.DayKey(),
	}
}

// ConflictDetector decides whether a candidate window collides with any
// active slot in the same scope.
type ConflictDetector struct{}

// Detect returns the ids of active slots in scope whose windows overlap
// the candidate. Slots with unparseable stored times are skipped; they
// cannot be meaningfully compared and are a data repair concern.
func (ConflictDetector) Detect(candidate TimeWindow, scope ScopeKey, existing []models.TimetableSlot) []string {
	var conflicts []string
	for i := range existing {
		slot := &existing[i]
		if !slot.IsActive {
			continue
		}
		if ScopeOf(slot) != scope {
			continue
		}
		win, err := NewTimeWindow(slot.StartTime, slot.EndTime)
		if err != nil {
			continue
		}
		if candidate.Overlaps(win) {
			conflicts = append(conflicts, slot.ID)
		}
	}
	return conflicts
}
