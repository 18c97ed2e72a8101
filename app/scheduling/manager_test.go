package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

// memSlotStore mirrors the transactional semantics of the SQL store: a
// ReplaceSlots call applies the delete and the inserts atomically.
type memSlotStore struct {
	slots map[string]models.TimetableSlot
}

func newMemSlotStore(slots ...models.TimetableSlot) *memSlotStore {
	m := &memSlotStore{slots: make(map[string]models.TimetableSlot)}
	for _, s := range slots {
		m.slots[s.ID] = s
	}
	return m
}

func (m *memSlotStore) SlotByID(id string) (*models.TimetableSlot, error) {
	s, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSlotStore) ActiveSlotsAt(scope ScopeKey, window TimeWindow, academicYearID string) ([]models.TimetableSlot, error) {
	var out []models.TimetableSlot
	for _, s := range m.slots {
		if !s.IsActive || s.AcademicYearID != academicYearID {
			continue
		}
		if ScopeOf(&s) != scope {
			continue
		}
		if s.StartTime != window.StartClock() || s.EndTime != window.EndClock() {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memSlotStore) ActiveSlotsInScope(scope ScopeKey) ([]models.TimetableSlot, error) {
	var out []models.TimetableSlot
	for _, s := range m.slots {
		if s.IsActive && ScopeOf(&s) == scope {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSlotStore) ReplaceSlots(deleteIDs []string, create []models.TimetableSlot) error {
	for _, id := range deleteIDs {
		delete(m.slots, id)
	}
	for _, s := range create {
		m.slots[s.ID] = s
	}
	return nil
}

func (m *memSlotStore) activeAt(scope ScopeKey, start, end string) []models.TimetableSlot {
	var out []models.TimetableSlot
	for _, s := range m.slots {
		if s.IsActive && ScopeOf(&s) == scope && s.StartTime == start && s.EndTime == end {
			out = append(out, s)
		}
	}
	return out
}

func testManager(store *memSlotStore, assignments map[string][]string) *SlotManager {
	return &SlotManager{
		Store:    store,
		Assigner: &TeacherAutoAssigner{Source: &fakeAssignments{teachers: assignments}},
	}
}

func mondaySlot(id, subject string, teachers ...string) models.TimetableSlot {
	day := "monday"
	return models.TimetableSlot{
		ID:             id,
		BranchID:       "b1",
		ClassID:        "c1",
		AcademicYearID: "y1",
		SubjectID:      subject,
		TeacherIDs:     teachers,
		DayOfWeek:      &day,
		StartTime:      "09:00",
		EndTime:        "10:00",
		RoomNumber:     "204",
		Status:         models.SlotActive,
		IsActive:       true,
	}
}

func TestReplaceUnknownSlot(t *testing.T) {
	mgr := testManager(newMemSlotStore(), nil)

	_, err := mgr.Replace("missing", []ReplaceEntry{{SubjectID: "sub1"}})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestReplaceRequiresEntries(t *testing.T) {
	mgr := testManager(newMemSlotStore(mondaySlot("s1", "sub1", "t1")), nil)

	_, err := mgr.Replace("s1", nil)
	assert.Error(t, err)
}

func TestReplaceSwapsWholeTimeSlot(t *testing.T) {
	// Two parallel elective tracks occupy the same tuple; replacing via
	// either one's id must remove both.
	store := newMemSlotStore(
		mondaySlot("s1", "sub-art", "t1"),
		mondaySlot("s2", "sub-music", "t2"),
	)
	mgr := testManager(store, map[string][]string{"c1/sub-physics/y1": {"t7"}})

	created, err := mgr.Replace("s1", []ReplaceEntry{{SubjectID: "sub-physics"}})
	require.NoError(t, err)
	require.Len(t, created, 1)

	scope := ScopeKey{BranchID: "b1", ClassID: "c1", RoomNumber: "204", DayKey: "monday"}
	remaining := store.activeAt(scope, "09:00", "10:00")
	require.Len(t, remaining, 1, "exactly N active slots must replace the prior occupants")
	assert.Equal(t, "sub-physics", remaining[0].SubjectID)
	assert.Equal(t, []string{"t7"}, []string(remaining[0].TeacherIDs), "teachers auto-assigned")
}

func TestReplaceCreatesOneSlotPerEntry(t *testing.T) {
	store := newMemSlotStore(mondaySlot("s1", "sub-art", "t1"))
	mgr := testManager(store, nil)

	created, err := mgr.Replace("s1", []ReplaceEntry{
		{SubjectID: "sub-a", TeacherIDs: []string{"t1"}},
		{SubjectID: "sub-b", TeacherIDs: []string{"t2"}},
		{SubjectID: "sub-c", TeacherIDs: []string{"t3"}},
	})
	require.NoError(t, err)
	assert.Len(t, created, 3)

	scope := ScopeKey{BranchID: "b1", ClassID: "c1", RoomNumber: "204", DayKey: "monday"}
	assert.Len(t, store.activeAt(scope, "09:00", "10:00"), 3)

	// Parallel tracks of one replace share a composition, which is what
	// exempts them from the overlap rules.
	require.NotEmpty(t, created[0].CompositionID)
	assert.Equal(t, created[0].CompositionID, created[1].CompositionID)
	assert.Equal(t, created[0].CompositionID, created[2].CompositionID)
}

func TestReplaceRejectsOverlapWithSurvivor(t *testing.T) {
	geo := mondaySlot("s9", "sub-geo", "t9")
	geo.RoomNumber = "110"
	geo.StartTime, geo.EndTime = "13:00", "14:00"
	store := newMemSlotStore(mondaySlot("s1", "sub-art", "t1"), geo)
	mgr := testManager(store, nil)

	_, err := mgr.Replace("s1", []ReplaceEntry{{
		SubjectID:  "sub-b",
		TeacherIDs: []string{"t5"},
		StartTime:  "13:30",
		EndTime:    "14:30",
		RoomNumber: "110",
	}})
	require.ErrorIs(t, err, ErrSchedulingConflict)

	// Nothing changed: the original composition and the slot it would
	// have collided with are both still active.
	orig, _ := store.SlotByID("s1")
	require.NotNil(t, orig)
	assert.True(t, orig.IsActive)
	survivor, _ := store.SlotByID("s9")
	require.NotNil(t, survivor)
	assert.Equal(t, "13:00", survivor.StartTime)
}

func TestReplaceValidatesBeforeDeleting(t *testing.T) {
	store := newMemSlotStore(
		mondaySlot("s1", "sub-art", "t1"),
		mondaySlot("s2", "sub-music", "t2"),
	)
	mgr := testManager(store, nil)

	_, err := mgr.Replace("s1", []ReplaceEntry{
		{SubjectID: "sub-a", TeacherIDs: []string{"t1"}},
		{SubjectID: "sub-b", TeacherIDs: []string{"t2"}, StartTime: "11:00", EndTime: "10:00"},
	})
	require.Error(t, err)

	// A bad entry must abort the whole replace with the original
	// composition untouched.
	scope := ScopeKey{BranchID: "b1", ClassID: "c1", RoomNumber: "204", DayKey: "monday"}
	assert.Len(t, store.activeAt(scope, "09:00", "10:00"), 2)
}

func TestReplaceEntryOverrides(t *testing.T) {
	store := newMemSlotStore(mondaySlot("s1", "sub-art", "t1"))
	mgr := testManager(store, nil)

	created, err := mgr.Replace("s1", []ReplaceEntry{{
		SubjectID:  "sub-b",
		TeacherIDs: []string{"t5"},
		StartTime:  "13:00",
		EndTime:    "14:30",
		RoomNumber: "110",
		DayOfWeek:  "Friday",
	}})
	require.NoError(t, err)
	require.Len(t, created, 1)

	slot := created[0]
	assert.Equal(t, "13:00", slot.StartTime)
	assert.Equal(t, "14:30", slot.EndTime)
	assert.Equal(t, "110", slot.RoomNumber)
	assert.Equal(t, "friday", *slot.DayOfWeek)
	// Scope fields always come from the original slot.
	assert.Equal(t, "b1", slot.BranchID)
	assert.Equal(t, "c1", slot.ClassID)
	assert.Equal(t, "y1", slot.AcademicYearID)
}

func TestReplaceDatedSlotRejectsDayOverride(t *testing.T) {
	dated := mondaySlot("s1", "sub-art", "t1")
	dated.DayOfWeek = nil
	dated.Date = &models.CustomTime{Time: time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC)}
	store := newMemSlotStore(dated)
	mgr := testManager(store, nil)

	_, err := mgr.Replace("s1", []ReplaceEntry{{
		SubjectID: "sub-b",
		DayOfWeek: "friday",
	}})
	require.ErrorIs(t, err, ErrDatedSlotDayOverride)

	orig, _ := store.SlotByID("s1")
	require.NotNil(t, orig)
	assert.True(t, orig.IsActive)
}
