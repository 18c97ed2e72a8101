package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

func slotAt(id, branch, class, room, day, start, end string, active bool) models.TimetableSlot {
	d := day
	return models.TimetableSlot{
		ID:         id,
		BranchID:   branch,
		ClassID:    class,
		RoomNumber: room,
		DayOfWeek:  &d,
		StartTime:  start,
		EndTime:    end,
		Status:     models.SlotActive,
		IsActive:   active,
	}
}

func TestConflictDetector(t *testing.T) {
	existing := []models.TimetableSlot{
		slotAt("s1", "b1", "c1", "204", "monday", "09:00", "10:00", true),
		slotAt("s2", "b1", "c1", "204", "monday", "11:00", "12:00", true),
		slotAt("s3", "b1", "c1", "305", "monday", "09:00", "10:00", true),
		slotAt("s4", "b1", "c2", "204", "tuesday", "09:00", "10:00", true),
		slotAt("s5", "b1", "c1", "204", "monday", "09:00", "10:00", false),
	}
	scope := ScopeKey{BranchID: "b1", ClassID: "c1", RoomNumber: "204", DayKey: "monday"}

	detector := ConflictDetector{}
	win := func(s, e string) TimeWindow {
		w, err := NewTimeWindow(s, e)
		require.NoError(t, err)
		return w
	}

	tests := []struct {
		name      string
		candidate TimeWindow
		scope     ScopeKey
		want      []string
	}{
		{name: "overlap in scope", candidate: win("09:30", "10:30"), scope: scope, want: []string{"s1"}},
		{name: "adjacent window is free", candidate: win("10:00", "11:00"), scope: scope, want: nil},
		{name: "spans two slots", candidate: win("09:30", "11:30"), scope: scope, want: []string{"s1", "s2"}},
		{
			name:      "other room is free",
			candidate: win("09:00", "10:00"),
			scope:     ScopeKey{BranchID: "b1", ClassID: "c1", RoomNumber: "110", DayKey: "monday"},
			want:      nil,
		},
		{
			name:      "other day is free",
			candidate: win("09:00", "10:00"),
			scope:     ScopeKey{BranchID: "b1", ClassID: "c1", RoomNumber: "204", DayKey: "friday"},
			want:      nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.Detect(tt.candidate, tt.scope, existing)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConflictDetectorIgnoresInactive(t *testing.T) {
	inactive := slotAt("s9", "b1", "c1", "204", "monday", "09:00", "10:00", false)
	detector := ConflictDetector{}

	w, err := NewTimeWindow("09:00", "10:00")
	require.NoError(t, err)

	got := detector.Detect(w, ScopeOf(&inactive), []models.TimetableSlot{inactive})
	assert.Empty(t, got)
}

func TestScopeOfPrefersDate(t *testing.T) {
	slot := slotAt("s1", "b1", "c1", "204", "monday", "09:00", "10:00", true)
	assert.Equal(t, "monday", ScopeOf(&slot).DayKey)

	date := models.CustomTime{}
	require.NoError(t, date.UnmarshalJSON([]byte(`"2024-09-06"`)))
	slot.Date = &date
	assert.Equal(t, "2024-09-06", ScopeOf(&slot).DayKey)
}
