package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeWindow is a wall-clock [start, end) interval within a single day,
// held as minutes since midnight so comparisons are independent of the
// server's locale and timezone.
type TimeWindow struct {
	Start int // minutes since midnight
	End   int
}

// ParseClock parses a 24-hour "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidWindow, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidWindow, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidWindow, s)
	}
	return h*60 + m, nil
}

// NewTimeWindow builds a window from two "HH:MM" values. The end must
// fall strictly after the start.
func NewTimeWindow(start, end string) (TimeWindow, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeWindow{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeWindow{}, err
	}
	if e <= s {
		return TimeWindow{}, fmt.Errorf("%w: end %q not after start %q", ErrInvalidWindow, end, start)
	}
	return TimeWindow{Start: s, End: e}, nil
}

// Overlaps reports whether two half-open intervals intersect. Windows
// that merely touch (one ends exactly when the other starts) do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && other.Start < w.End
}

// StartClock formats the window start as "HH:MM".
func (w TimeWindow) StartClock() string {
	return fmt.Sprintf("%02d:%02d", w.Start/60, w.Start%60)
}

// EndClock formats the window end as "HH:MM".
func (w TimeWindow) EndClock() string {
	return fmt.Sprintf("%02d:%02d", w.End/60, w.End%60)
}
