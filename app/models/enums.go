package models

// AttendanceStatus defines the possible status values for an attendance record.
type AttendanceStatus string

const (
	Present AttendanceStatus = "PRESENT"
	Absent  AttendanceStatus = "ABSENT"
	Late    AttendanceStatus = "LATE"
	Excused AttendanceStatus = "EXCUSED"
)

// ValidAttendanceStatus reports whether s is one of the four known statuses.
func ValidAttendanceStatus(s string) bool {
	switch AttendanceStatus(s) {
	case Present, Absent, Late, Excused:
		return true
	}
	return false
}

// AssignmentRole defines the role a staff member holds on a teaching assignment.
type AssignmentRole string

const (
	RoleTeacher    AssignmentRole = "TEACHER"
	RoleSupervisor AssignmentRole = "SUPERVISOR"
)

// SlotStatus defines the lifecycle status of a timetable slot.
type SlotStatus string

const (
	SlotActive   SlotStatus = "ACTIVE"
	SlotInactive SlotStatus = "INACTIVE"
)

// DayOfWeek defines the days of the week for recurring slots.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// ValidDayOfWeek reports whether day names a day of the week. Callers are
// expected to lowercase the input first.
func ValidDayOfWeek(day string) bool {
	switch DayOfWeek(day) {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}
