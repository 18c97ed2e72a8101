package scheduling

// AssignmentSource looks up the teachers holding an active TEACHER-role
// assignment for a (class, subject, academic year) triple, in assignment
// order. Implemented by the database layer.
type AssignmentSource interface {
	ActiveTeacherIDs(classID, subjectID, academicYearID string) ([]string, error)
}

// TeacherAutoAssigner resolves the teacher set for a slot when the caller
// did not name teachers explicitly.
type TeacherAutoAssigner struct {
	Source AssignmentSource
}

// Resolve returns the teacher ids for a slot. An explicit non-empty list
// always wins over inference. An empty resolution is allowed — the slot
// is still created and callers should treat it as needing staffing.
func (a *TeacherAutoAssigner) Resolve(explicit []string, classID, subjectID, academicYearID string) ([]string, error) {
	if len(explicit) > 0 {
		return dedupe(explicit), nil
	}
	ids, err := a.Source.ActiveTeacherIDs(classID, subjectID, academicYearID)
	if err != nil {
		return nil, err
	}
	return dedupe(ids), nil
}

// dedupe removes repeated ids while preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
