package scheduling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssignments struct {
	teachers map[string][]string // "class/subject/year" -> teacher ids
	err      error
}

func (f *fakeAssignments) ActiveTeacherIDs(classID, subjectID, academicYearID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.teachers[classID+"/"+subjectID+"/"+academicYearID], nil
}

func TestAutoAssignerExplicitWins(t *testing.T) {
	assigner := &TeacherAutoAssigner{Source: &fakeAssignments{
		teachers: map[string][]string{"c1/sub1/y1": {"t-db"}},
	}}

	got, err := assigner.Resolve([]string{"t9", "t3", "t9"}, "c1", "sub1", "y1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t9", "t3"}, got, "explicit input wins and is de-duplicated")
}

func TestAutoAssignerLooksUpAssignments(t *testing.T) {
	assigner := &TeacherAutoAssigner{Source: &fakeAssignments{
		teachers: map[string][]string{"c1/sub1/y1": {"t1", "t2", "t1"}},
	}}

	got, err := assigner.Resolve(nil, "c1", "sub1", "y1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, got)
}

func TestAutoAssignerEmptyResolutionIsAllowed(t *testing.T) {
	assigner := &TeacherAutoAssigner{Source: &fakeAssignments{}}

	got, err := assigner.Resolve(nil, "c1", "sub-unstaffed", "y1")
	require.NoError(t, err)
	assert.Empty(t, got, "an unstaffed slot is still created")
}

func TestAutoAssignerPropagatesSourceError(t *testing.T) {
	srcErr := errors.New("db down")
	assigner := &TeacherAutoAssigner{Source: &fakeAssignments{err: srcErr}}

	_, err := assigner.Resolve(nil, "c1", "sub1", "y1")
	assert.ErrorIs(t, err, srcErr)
}
