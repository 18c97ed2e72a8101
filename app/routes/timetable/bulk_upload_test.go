package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func uploadFile(t *testing.T, header []string, rows [][]string) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", dataSheet)
	require.NoError(t, f.SetSheetRow(dataSheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(dataSheet, cell, &row))
	}
	return f
}

func TestParseUploadMapsColumnsByHeader(t *testing.T) {
	// Column order differs from the template on purpose.
	f := uploadFile(t,
		[]string{"teacher", "branch", "class", "academicYear", "subject", "date", "startTime", "endTime", "roomNumber", "buildingName", "status"},
		[][]string{
			{"John Smith", "SCI", "Grade 10A", "2024-2025", "Physics", "2024-09-06", "09:00", "10:00", "204", "Main Block", ""},
		},
	)

	rows, err := parseUpload(f)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 1, rows[0].Row)
	assert.Equal(t, "SCI", rows[0].Branch)
	assert.Equal(t, "Grade 10A", rows[0].Class)
	assert.Equal(t, "John Smith", rows[0].Teacher)
	assert.Equal(t, "2024-09-06", rows[0].Date)
	assert.Equal(t, "09:00", rows[0].StartTime)
	assert.Equal(t, "Main Block", rows[0].BuildingName)
	assert.Equal(t, "", rows[0].Status)
}

func TestParseUploadSkipsBlankLines(t *testing.T) {
	f := uploadFile(t, templateColumns, [][]string{
		{"SCI", "Grade 10A", "2024-2025", "Physics", "John Smith", "2024-09-06", "09:00", "10:00", "204", "", ""},
		{"", "", "", "", "", "", "", "", "", "", ""},
		{"SCI", "Grade 10A", "2024-2025", "Physics", "John Smith", "2024-09-06", "10:00", "11:00", "204", "", ""},
	})

	rows, err := parseUpload(f)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Row numbers count data lines in the sheet, blanks included, so
	// they still point at the right spreadsheet line in error reports.
	assert.Equal(t, 1, rows[0].Row)
	assert.Equal(t, 3, rows[1].Row)
}

func TestParseUploadRejectsMissingColumn(t *testing.T) {
	f := uploadFile(t,
		[]string{"branch", "class", "academicYear", "subject", "teacher", "date", "startTime", "endTime"},
		nil,
	)

	_, err := parseUpload(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roomNumber")
}

func TestTemplateRoundTrips(t *testing.T) {
	f := buildTemplate()
	defer f.Close()

	assert.ElementsMatch(t, []string{dataSheet, "Field Reference", "Validation Rules"}, f.GetSheetList())

	// The template's own example row must parse as a valid upload.
	rows, err := parseUpload(f)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Physics", rows[0].Subject)
	assert.Equal(t, "204", rows[0].RoomNumber)
}
