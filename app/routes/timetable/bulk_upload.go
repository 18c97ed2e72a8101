package timetable

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"github.com/zsuyunov/abis-edu-sub011/app/config"
	"github.com/zsuyunov/abis-edu-sub011/app/database"
	"github.com/zsuyunov/abis-edu-sub011/app/scheduling"
)

const dataSheet = "Timetable Data"

// templateColumns is the compatibility surface of the bulk upload: the
// validator parses uploads against these exact column names, in order.
var templateColumns = []string{
	"branch", "class", "academicYear", "subject", "teacher",
	"date", "startTime", "endTime", "roomNumber", "buildingName", "status",
}

type templateField struct {
	name        string
	description string
	required    string
	example     string
}

var templateFields = []templateField{
	{"branch", "Branch short name as registered", "yes", "SCI"},
	{"class", "Class name within the branch", "yes", "Grade 10A"},
	{"academicYear", "Academic year name", "yes", "2024-2025"},
	{"subject", "Subject name", "yes", "Physics"},
	{"teacher", "Teacher full name (first last)", "yes", "John Smith"},
	{"date", "Lesson date, YYYY-MM-DD", "yes", "2024-09-06"},
	{"startTime", "Start time, 24-hour HH:MM", "yes", "09:00"},
	{"endTime", "End time, 24-hour HH:MM", "yes", "10:00"},
	{"roomNumber", "Room hosting the lesson", "yes", "204"},
	{"buildingName", "Building of the room", "no", "Main Block"},
	{"status", "ACTIVE or INACTIVE, defaults to ACTIVE", "no", "ACTIVE"},
}

var templateRules = []string{
	"Every branch, class, academicYear, subject and teacher value must match reference data exactly.",
	"date must be a calendar date (YYYY-MM-DD) inside the named academic year.",
	"startTime and endTime must be 24-hour HH:MM values with endTime strictly after startTime.",
	"No two rows may overlap in the same branch, class, room and date - including rows in the same upload.",
	"Rows also may not overlap timetable slots that already exist.",
	"A row with any error is skipped and reported with its row number; valid rows are still imported.",
	"Uploads are capped at the configured row limit (default 1000); rows beyond it are rejected unparsed.",
}

// buildTemplate assembles the upload template workbook: a data sheet
// with headers and one example row, a field reference sheet and a
// validation rules sheet.
func buildTemplate() *excelize.File {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", dataSheet)
	for i, col := range templateColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(dataSheet, cell, col)
	}
	for i, field := range templateFields {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(dataSheet, cell, field.example)
	}

	refSheet := "Field Reference"
	f.NewSheet(refSheet)
	for i, h := range []string{"name", "description", "required", "example"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(refSheet, cell, h)
	}
	for i, field := range templateFields {
		row := i + 2
		f.SetCellValue(refSheet, fmt.Sprintf("A%d", row), field.name)
		f.SetCellValue(refSheet, fmt.Sprintf("B%d", row), field.description)
		f.SetCellValue(refSheet, fmt.Sprintf("C%d", row), field.required)
		f.SetCellValue(refSheet, fmt.Sprintf("D%d", row), field.example)
	}

	rulesSheet := "Validation Rules"
	f.NewSheet(rulesSheet)
	f.SetCellValue(rulesSheet, "A1", "rule")
	for i, rule := range templateRules {
		f.SetCellValue(rulesSheet, fmt.Sprintf("A%d", i+2), rule)
	}
	return f
}

// DownloadTemplateAPI serves the XLSX upload template.
func DownloadTemplateAPI(c *fiber.Ctx) error {
	f := buildTemplate()
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		log.Printf("Template generation failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate template"})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="timetable_import_template.xlsx"`)
	return c.Send(buf.Bytes())
}

// parseUpload maps the workbook's data sheet to import rows by header
// name, so column order in the file does not matter.
func parseUpload(f *excelize.File) ([]scheduling.ImportRow, error) {
	sheet := dataSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("the upload has no header row")
	}

	colIndex := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		colIndex[strings.TrimSpace(h)] = i
	}
	for _, required := range templateColumns[:9] {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := colIndex[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var parsed []scheduling.ImportRow
	for i, row := range rows[1:] {
		// Skip fully empty lines, common at the bottom of spreadsheets.
		empty := true
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		parsed = append(parsed, scheduling.ImportRow{
			Row:          i + 1,
			Branch:       cell(row, "branch"),
			Class:        cell(row, "class"),
			AcademicYear: cell(row, "academicYear"),
			Subject:      cell(row, "subject"),
			Teacher:      cell(row, "teacher"),
			Date:         cell(row, "date"),
			StartTime:    cell(row, "startTime"),
			EndTime:      cell(row, "endTime"),
			RoomNumber:   cell(row, "roomNumber"),
			BuildingName: cell(row, "buildingName"),
			Status:       cell(row, "status"),
		})
	}
	return parsed, nil
}

// BulkUploadAPI validates an uploaded workbook row by row and persists
// the rows that pass. The response is a complete accounting: committed
// count plus one error per failing row, keyed by 1-based row number.
func BulkUploadAPI(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "An .xlsx file upload named 'file' is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to read upload"})
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "The upload is not a valid .xlsx workbook"})
	}
	defer workbook.Close()

	importRows, err := parseUpload(workbook)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	db := config.GetDB()
	store := &database.SlotStore{DB: db}
	validator := &scheduling.ImportValidator{
		Refs:    database.NewCachedResolver(db),
		Slots:   store,
		MaxRows: config.AppConfig.ImportMaxRows,
	}

	committed, rowErrors, err := validator.Validate(importRows)
	if err != nil {
		log.Printf("Bulk upload validation failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to validate upload"})
	}

	if len(committed) > 0 {
		if err := store.InsertSlots(committed); err != nil {
			log.Printf("Bulk upload insert failed: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "Failed to save imported slots"})
		}
	}

	return c.JSON(fiber.Map{
		"created":   len(committed),
		"committed": committed,
		"errors":    rowErrors,
	})
}
