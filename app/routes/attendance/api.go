package attendance

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/zsuyunov/abis-edu-sub011/app/attendance"
	"github.com/zsuyunov/abis-edu-sub011/app/config"
	"github.com/zsuyunov/abis-edu-sub011/app/database"
	"github.com/zsuyunov/abis-edu-sub011/app/models"
)

var validate = validator.New()

func ledger() *attendance.Ledger {
	store := &database.AttendanceStore{DB: config.GetDB()}
	return attendance.NewLedger(store, config.AppConfig.AttendanceBatchSize)
}

// markedBy reads the authenticated user set by the auth middleware.
func markedBy(c *fiber.Ctx) *string {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}

// listFilter builds the read filter from query params. Page and limit
// are clamped here as well: QueryInt returns whatever parses, including
// zero and negatives, and the handler divides by the limit.
func listFilter(c *fiber.Ctx) attendance.Filter {
	filter := attendance.Filter{
		BranchID:       c.Query("branchId"),
		ClassID:        c.Query("classId"),
		TeacherID:      c.Query("teacherId"),
		StudentID:      c.Query("studentId"),
		AcademicYearID: c.Query("academicYearId"),
		Status:         c.Query("status"),
		Date:           c.Query("date"),
		Page:           c.QueryInt("page", 1),
		Limit:          c.QueryInt("limit", 20),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	return filter
}

// GetAttendanceAPI lists attendance records filtered by query params,
// with pagination and a status summary over the same scope.
func GetAttendanceAPI(c *fiber.Ctx) error {
	filter := listFilter(c)
	if filter.Status != "" && !models.ValidAttendanceStatus(filter.Status) {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid status filter"})
	}

	records, total, summary, err := ledger().List(filter)
	if err != nil {
		log.Printf("List attendance failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}

	totalPages := total / filter.Limit
	if total%filter.Limit != 0 {
		totalPages++
	}

	return c.JSON(fiber.Map{
		"attendance": records,
		"pagination": fiber.Map{
			"page":       filter.Page,
			"limit":      filter.Limit,
			"total":      total,
			"totalPages": totalPages,
		},
		"summary": summary,
	})
}

// CreateAttendanceAPI records a single attendance observation. A repeat
// write for the same student, slot and date is rejected with 409.
func CreateAttendanceAPI(c *fiber.Ctx) error {
	var rec models.AttendanceRecord
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&rec); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	rec.MarkedBy = markedBy(c)

	if err := ledger().Create(&rec); err != nil {
		if errors.Is(err, attendance.ErrDuplicateAttendance) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("Create attendance failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create attendance record"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message":    "Attendance recorded successfully",
		"attendance": rec,
	})
}

// BulkUpsertAttendanceAPI reconciles a batch of attendance records.
// Records are independent: bad ones are reported per index while the
// rest are applied, and re-sending the batch is safe.
func BulkUpsertAttendanceAPI(c *fiber.Ctx) error {
	type BulkRequest struct {
		AttendanceRecords []models.AttendanceRecord `json:"attendanceRecords" validate:"required,min=1"`
	}

	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	by := markedBy(c)
	for i := range req.AttendanceRecords {
		req.AttendanceRecords[i].MarkedBy = by
	}

	result := ledger().BulkUpsert(req.AttendanceRecords)
	return c.JSON(fiber.Map{
		"processed":  result.Processed,
		"successful": result.Successful,
		"failed":     result.Failed,
		"results":    result.Results,
	})
}
