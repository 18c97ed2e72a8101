package timetable

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/zsuyunov/abis-edu-sub011/app/config"
	"github.com/zsuyunov/abis-edu-sub011/app/database"
	"github.com/zsuyunov/abis-edu-sub011/app/scheduling"
)

var validate = validator.New()

func slotManager() *scheduling.SlotManager {
	db := config.GetDB()
	return &scheduling.SlotManager{
		Store:    &database.SlotStore{DB: db},
		Assigner: &scheduling.TeacherAutoAssigner{Source: &database.AssignmentLookup{DB: db}},
	}
}

// ReplaceSlotAPI swaps the whole composition of one time slot: every
// active slot occupying the original's (day, window, class, room, branch,
// year) tuple is replaced by one slot per submitted entry.
func ReplaceSlotAPI(c *fiber.Ctx) error {
	type ReplaceRequest struct {
		OriginalTimetableID string                    `json:"originalTimetableId" validate:"required"`
		Entries             []scheduling.ReplaceEntry `json:"entries" validate:"required,min=1,dive"`
	}

	var req ReplaceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := slotManager().Replace(req.OriginalTimetableID, req.Entries)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrSlotNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Timetable slot not found"})
		case errors.Is(err, scheduling.ErrSchedulingConflict):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, scheduling.ErrInvalidWindow), errors.Is(err, scheduling.ErrDatedSlotDayOverride):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Printf("Replace slot %s failed: %v", req.OriginalTimetableID, err)
			return c.Status(500).JSON(fiber.Map{"error": "Failed to replace timetable slot"})
		}
	}

	return c.JSON(fiber.Map{
		"data":          created[0],
		"allTimetables": created,
		"count":         len(created),
	})
}

// GetClassTimetableAPI returns a class's active slots.
func GetClassTimetableAPI(c *fiber.Ctx) error {
	classID := c.Params("id")
	if classID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Class ID is required"})
	}

	store := &database.SlotStore{DB: config.GetDB()}
	slots, err := store.GetClassTimetable(classID)
	if err != nil {
		log.Printf("Fetch timetable for class %s failed: %v", classID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch timetable"})
	}

	return c.JSON(fiber.Map{
		"timetable": slots,
		"count":     len(slots),
	})
}

// DeactivateSlotAPI soft deletes a slot.
func DeactivateSlotAPI(c *fiber.Ctx) error {
	slotID := c.Params("id")
	if slotID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Slot ID is required"})
	}

	store := &database.SlotStore{DB: config.GetDB()}
	if err := store.DeactivateSlot(slotID); err != nil {
		if errors.Is(err, scheduling.ErrSlotNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Timetable slot not found"})
		}
		log.Printf("Deactivate slot %s failed: %v", slotID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to deactivate slot"})
	}

	return c.JSON(fiber.Map{"message": "Timetable slot deactivated successfully"})
}
