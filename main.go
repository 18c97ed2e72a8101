package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/zsuyunov/abis-edu-sub011/app/config"
	"github.com/zsuyunov/abis-edu-sub011/app/database"
	"github.com/zsuyunov/abis-edu-sub011/app/routes/attendance"
	"github.com/zsuyunov/abis-edu-sub011/app/routes/timetable"
)

// apiErrorHandler keeps every error response in the same JSON shape the
// handlers use.
func apiErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	cfg := config.Load()
	defer config.GetDB().Close()

	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: apiErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Setup timetable routes
	timetable.SetupTimetableRoutes(app)

	// Setup attendance routes
	attendance.SetupAttendanceRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Endpoint not found")
	})

	log.Println("Server starting on :" + cfg.AppPort)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}
