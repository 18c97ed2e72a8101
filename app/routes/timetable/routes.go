package timetable

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zsuyunov/abis-edu-sub011/app/routes/auth"
)

func SetupTimetableRoutes(app *fiber.App) {
	api := app.Group("/api/timetable")
	api.Use(auth.AuthMiddleware)

	api.Get("/class/:id", GetClassTimetableAPI)
	api.Get("/template", DownloadTemplateAPI)
	api.Post("/bulk-upload", BulkUploadAPI)
	api.Put("/slots/replace", ReplaceSlotAPI)
	api.Delete("/slots/:id", DeactivateSlotAPI)
}
