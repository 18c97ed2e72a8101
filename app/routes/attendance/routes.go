package attendance

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zsuyunov/abis-edu-sub011/app/routes/auth"
)

func SetupAttendanceRoutes(app *fiber.App) {
	api := app.Group("/api/attendance")
	api.Use(auth.AuthMiddleware)

	api.Get("/", GetAttendanceAPI)
	api.Post("/", CreateAttendanceAPI)
	api.Put("/", BulkUpsertAttendanceAPI)
}
