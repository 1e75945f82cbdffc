package instructorRoutes

import (
	instructorControllers "lms/controllers/instructor"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

func SetupInstructorRoutes(app *fiber.App) {
	instructorGroup := app.Group("/instructor", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor))

	instructorGroup.Get("/contract/list", instructorControllers.ListMyContracts)
	instructorGroup.Get("/student/list", instructorControllers.ListMyStudents)
	instructorGroup.Get("/student/:id/report", instructorControllers.GetStudentReport)
}
