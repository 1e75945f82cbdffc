package courseRoutes

import (
	courseControllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent))

	courseGroup.Get("/list", courseControllers.ListMyCourses)
	courseGroup.Get("/:id", courseValidators.CourseID(), courseControllers.GetCourseDetail)
	courseGroup.Get("/:id/progress", courseValidators.CourseID(), courseControllers.GetCourseProgress)

	courseGroup.Post("/module/:id/complete", courseValidators.CompleteModule(), courseControllers.CompleteModule)
	courseGroup.Post("/:id/simulation/complete", courseValidators.CourseID(), courseControllers.CompleteSimulation)

	courseGroup.Get("/:id/test", courseValidators.CourseID(), courseControllers.GetTest)
	courseGroup.Post("/test/:id/submit", courseValidators.SubmitTest(), courseControllers.SubmitTest)

	certificateGroup := app.Group("/certificate", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent))
	certificateGroup.Get("/list", courseControllers.GetMyCertificates)
	certificateGroup.Post("/course/:id", courseValidators.CourseID(), courseControllers.RequestCertificate)
	certificateGroup.Get("/course/:id/download", courseValidators.CourseID(), courseControllers.DownloadCertificate)
}
