package adminRoutes

import (
	adminControllers "lms/controllers/admin"
	courseControllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	adminValidators "lms/validators/admin"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/dashboard", adminControllers.GetDashboard)

	adminGroup.Post("/company", adminValidators.CreateCompany(), adminControllers.CreateCompany)
	adminGroup.Get("/company/list", adminControllers.ListCompanies)
	adminGroup.Post("/instructor", adminValidators.CreateInstructor(), adminControllers.CreateInstructor)

	adminGroup.Post("/course", courseValidators.CreateCourse(), courseControllers.CreateCourse)
	adminGroup.Get("/course/list", courseControllers.ListCourses)
	adminGroup.Put("/course/:id", courseValidators.UpdateCourse(), courseControllers.UpdateCourse)
	adminGroup.Delete("/course/:id", courseValidators.CourseID(), courseControllers.DeleteCourse)
	adminGroup.Post("/course/:id/subcourse", courseValidators.CreateSubcourse(), courseControllers.CreateSubcourse)
	adminGroup.Delete("/subcourse/:id", courseControllers.DeleteSubcourse)
	adminGroup.Post("/subcourse/:id/module", courseValidators.CreateModule(), courseControllers.CreateModule)
	adminGroup.Delete("/module/:id", courseControllers.DeleteModule)

	adminGroup.Post("/course/:id/test", courseValidators.CreateTest(), courseControllers.CreateTest)
	adminGroup.Post("/test/:id/question", courseValidators.CreateQuestion(), courseControllers.CreateQuestion)
	adminGroup.Get("/test/:id/question/list", courseValidators.TestID(), courseControllers.ListQuestions)

	adminGroup.Delete("/certificate/:id", courseControllers.DeleteCertificate)
}
