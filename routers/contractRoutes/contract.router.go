package contractRoutes

import (
	contractControllers "lms/controllers/contract"
	"lms/middleware"
	"lms/models"
	contractValidators "lms/validators/contract"

	"github.com/gofiber/fiber/v2"
)

func SetupContractRoutes(app *fiber.App) {
	contractGroup := app.Group("/contract", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	contractGroup.Post("/", contractValidators.CreateContract(), contractControllers.CreateContract)
	contractGroup.Get("/list", contractControllers.ListContracts)
	contractGroup.Patch("/:id/deactivate", contractValidators.ContractID(), contractControllers.DeactivateContract)
}
