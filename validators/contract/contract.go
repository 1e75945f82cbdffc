package contractValidator

import (
	"lms/middleware"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateContractRequest struct {
	InstructorID     uint   `json:"instructor_id" validate:"required"`
	CourseID         uint   `json:"course_id" validate:"required"`
	OrganizationCode string `json:"organization_code" validate:"omitempty,min=5,max=100"`
	StartDate        string `json:"start_date" validate:"required"`
	EndDate          string `json:"end_date" validate:"required"`
}

func CreateContract() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateContractRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.OrganizationCode = strings.ToUpper(strings.TrimSpace(reqData.OrganizationCode))

		errors := make(map[string]string)
		if validationErrors, ok := validate.Struct(reqData).(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				errors[strings.ToLower(fieldErr.Field())] = "Invalid or missing value!"
			}
		}

		start, startErr := time.Parse("2006-01-02", reqData.StartDate)
		if startErr != nil {
			errors["start_date"] = "Must be a date in YYYY-MM-DD format!"
		}
		end, endErr := time.Parse("2006-01-02", reqData.EndDate)
		if endErr != nil {
			errors["end_date"] = "Must be a date in YYYY-MM-DD format!"
		}
		if startErr == nil && endErr == nil && start.After(end) {
			errors["start_date"] = "The training start date cannot be after the end date!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContract", reqData)
		c.Locals("contractStart", start)
		c.Locals("contractEnd", end)
		return c.Next()
	}
}

func ContractID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid contract ID in the URL!", nil)
		}
		c.Locals("contractID", id)
		return c.Next()
	}
}
