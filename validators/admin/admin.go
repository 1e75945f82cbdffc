package adminValidator

import (
	"lms/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateCompanyRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Area          string `json:"area" validate:"max=100"`
	Address       string `json:"address" validate:"max=200"`
	Phone         string `json:"phone" validate:"max=30"`
	Email         string `json:"email" validate:"required,email"`
	EmployeeCount int    `json:"employee_count" validate:"gte=0"`
}

type CreateInstructorRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	CompanyID uint   `json:"company_id" validate:"required"`
}

func CreateCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCompanyRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedCompany", reqData)
		return c.Next()
	}
}

func CreateInstructor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateInstructorRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.FirstName = strings.TrimSpace(reqData.FirstName)
		reqData.LastName = strings.TrimSpace(reqData.LastName)
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedInstructor", reqData)
		return c.Next()
	}
}

func collectErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	errors := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = "Invalid request data!"
		return errors
	}
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			errors[field] = "This field is required!"
		case "email":
			errors[field] = "Must be a valid email address!"
		case "min":
			errors[field] = "Value is too short (min " + fieldErr.Param() + ")!"
		case "max":
			errors[field] = "Value is too long (max " + fieldErr.Param() + ")!"
		case "gte":
			errors[field] = "Value must be at least " + fieldErr.Param() + "!"
		default:
			errors[field] = "Invalid value!"
		}
	}
	return errors
}
