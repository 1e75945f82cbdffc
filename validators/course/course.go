package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateCourseRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=200"`
	Description   string `json:"description" validate:"max=2000"`
	ImageURL      string `json:"image_url" validate:"omitempty,url"`
	HasSimulation bool   `json:"has_simulation"`
}

type UpdateCourseRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL      *string `json:"image_url" validate:"omitempty,url"`
	HasSimulation *bool   `json:"has_simulation"`
}

type CreateSubcourseRequest struct {
	Name string `json:"name" validate:"required,min=3,max=200"`
}

type CreateModuleRequest struct {
	Name    string `json:"name" validate:"required,min=3,max=100"`
	Link    string `json:"link" validate:"omitempty,url,max=500"`
	FileURL string `json:"file_url" validate:"omitempty,max=500"`
}

type CreateTestRequest struct {
	Duration int `json:"duration" validate:"required,gt=0"`
}

type CreateQuestionRequest struct {
	Prompt        string   `json:"prompt" validate:"required,min=3"`
	Options       []string `json:"options" validate:"required,min=2"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Points        int      `json:"points" validate:"gte=0"`
}

// parseIDParam pulls a positive integer path parameter into c.Locals
func parseIDParam(c *fiber.Ctx, param string, localKey string) error {
	raw := strings.TrimSpace(c.Params(param))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ID in the URL!", nil)
	}
	c.Locals(localKey, id)
	return nil
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}
		return c.Next()
	}
}

func TestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "id", "testID"); err != nil {
			return err
		}
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func CreateSubcourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(CreateSubcourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedSubcourse", reqData)
		return c.Next()
	}
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "id", "subcourseID"); err != nil {
			return err
		}

		reqData := new(CreateModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		if reqData.Link == "" && reqData.FileURL == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"link": "A module needs a link or a file!",
			})
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func CreateTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(CreateTestRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedTest", reqData)
		return c.Next()
	}
}

func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "id", "testID"); err != nil {
			return err
		}

		reqData := new(CreateQuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Prompt = strings.TrimSpace(reqData.Prompt)
		reqData.CorrectAnswer = strings.TrimSpace(reqData.CorrectAnswer)

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedQuestion", reqData)
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
		case "url":
			errors[field] = "Must be a valid URL!"
		case "min":
			errors[field] = "Value is too short (min " + fieldErr.Param() + ")!"
		case "max":
			errors[field] = "Value is too long (max " + fieldErr.Param() + ")!"
		case "gt":
			errors[field] = "Value must be greater than " + fieldErr.Param() + "!"
		case "gte":
			errors[field] = "Value must be at least " + fieldErr.Param() + "!"
		default:
			errors[field] = "Invalid value!"
		}
	}
	return errors
}
