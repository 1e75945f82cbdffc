package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

type CompleteModuleRequest struct {
	Completed *bool `json:"completed"`
}

type SubmitTestRequest struct {
	Answers map[string]string `json:"answers"`
}

func CompleteModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "id", "moduleID"); err != nil {
			return err
		}

		reqData := new(CompleteModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		// Missing flag defaults to marking complete; a present flag must be
		// an actual boolean, which BodyParser already guarantees.
		if reqData.Completed == nil {
			done := true
			reqData.Completed = &done
		}

		c.Locals("validatedCompleteModule", reqData)
		return c.Next()
	}
}

func SubmitTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "id", "testID"); err != nil {
			return err
		}

		reqData := new(SubmitTestRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Answers) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"answers": "At least one answer is required!",
			})
		}

		c.Locals("validatedSubmitTest", reqData)
		return c.Next()
	}
}
