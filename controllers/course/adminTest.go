package courseController

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreateTest attaches the exam to a course. One test per course.
func CreateTest(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	reqData, ok := c.Locals("validatedTest").(*courseValidator.CreateTestRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&courseModels.Test{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "The course already has a test!", nil)
	}

	test := courseModels.Test{
		CourseID: course.ID,
		Duration: reqData.Duration,
	}

	if err := db.Create(&test).Error; err != nil {
		log.Printf("Error creating test: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create test!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Test created successfully.", test)
}

// CreateQuestion adds a question to a test
func CreateQuestion(c *fiber.Ctx) error {
	testID := c.Locals("testID").(int)
	reqData, ok := c.Locals("validatedQuestion").(*courseValidator.CreateQuestionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var test courseModels.Test
	if err := db.Where("id = ? AND is_deleted = ?", testID, false).First(&test).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Test not found!", nil)
	}

	optionsJSON, err := json.Marshal(reqData.Options)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid options!", nil)
	}

	points := reqData.Points
	if points == 0 {
		points = 1
	}

	question := courseModels.Question{
		TestID:        test.ID,
		Prompt:        reqData.Prompt,
		Options:       datatypes.JSON(optionsJSON),
		CorrectAnswer: reqData.CorrectAnswer,
		Points:        points,
	}

	if err := db.Create(&question).Error; err != nil {
		log.Printf("Error creating question: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully.", question)
}

// ListQuestions returns a test's questions with the answer key (admin view)
func ListQuestions(c *fiber.Ctx) error {
	testID := c.Locals("testID").(int)

	db := database.Database.Db

	var test courseModels.Test
	if err := db.Where("id = ? AND is_deleted = ?", testID, false).First(&test).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Test not found!", nil)
	}

	var questions []courseModels.Question
	if err := db.Where("test_id = ? AND is_deleted = ?", testID, false).Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully.", fiber.Map{
		"test":      test,
		"questions": questions,
	})
}
