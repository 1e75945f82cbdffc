package courseController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/progress"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetTest returns the test and its questions without the answer key
func GetTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	if err := db.Where("student_id = ? AND course_id = ?", userID, courseID).First(&courseModels.StudentCourseProgress{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var test courseModels.Test
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&test).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "The course has no test!", nil)
	}

	var questions []courseModels.Question
	if err := db.Where("test_id = ? AND is_deleted = ?", test.ID, false).Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	// Strip the answer key before handing questions to a student
	for i := range questions {
		questions[i].CorrectAnswer = ""
	}

	var attempt courseModels.StudentTest
	db.Where("student_id = ? AND test_id = ?", userID, test.ID).First(&attempt)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test fetched successfully.", fiber.Map{
		"test":      test,
		"questions": questions,
		"attempt":   attempt,
	})
}

// SubmitTest grades the student's answers and cascades the outcome into the
// course aggregate
func SubmitTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	testID := c.Locals("testID").(int)
	reqData, ok := c.Locals("validatedSubmitTest").(*courseValidator.SubmitTestRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var test courseModels.Test
	if err := db.Where("id = ? AND is_deleted = ?", testID, false).First(&test).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Test not found!", nil)
	}

	if err := db.Where("student_id = ? AND course_id = ?", userID, test.CourseID).First(&courseModels.StudentCourseProgress{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	attempt, err := progress.GradeAttempt(db, progress.PolicyFromConfig(), userID, uint(testID), reqData.Answers)
	if err != nil {
		var gradingErr *progress.GradingError
		if errors.As(err, &gradingErr) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, gradingErr.Reason, nil)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Test not found!", nil)
		}
		log.Printf("Error grading test %d for student %d: %v", testID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade the test!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test graded successfully.", attempt)
}
