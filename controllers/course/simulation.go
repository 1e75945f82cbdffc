package courseController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progress"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CompleteSimulation verifies the student's simulation outcome with the
// external platform and, if confirmed, records it and recomputes the
// course aggregate.
func CompleteSimulation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if !course.HasSimulation {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "The course has no simulation component!", nil)
	}

	var student models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	confirmed, err := utils.CheckSimulationCompleted(student.Email, course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Could not verify the simulation with the external platform!", nil)
	}
	if !confirmed {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "The simulation platform has no completion on record!", nil)
	}

	if err := progress.MarkSimulationCompleted(db, progress.PolicyFromConfig(), userID, course.ID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
		}
		log.Printf("Error recording simulation for student %d course %d: %v", userID, course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record the simulation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Simulation recorded successfully.", nil)
}
