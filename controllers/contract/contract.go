package contractController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progress"
	contractValidator "lms/validators/contract"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateContract assigns a course to an instructor for a training window.
// The organization code is generated from the instructor's company unless
// the request forces one.
func CreateContract(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedContract").(*contractValidator.CreateContractRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	start := c.Locals("contractStart").(time.Time)
	end := c.Locals("contractEnd").(time.Time)

	db := database.Database.Db

	var instructor models.User
	if err := db.Where("id = ? AND role = ? AND is_deleted = ?", reqData.InstructorID, models.RoleInstructor, false).First(&instructor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Instructor not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// One active contract per (instructor, course); the partial unique
	// index backs this up at the storage level
	var existing models.Contract
	if err := db.Where("instructor_id = ? AND course_id = ? AND active = ? AND is_deleted = ?",
		instructor.ID, course.ID, true, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An active contract for this instructor and course already exists!", existing)
	}

	contract := models.Contract{
		InstructorID:     instructor.ID,
		CourseID:         course.ID,
		OrganizationCode: reqData.OrganizationCode,
		StartDate:        start,
		EndDate:          end,
		Active:           true,
	}

	if err := db.Create(&contract).Error; err != nil {
		log.Printf("Error creating contract: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create contract!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Contract created successfully.", contract)
}

// ListContracts returns all contracts (admin view)
func ListContracts(c *fiber.Ctx) error {
	db := database.Database.Db

	var contracts []models.Contract
	if err := db.Where("is_deleted = ?", false).Order("created_at desc").Find(&contracts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch contracts!", nil)
	}

	type ContractDetail struct {
		models.Contract
		InstructorEmail string `json:"instructor_email"`
		CourseTitle     string `json:"course_title"`
	}

	result := make([]ContractDetail, len(contracts))
	for i, ct := range contracts {
		var instructor models.User
		var course courseModels.Course
		db.Where("id = ?", ct.InstructorID).First(&instructor)
		db.Where("id = ?", ct.CourseID).First(&course)
		result[i] = ContractDetail{
			Contract:        ct,
			InstructorEmail: instructor.Email,
			CourseTitle:     course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Contracts fetched successfully.", result)
}

// DeactivateContract ends a contract early and tears down the course
// progress rows of the students it covered. Certificates stay.
func DeactivateContract(c *fiber.Ctx) error {
	contractID := c.Locals("contractID").(int)

	db := database.Database.Db

	var contract models.Contract
	if err := db.Where("id = ? AND is_deleted = ?", contractID, false).First(&contract).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Contract not found!", nil)
	}

	if !contract.Active {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Contract is already inactive!", nil)
	}

	// Deactivation and enrollment teardown stand or fall together: a
	// teardown failure must not leave an inactive contract with live
	// progress rows behind.
	err := db.Transaction(func(tx *gorm.DB) error {
		contract.Active = false
		if err := tx.Save(&contract).Error; err != nil {
			return err
		}
		return progress.TeardownContract(tx, contract)
	})
	if err != nil {
		log.Printf("Error deactivating contract %d: %v", contract.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deactivate contract!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Contract deactivated successfully.", contract)
}
