package instructorController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ListMyContracts returns the signed-in instructor's contracts with course
// titles and enrolled-student counts
func ListMyContracts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var contracts []models.Contract
	if err := db.Where("instructor_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&contracts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch contracts!", nil)
	}

	type ContractView struct {
		models.Contract
		CourseTitle  string `json:"course_title"`
		StudentCount int64  `json:"student_count"`
	}

	result := make([]ContractView, len(contracts))
	for i, ct := range contracts {
		var course courseModels.Course
		db.Where("id = ?", ct.CourseID).First(&course)

		var count int64
		db.Model(&models.User{}).
			Where("organization_code = ? AND role = ? AND is_deleted = ?", ct.OrganizationCode, models.RoleStudent, false).
			Count(&count)

		result[i] = ContractView{Contract: ct, CourseTitle: course.Title, StudentCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Contracts fetched successfully.", result)
}

// ListMyStudents returns the students registered under any of the
// instructor's organization codes
func ListMyStudents(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var codes []string
	if err := db.Model(&models.Contract{}).
		Where("instructor_id = ? AND is_deleted = ?", userID, false).
		Distinct().Pluck("organization_code", &codes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch contracts!", nil)
	}
	if len(codes) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully.", []models.User{})
	}

	var students []models.User
	if err := db.Where("organization_code IN ? AND role = ? AND is_deleted = ?", codes, models.RoleStudent, false).
		Order("last_name asc").Find(&students).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	for i := range students {
		students[i].Password = ""
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully.", students)
}

// GetStudentReport returns one student's full progress breakdown for the
// instructor's courses: course aggregates, subcourse percentages and test
// attempts.
func GetStudentReport(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	studentID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || studentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student ID in the URL!", nil)
	}

	db := database.Database.Db

	var student models.User
	if err := db.Where("id = ? AND role = ? AND is_deleted = ?", studentID, models.RoleStudent, false).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	// The student must belong to one of this instructor's organization codes
	var covering int64
	db.Model(&models.Contract{}).
		Where("instructor_id = ? AND organization_code = ? AND is_deleted = ?", userID, student.OrganizationCode, false).
		Count(&covering)
	if covering == 0 {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "The student is not registered under your contracts!", nil)
	}

	var progressRows []courseModels.StudentCourseProgress
	db.Where("student_id = ?", student.ID).Find(&progressRows)

	type CourseReport struct {
		CourseTitle string                             `json:"course_title"`
		Progress    courseModels.StudentCourseProgress `json:"progress"`
		Subcourses  []courseModels.StudentSubcourse    `json:"subcourses"`
		TestAttempt *courseModels.StudentTest          `json:"test_attempt,omitempty"`
	}

	report := make([]CourseReport, 0, len(progressRows))
	for _, prog := range progressRows {
		var course courseModels.Course
		db.Where("id = ?", prog.CourseID).First(&course)

		var subcourseIDs []uint
		db.Model(&courseModels.Subcourse{}).Where("course_id = ? AND is_deleted = ?", prog.CourseID, false).Pluck("id", &subcourseIDs)

		var subcourseRows []courseModels.StudentSubcourse
		if len(subcourseIDs) > 0 {
			db.Where("student_id = ? AND subcourse_id IN ?", student.ID, subcourseIDs).Find(&subcourseRows)
		}

		entry := CourseReport{CourseTitle: course.Title, Progress: prog, Subcourses: subcourseRows}

		var test courseModels.Test
		if err := db.Where("course_id = ? AND is_deleted = ?", prog.CourseID, false).First(&test).Error; err == nil {
			var attempt courseModels.StudentTest
			if err := db.Where("student_id = ? AND test_id = ?", student.ID, test.ID).First(&attempt).Error; err == nil {
				entry.TestAttempt = &attempt
			}
		}

		report = append(report, entry)
	}

	student.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student report fetched successfully.", fiber.Map{
		"student": student,
		"courses": report,
	})
}
