package courseController

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/progress"
	courseValidator "lms/validators/course"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a new course (admin only)
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:         reqData.Title,
		Description:   reqData.Description,
		ImageURL:      reqData.ImageURL,
		HasSimulation: reqData.HasSimulation,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", course)
}

// UpdateCourse patches course fields. Toggling the simulation requirement
// changes the weighting for everyone, so every enrolled student's aggregate
// is recomputed.
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	simulationToggled := false
	if reqData.Title != nil {
		course.Title = strings.TrimSpace(*reqData.Title)
	}
	if reqData.Description != nil {
		course.Description = strings.TrimSpace(*reqData.Description)
	}
	if reqData.ImageURL != nil {
		course.ImageURL = *reqData.ImageURL
	}
	if reqData.HasSimulation != nil && *reqData.HasSimulation != course.HasSimulation {
		course.HasSimulation = *reqData.HasSimulation
		simulationToggled = true
	}

	if err := db.Save(&course).Error; err != nil {
		log.Printf("Error updating course %d: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	if simulationToggled {
		if err := progress.RecalcCourseForStudents(db, progress.PolicyFromConfig(), course.ID); err != nil {
			log.Printf("Error recomputing progress for course %d: %v", course.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Course updated but progress recomputation failed!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", course)
}

// ListCourses returns all courses (admin view)
func ListCourses(c *fiber.Ctx) error {
	db := database.Database.Db

	var courses []courseModels.Course
	if err := db.Where("is_deleted = ?", false).Order("title asc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	type CourseWithCounts struct {
		courseModels.Course
		SubcourseCount int64 `json:"subcourse_count"`
	}

	result := make([]CourseWithCounts, len(courses))
	for i, course := range courses {
		var count int64
		db.Model(&courseModels.Subcourse{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&count)
		result[i] = CourseWithCounts{Course: course, SubcourseCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", result)
}

// DeleteCourse soft-deletes a course
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsDeleted = true
	if err := db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", nil)
}

// CreateSubcourse adds a subcourse to a course
func CreateSubcourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	reqData, ok := c.Locals("validatedSubcourse").(*courseValidator.CreateSubcourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	subcourse := courseModels.Subcourse{
		CourseID: course.ID,
		Name:     reqData.Name,
	}

	if err := db.Create(&subcourse).Error; err != nil {
		log.Printf("Error creating subcourse: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create subcourse!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subcourse created successfully.", subcourse)
}

// DeleteSubcourse soft-deletes a subcourse and recomputes the course
// aggregate for everyone enrolled: removing a subcourse changes the
// content denominator.
func DeleteSubcourse(c *fiber.Ctx) error {
	subcourseID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || subcourseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid subcourse ID in the URL!", nil)
	}

	db := database.Database.Db

	var subcourse courseModels.Subcourse
	if err := db.Where("id = ? AND is_deleted = ?", subcourseID, false).First(&subcourse).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Subcourse not found!", nil)
	}

	subcourse.IsDeleted = true
	if err := db.Save(&subcourse).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete subcourse!", nil)
	}

	if err := progress.RecalcCourseForStudents(db, progress.PolicyFromConfig(), subcourse.CourseID); err != nil {
		log.Printf("Error recomputing course %d: %v", subcourse.CourseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Subcourse deleted but progress recomputation failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subcourse deleted successfully.", nil)
}

// CreateModule adds a module to a subcourse and recomputes everyone tracked
// on it: adding a module changes the completion denominator.
func CreateModule(c *fiber.Ctx) error {
	subcourseID := c.Locals("subcourseID").(int)
	reqData, ok := c.Locals("validatedModule").(*courseValidator.CreateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var subcourse courseModels.Subcourse
	if err := db.Where("id = ? AND is_deleted = ?", subcourseID, false).First(&subcourse).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Subcourse not found!", nil)
	}

	module := courseModels.Module{
		SubcourseID: subcourse.ID,
		Name:        reqData.Name,
		Link:        reqData.Link,
		FileURL:     reqData.FileURL,
	}

	if err := db.Create(&module).Error; err != nil {
		log.Printf("Error creating module: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	if err := progress.RecalcSubcourseForStudents(db, progress.PolicyFromConfig(), subcourse.ID); err != nil {
		log.Printf("Error recomputing subcourse %d: %v", subcourse.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Module created but progress recomputation failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully.", module)
}

// DeleteModule removes a module and recomputes the subcourse for all
// students tracked on it
func DeleteModule(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || moduleID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID in the URL!", nil)
	}

	db := database.Database.Db

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	module.IsDeleted = true
	if err := db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	if err := progress.RecalcSubcourseForStudents(db, progress.PolicyFromConfig(), module.SubcourseID); err != nil {
		log.Printf("Error recomputing subcourse %d: %v", module.SubcourseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Module deleted but progress recomputation failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully.", nil)
}
