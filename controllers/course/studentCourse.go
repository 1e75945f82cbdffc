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

// ListMyCourses returns the student's enrolled courses with their aggregate
// progress records
func ListMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var progressRows []courseModels.StudentCourseProgress
	if err := db.Where("student_id = ?", userID).Find(&progressRows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	type CourseWithProgress struct {
		courseModels.Course
		Progress courseModels.StudentCourseProgress `json:"progress"`
	}

	result := make([]CourseWithProgress, 0, len(progressRows))
	for _, row := range progressRows {
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ?", row.CourseID, false).First(&course).Error; err != nil {
			continue
		}
		result = append(result, CourseWithProgress{Course: course, Progress: row})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", result)
}

// GetCourseDetail returns the course tree with the student's completion
// state on every module and subcourse
func GetCourseDetail(c *fiber.Ctx) error {
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

	var prog courseModels.StudentCourseProgress
	if err := db.Where("student_id = ? AND course_id = ?", userID, courseID).First(&prog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	type ModuleView struct {
		courseModels.Module
		Completed bool `json:"completed"`
	}
	type SubcourseView struct {
		courseModels.Subcourse
		PercentCompleted float64      `json:"percent_completed"`
		Completed        bool         `json:"completed"`
		Modules          []ModuleView `json:"modules"`
	}

	var subcourses []courseModels.Subcourse
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("id asc").Find(&subcourses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	subcourseViews := make([]SubcourseView, len(subcourses))
	for i, sc := range subcourses {
		view := SubcourseView{Subcourse: sc}

		var tracked courseModels.StudentSubcourse
		if err := db.Where("student_id = ? AND subcourse_id = ?", userID, sc.ID).First(&tracked).Error; err == nil {
			view.PercentCompleted = tracked.PercentCompleted
			view.Completed = tracked.Completed
		}

		var modules []courseModels.Module
		db.Where("subcourse_id = ? AND is_deleted = ?", sc.ID, false).Order("id asc").Find(&modules)
		view.Modules = make([]ModuleView, len(modules))
		for j, m := range modules {
			view.Modules[j] = ModuleView{Module: m}
			var completion courseModels.StudentModule
			if err := db.Where("student_id = ? AND module_id = ? AND completed = ?", userID, m.ID, true).First(&completion).Error; err == nil {
				view.Modules[j].Completed = true
			}
		}
		subcourseViews[i] = view
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", fiber.Map{
		"course":     course,
		"progress":   prog,
		"subcourses": subcourseViews,
	})
}

// CompleteModule marks a module done (or undone) for the signed-in student
// and runs the full cascade up to the course aggregate.
func CompleteModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)
	reqData, ok := c.Locals("validatedCompleteModule").(*courseValidator.CompleteModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	record, err := progress.CompleteModule(db, progress.PolicyFromConfig(), userID, uint(moduleID), *reqData.Completed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
		}
		log.Printf("Error completing module %d for student %d: %v", moduleID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module completion!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module completion updated successfully.", record)
}

// GetCourseProgress returns the student's aggregate for one course plus the
// per-subcourse breakdown
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var prog courseModels.StudentCourseProgress
	if err := db.Where("student_id = ? AND course_id = ?", userID, courseID).First(&prog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var subcourseIDs []uint
	db.Model(&courseModels.Subcourse{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Pluck("id", &subcourseIDs)

	var subcourseRows []courseModels.StudentSubcourse
	if len(subcourseIDs) > 0 {
		db.Where("student_id = ? AND subcourse_id IN ?", userID, subcourseIDs).Find(&subcourseRows)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", fiber.Map{
		"progress":   prog,
		"subcourses": subcourseRows,
	})
}
