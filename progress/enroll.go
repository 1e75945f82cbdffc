package progress

import (
	"errors"
	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidOrganizationCode means the code matches no active contract
var ErrInvalidOrganizationCode = errors.New("organization code does not match any active contract")

// EnrollStudent creates the full set of tracking rows for every course the
// organization code's active contracts cover: one progress record per
// course, plus subcourse, module and test rows so later completion events
// have something to flip. Runs inside the caller's transaction; a failure
// anywhere rolls the whole enrollment back.
func EnrollStudent(tx *gorm.DB, studentID uint, organizationCode string) error {
	var contracts []models.Contract
	if err := tx.Where("organization_code = ? AND active = ? AND is_deleted = ?", organizationCode, true, false).
		Find(&contracts).Error; err != nil {
		return err
	}
	if len(contracts) == 0 {
		return ErrInvalidOrganizationCode
	}

	courseIDs := make([]uint, 0, len(contracts))
	seen := make(map[uint]bool)
	for _, ct := range contracts {
		if !seen[ct.CourseID] {
			seen[ct.CourseID] = true
			courseIDs = append(courseIDs, ct.CourseID)
		}
	}

	var courses []courseModels.Course
	if err := tx.Where("id IN ? AND is_deleted = ?", courseIDs, false).Find(&courses).Error; err != nil {
		return err
	}

	var progressRows []courseModels.StudentCourseProgress
	var testRows []courseModels.StudentTest
	var subcourseRows []courseModels.StudentSubcourse
	var moduleRows []courseModels.StudentModule

	for _, crs := range courses {
		prog := courseModels.StudentCourseProgress{
			StudentID: studentID,
			CourseID:  crs.ID,
		}
		if crs.HasSimulation {
			notDone := false
			prog.SimulationCompleted = &notDone
		}
		progressRows = append(progressRows, prog)

		var tests []courseModels.Test
		if err := tx.Where("course_id = ? AND is_deleted = ?", crs.ID, false).Find(&tests).Error; err != nil {
			return err
		}
		for _, t := range tests {
			testRows = append(testRows, courseModels.StudentTest{StudentID: studentID, TestID: t.ID})
		}

		var subcourses []courseModels.Subcourse
		if err := tx.Where("course_id = ? AND is_deleted = ?", crs.ID, false).Find(&subcourses).Error; err != nil {
			return err
		}
		for _, sc := range subcourses {
			subcourseRows = append(subcourseRows, courseModels.StudentSubcourse{StudentID: studentID, SubcourseID: sc.ID})

			var modules []courseModels.Module
			if err := tx.Where("subcourse_id = ? AND is_deleted = ?", sc.ID, false).Find(&modules).Error; err != nil {
				return err
			}
			for _, m := range modules {
				moduleRows = append(moduleRows, courseModels.StudentModule{StudentID: studentID, ModuleID: m.ID})
			}
		}
	}

	// Re-enrollment must not fail on rows that already exist
	onConflict := clause.OnConflict{DoNothing: true}
	if len(progressRows) > 0 {
		if err := tx.Clauses(onConflict).Create(&progressRows).Error; err != nil {
			return err
		}
	}
	if len(testRows) > 0 {
		if err := tx.Clauses(onConflict).Create(&testRows).Error; err != nil {
			return err
		}
	}
	if len(subcourseRows) > 0 {
		if err := tx.Clauses(onConflict).Create(&subcourseRows).Error; err != nil {
			return err
		}
	}
	if len(moduleRows) > 0 {
		if err := tx.Clauses(onConflict).Create(&moduleRows).Error; err != nil {
			return err
		}
	}
	return nil
}

// TeardownContract removes the course progress records of the students a
// deactivated contract was covering. Certificates stay: they are terminal.
// Progress rows are recreated from scratch if the students re-enroll.
func TeardownContract(db *gorm.DB, contract models.Contract) error {
	var studentIDs []uint
	if err := db.Model(&models.User{}).
		Where("organization_code = ? AND role = ? AND is_deleted = ?", contract.OrganizationCode, models.RoleStudent, false).
		Pluck("id", &studentIDs).Error; err != nil {
		return err
	}
	if len(studentIDs) == 0 {
		return nil
	}

	return db.Unscoped().
		Where("course_id = ? AND student_id IN ?", contract.CourseID, studentIDs).
		Delete(&courseModels.StudentCourseProgress{}).Error
}
