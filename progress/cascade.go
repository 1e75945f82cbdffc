// Package progress implements the completion cascade: module completions
// roll up into subcourse percentages, subcourse percentages into the course
// progress record, and a course reaching 100% triggers certificate issuance.
//
// The cascade is an explicit call chain invoked by handlers right after
// their mutation. There are no save hooks and therefore no re-entrancy
// guards: CompleteModule -> RecalcSubcourse -> RecalcCourse -> IssueCertificate
// is a straight-line DAG, and each step persists its own level before
// calling the next.
package progress

import (
	"errors"

	courseModels "lms/models/course"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate takes a row lock on databases that support it. Two events
// racing on the same (student, course) pair serialize on the progress row.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// CompleteModule flips the completion flag for a (student, module) pair and
// propagates the change upward. Idempotent: re-marking a completed module
// leaves the stored state untouched and recomputes to the same percentages.
func CompleteModule(db *gorm.DB, p Policy, studentID, moduleID uint, completed bool) (*courseModels.StudentModule, error) {
	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return nil, err
	}

	var record courseModels.StudentModule
	err := db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).Where("student_id = ? AND module_id = ?", studentID, moduleID).First(&record).Error
		switch {
		case err == nil:
			if record.Completed != completed {
				record.Completed = completed
				if err := tx.Save(&record).Error; err != nil {
					return err
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = courseModels.StudentModule{StudentID: studentID, ModuleID: moduleID, Completed: completed}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return RecalcSubcourse(tx, p, studentID, module.SubcourseID)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// RecalcSubcourse recomputes a student's subcourse percentage from module
// completions and propagates to the course level. Must run inside the
// caller's transaction so a failure higher up rolls this level back too.
func RecalcSubcourse(tx *gorm.DB, p Policy, studentID, subcourseID uint) error {
	var subcourse courseModels.Subcourse
	if err := tx.Where("id = ? AND is_deleted = ?", subcourseID, false).First(&subcourse).Error; err != nil {
		return err
	}

	var total int64
	if err := tx.Model(&courseModels.Module{}).
		Where("subcourse_id = ? AND is_deleted = ?", subcourseID, false).
		Count(&total).Error; err != nil {
		return err
	}

	var done int64
	if err := tx.Model(&courseModels.StudentModule{}).
		Joins("JOIN modules ON modules.id = student_modules.module_id").
		Where("student_modules.student_id = ? AND student_modules.completed = ? AND modules.subcourse_id = ? AND modules.is_deleted = ?",
			studentID, true, subcourseID, false).
		Count(&done).Error; err != nil {
		return err
	}

	// Empty subcourse counts as 0%, not an error
	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}
	pct = p.Normalize(pct)

	var record courseModels.StudentSubcourse
	err := lockForUpdate(tx).Where("student_id = ? AND subcourse_id = ?", studentID, subcourseID).First(&record).Error
	switch {
	case err == nil:
		record.PercentCompleted = pct
		record.Completed = pct == 100
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = courseModels.StudentSubcourse{
			StudentID:        studentID,
			SubcourseID:      subcourseID,
			PercentCompleted: pct,
			Completed:        pct == 100,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
	default:
		return err
	}

	return RecalcCourse(tx, p, studentID, subcourse.CourseID)
}

// RecalcCourse recomputes the course-level percentage for a student using
// the course-type weighting, persists it, and issues a certificate when the
// record first reaches completion. Callable both from the upward cascade and
// directly after a test or simulation change without double-counting: every
// input is re-read from storage each time.
func RecalcCourse(tx *gorm.DB, p Policy, studentID, courseID uint) error {
	var crs courseModels.Course
	if err := tx.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return err
	}

	var prog courseModels.StudentCourseProgress
	err := lockForUpdate(tx).Where("student_id = ? AND course_id = ?", studentID, courseID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Not enrolled: nothing to aggregate
		return nil
	}
	if err != nil {
		return err
	}

	content, err := contentPercent(tx, studentID, courseID)
	if err != nil {
		return err
	}

	testPct, err := testPercent(tx, studentID, courseID)
	if err != nil {
		return err
	}

	var pct float64
	if crs.HasSimulation {
		simPct := 0.0
		if prog.SimulationCompleted != nil && *prog.SimulationCompleted {
			simPct = 100
		}
		pct = content*p.ContentWeightSim + simPct*p.SimulationWeight + testPct*p.TestWeightSim
	} else {
		pct = content*p.ContentWeight + testPct*p.TestWeight
	}
	pct = p.Normalize(pct)

	wasCompleted := prog.Completed
	prog.PercentCompleted = pct
	// Content completion requires the full mean, not a near miss: the
	// >=floor snap applies to the course percentage only.
	prog.ContentCompleted = round2(content) == 100
	prog.Completed = pct == 100
	if prog.Completed && prog.FinishedAt == nil {
		now := time.Now()
		prog.FinishedAt = &now
	}

	if err := tx.Save(&prog).Error; err != nil {
		return err
	}

	// Completion may later regress (e.g. the simulation requirement gets
	// toggled back on); an already-issued certificate is never revoked.
	if prog.Completed && !wasCompleted {
		if _, err := IssueCertificate(tx, studentID, courseID); err != nil {
			return err
		}
	}
	return nil
}

// contentPercent averages the student's subcourse percentages across all of
// the course's subcourses. Missing rows count as 0; no subcourses means 0.
func contentPercent(tx *gorm.DB, studentID, courseID uint) (float64, error) {
	var subcourseIDs []uint
	if err := tx.Model(&courseModels.Subcourse{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Pluck("id", &subcourseIDs).Error; err != nil {
		return 0, err
	}
	if len(subcourseIDs) == 0 {
		return 0, nil
	}

	var sum float64
	if err := tx.Model(&courseModels.StudentSubcourse{}).
		Where("student_id = ? AND subcourse_id IN ?", studentID, subcourseIDs).
		Select("COALESCE(SUM(percent_completed), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum / float64(len(subcourseIDs)), nil
}

// testPercent is 100 when the student has a passed attempt on the course
// test, otherwise 0 (including when the course has no test or no attempt).
func testPercent(tx *gorm.DB, studentID, courseID uint) (float64, error) {
	var test courseModels.Test
	err := tx.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&test).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var attempt courseModels.StudentTest
	err = tx.Where("student_id = ? AND test_id = ?", studentID, test.ID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if attempt.Passed {
		return 100, nil
	}
	return 0, nil
}

// RecalcSubcourseForStudents re-runs the subcourse cascade for every student
// tracked on it. Used after an admin adds or removes a module, which changes
// the denominator for everyone at once.
func RecalcSubcourseForStudents(db *gorm.DB, p Policy, subcourseID uint) error {
	var studentIDs []uint
	if err := db.Model(&courseModels.StudentSubcourse{}).
		Where("subcourse_id = ?", subcourseID).
		Pluck("student_id", &studentIDs).Error; err != nil {
		return err
	}

	for _, studentID := range studentIDs {
		id := studentID
		if err := db.Transaction(func(tx *gorm.DB) error {
			return RecalcSubcourse(tx, p, id, subcourseID)
		}); err != nil {
			return err
		}
	}
	return nil
}

// RecalcCourseForStudents re-runs the course aggregation for every enrolled
// student. Used when the course's simulation requirement is toggled.
func RecalcCourseForStudents(db *gorm.DB, p Policy, courseID uint) error {
	var studentIDs []uint
	if err := db.Model(&courseModels.StudentCourseProgress{}).
		Where("course_id = ?", courseID).
		Pluck("student_id", &studentIDs).Error; err != nil {
		return err
	}

	for _, studentID := range studentIDs {
		id := studentID
		if err := db.Transaction(func(tx *gorm.DB) error {
			return RecalcCourse(tx, p, id, courseID)
		}); err != nil {
			return err
		}
	}
	return nil
}

// MarkSimulationCompleted records the simulation outcome and recomputes the
// course aggregate in the same transaction.
func MarkSimulationCompleted(db *gorm.DB, p Policy, studentID, courseID uint, completed bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var prog courseModels.StudentCourseProgress
		if err := lockForUpdate(tx).Where("student_id = ? AND course_id = ?", studentID, courseID).First(&prog).Error; err != nil {
			return err
		}
		prog.SimulationCompleted = &completed
		if err := tx.Save(&prog).Error; err != nil {
			return err
		}
		return RecalcCourse(tx, p, studentID, courseID)
	})
}
