package progress

import (
	"fmt"
	"strings"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database with the full schema and
// points generated artifacts at a throwaway directory.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)

	config.AppConfig = &config.Config{
		MediaDir:         t.TempDir(),
		ContentWeightSim: 0.5,
		SimulationWeight: 0.3,
		TestWeightSim:    0.2,
		ContentWeight:    0.8,
		TestWeight:       0.2,
		PassThreshold:    60,
		CompletionFloor:  99,
	}
	t.Cleanup(func() { config.AppConfig = nil })

	return db
}

func seedStudent(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	student := models.User{
		FirstName: "Ada",
		LastName:  "Mensah",
		Email:     email,
		Password:  "hashed",
		Role:      models.RoleStudent,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

// seedCourse builds a course with the given subcourse/module layout and
// returns the modules grouped by subcourse.
func seedCourse(t *testing.T, db *gorm.DB, title string, hasSimulation bool, modulesPerSubcourse ...int) (courseModels.Course, [][]courseModels.Module) {
	t.Helper()

	crs := courseModels.Course{Title: title, HasSimulation: hasSimulation}
	require.NoError(t, db.Create(&crs).Error)

	modules := make([][]courseModels.Module, len(modulesPerSubcourse))
	for i, count := range modulesPerSubcourse {
		sub := courseModels.Subcourse{CourseID: crs.ID, Name: fmt.Sprintf("Part %d", i+1)}
		require.NoError(t, db.Create(&sub).Error)

		for j := 0; j < count; j++ {
			mod := courseModels.Module{SubcourseID: sub.ID, Name: fmt.Sprintf("Lesson %d.%d", i+1, j+1), Link: "https://example.com"}
			require.NoError(t, db.Create(&mod).Error)
			modules[i] = append(modules[i], mod)
		}
	}
	return crs, modules
}

func seedTest(t *testing.T, db *gorm.DB, courseID uint, points ...int) (courseModels.Test, []courseModels.Question) {
	t.Helper()

	test := courseModels.Test{CourseID: courseID, Duration: 30}
	require.NoError(t, db.Create(&test).Error)

	questions := make([]courseModels.Question, len(points))
	for i, pts := range points {
		q := courseModels.Question{
			TestID:        test.ID,
			Prompt:        fmt.Sprintf("Question %d", i+1),
			CorrectAnswer: fmt.Sprintf("Answer %d", i+1),
			Points:        pts,
		}
		require.NoError(t, db.Create(&q).Error)
		questions[i] = q
	}
	return test, questions
}

// enrollDirect creates just the course-level progress record, the way the
// enrollment flow would, so the cascade has a row to aggregate into.
func enrollDirect(t *testing.T, db *gorm.DB, studentID uint, crs courseModels.Course) courseModels.StudentCourseProgress {
	t.Helper()

	prog := courseModels.StudentCourseProgress{StudentID: studentID, CourseID: crs.ID}
	if crs.HasSimulation {
		notDone := false
		prog.SimulationCompleted = &notDone
	}
	require.NoError(t, db.Create(&prog).Error)
	return prog
}

func courseProgress(t *testing.T, db *gorm.DB, studentID, courseID uint) courseModels.StudentCourseProgress {
	t.Helper()
	var prog courseModels.StudentCourseProgress
	require.NoError(t, db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&prog).Error)
	return prog
}

func subcourseProgress(t *testing.T, db *gorm.DB, studentID, subcourseID uint) courseModels.StudentSubcourse {
	t.Helper()
	var record courseModels.StudentSubcourse
	require.NoError(t, db.Where("student_id = ? AND subcourse_id = ?", studentID, subcourseID).First(&record).Error)
	return record
}

func certificateCount(t *testing.T, db *gorm.DB, studentID, courseID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&courseModels.Certificate{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).Count(&count).Error)
	return count
}

func answersFor(questions []courseModels.Question, correct int) map[string]string {
	answers := make(map[string]string)
	for i, q := range questions {
		if i < correct {
			answers[fmt.Sprint(q.ID)] = q.CorrectAnswer
		} else {
			answers[fmt.Sprint(q.ID)] = "wrong"
		}
	}
	return answers
}
