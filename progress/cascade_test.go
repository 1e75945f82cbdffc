package progress

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCompleteModuleRollsUpToSubcourse(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "Working at Height", false, 2)
	enrollDirect(t, db, student.ID, crs)

	_, err := CompleteModule(db, p, student.ID, modules[0][0].ID, true)
	require.NoError(t, err)

	sub := subcourseProgress(t, db, student.ID, modules[0][0].SubcourseID)
	assert.Equal(t, 50.0, sub.PercentCompleted)
	assert.False(t, sub.Completed)

	_, err = CompleteModule(db, p, student.ID, modules[0][1].ID, true)
	require.NoError(t, err)

	sub = subcourseProgress(t, db, student.ID, modules[0][0].SubcourseID)
	assert.Equal(t, 100.0, sub.PercentCompleted)
	assert.True(t, sub.Completed)
}

func TestCompleteModuleIdempotent(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "Working at Height", false, 2)
	enrollDirect(t, db, student.ID, crs)

	for i := 0; i < 3; i++ {
		_, err := CompleteModule(db, p, student.ID, modules[0][0].ID, true)
		require.NoError(t, err)
	}

	var rows int64
	require.NoError(t, db.Model(&courseModels.StudentModule{}).
		Where("student_id = ? AND module_id = ?", student.ID, modules[0][0].ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	sub := subcourseProgress(t, db, student.ID, modules[0][0].SubcourseID)
	assert.Equal(t, 50.0, sub.PercentCompleted)
}

func TestCompleteModuleUnknownModule(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ada@org.test")

	_, err := CompleteModule(db, DefaultPolicy(), student.ID, 9999, true)
	assert.Error(t, err)
}

func TestCascadeThroughCourseLevels(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "Fire Safety", false, 1, 1)
	test, questions := seedTest(t, db, crs.ID, 1, 1)
	enrollDirect(t, db, student.ID, crs)

	// One of two subcourses done: content 50%, weighted 0.8 -> 40%
	_, err := CompleteModule(db, p, student.ID, modules[0][0].ID, true)
	require.NoError(t, err)

	prog := courseProgress(t, db, student.ID, crs.ID)
	assert.Equal(t, 40.0, prog.PercentCompleted)
	assert.False(t, prog.ContentCompleted)
	assert.False(t, prog.Completed)

	// All content done, test still missing: 80%
	_, err = CompleteModule(db, p, student.ID, modules[1][0].ID, true)
	require.NoError(t, err)

	prog = courseProgress(t, db, student.ID, crs.ID)
	assert.Equal(t, 80.0, prog.PercentCompleted)
	assert.True(t, prog.ContentCompleted)
	assert.False(t, prog.Completed)
	assert.Nil(t, prog.FinishedAt)

	// Passing the test closes the gap and finishes the course
	_, err = GradeAttempt(db, p, student.ID, test.ID, answersFor(questions, 2))
	require.NoError(t, err)

	prog = courseProgress(t, db, student.ID, crs.ID)
	assert.Equal(t, 100.0, prog.PercentCompleted)
	assert.True(t, prog.Completed)
	assert.NotNil(t, prog.FinishedAt)
	assert.EqualValues(t, 1, certificateCount(t, db, student.ID, crs.ID))
}

func TestSimulationCourseWeighting(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "Crane Operation", true, 1)
	test, questions := seedTest(t, db, crs.ID, 1)
	enrollDirect(t, db, student.ID, crs)

	_, err := CompleteModule(db, p, student.ID, modules[0][0].ID, true)
	require.NoError(t, err)
	_, err = GradeAttempt(db, p, student.ID, test.ID, answersFor(questions, 1))
	require.NoError(t, err)

	// Content and test done but the simulation is pending: 50 + 20 = 70
	prog := courseProgress(t, db, student.ID, crs.ID)
	assert.Equal(t, 70.0, prog.PercentCompleted)
	assert.True(t, prog.ContentCompleted)
	assert.False(t, prog.Completed)

	require.NoError(t, MarkSimulationCompleted(db, p, student.ID, crs.ID, true))

	prog = courseProgress(t, db, student.ID, crs.ID)
	assert.Equal(t, 100.0, prog.PercentCompleted)
	assert.True(t, prog.Completed)
	assert.EqualValues(t, 1, certificateCount(t, db, student.ID, crs.ID))
}

func TestUncompletingModuleLowersProgress(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "First Aid", false, 2)
	enrollDirect(t, db, student.ID, crs)

	_, err := CompleteModule(db, p, student.ID, modules[0][0].ID, true)
	require.NoError(t, err)
	_, err = CompleteModule(db, p, student.ID, modules[0][1].ID, true)
	require.NoError(t, err)
	require.Equal(t, 80.0, courseProgress(t, db, student.ID, crs.ID).PercentCompleted)

	_, err = CompleteModule(db, p, student.ID, modules[0][1].ID, false)
	require.NoError(t, err)

	prog := courseProgress(t, db, student.ID, crs.ID)
	assert.Equal(t, 40.0, prog.PercentCompleted)
	assert.False(t, prog.ContentCompleted)
}

func TestContentCompletedRequiresFullMean(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "Large Course", false, 1, 50)
	enrollDirect(t, db, student.ID, crs)

	// First subcourse fully done, second at 49/50: content mean is
	// exactly 99 — in the snap window but not actually complete
	require.NoError(t, db.Create(&courseModels.StudentModule{
		StudentID: student.ID, ModuleID: modules[0][0].ID, Completed: true,
	}).Error)
	for _, m := range modules[1][:49] {
		require.NoError(t, db.Create(&courseModels.StudentModule{
			StudentID: student.ID, ModuleID: m.ID, Completed: true,
		}).Error)
	}
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := RecalcSubcourse(tx, p, student.ID, modules[0][0].SubcourseID); err != nil {
			return err
		}
		return RecalcSubcourse(tx, p, student.ID, modules[1][0].SubcourseID)
	}))

	prog := courseProgress(t, db, student.ID, crs.ID)
	assert.Equal(t, 79.2, prog.PercentCompleted)
	assert.False(t, prog.ContentCompleted)
	assert.False(t, prog.Completed)

	// Finishing the last module makes the content flag flip
	_, err := CompleteModule(db, p, student.ID, modules[1][49].ID, true)
	require.NoError(t, err)

	prog = courseProgress(t, db, student.ID, crs.ID)
	assert.True(t, prog.ContentCompleted)
}

func TestRecalcCourseWithoutEnrollment(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ada@org.test")
	crs, _ := seedCourse(t, db, "Unenrolled Course", false, 1)

	require.NoError(t, RecalcCourse(db, DefaultPolicy(), student.ID, crs.ID))

	var rows int64
	require.NoError(t, db.Model(&courseModels.StudentCourseProgress{}).
		Where("student_id = ?", student.ID).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestEmptySubcourseCountsAsZero(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	student := seedStudent(t, db, "ada@org.test")
	crs, _ := seedCourse(t, db, "Draft Course", false, 0)
	enrollDirect(t, db, student.ID, crs)

	var sub courseModels.Subcourse
	require.NoError(t, db.Where("course_id = ?", crs.ID).First(&sub).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error { return RecalcSubcourse(tx, p, student.ID, sub.ID) }))

	record := subcourseProgress(t, db, student.ID, sub.ID)
	assert.Equal(t, 0.0, record.PercentCompleted)
	assert.False(t, record.Completed)
}

func TestRecalcSubcourseForStudentsAfterNewModule(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "Evolving Course", false, 1)
	enrollDirect(t, db, student.ID, crs)

	subcourseID := modules[0][0].SubcourseID
	_, err := CompleteModule(db, p, student.ID, modules[0][0].ID, true)
	require.NoError(t, err)
	require.Equal(t, 100.0, subcourseProgress(t, db, student.ID, subcourseID).PercentCompleted)

	// Adding a module changes the denominator for everyone already tracked
	extra := courseModels.Module{SubcourseID: subcourseID, Name: "New Lesson", Link: "https://example.com"}
	require.NoError(t, db.Create(&extra).Error)
	require.NoError(t, RecalcSubcourseForStudents(db, p, subcourseID))

	assert.Equal(t, 50.0, subcourseProgress(t, db, student.ID, subcourseID).PercentCompleted)
}

func TestNormalize(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "exact hundred", in: 100, want: 100},
		{name: "floor snaps up", in: 99.0, want: 100},
		{name: "just above floor", in: 99.37, want: 100},
		{name: "just below floor", in: 98.99, want: 98.99},
		{name: "rounds to two decimals", in: 66.666666, want: 66.67},
		{name: "rounding can reach the floor", in: 98.999, want: 100},
		{name: "zero", in: 0, want: 0},
		{name: "negative clamps to zero", in: -3, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Normalize(tt.in))
		})
	}
}
