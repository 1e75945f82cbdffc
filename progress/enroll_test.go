package progress

import (
	"testing"
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedContract(t *testing.T, db *gorm.DB, courseID uint, code string) models.Contract {
	t.Helper()

	instructor := models.User{
		FirstName: "Kofi", LastName: "Asante",
		Email:    code + "-instructor@org.test",
		Password: "hashed",
		Role:     models.RoleInstructor,
	}
	require.NoError(t, db.Create(&instructor).Error)

	contract := models.Contract{
		InstructorID:     instructor.ID,
		CourseID:         courseID,
		OrganizationCode: code,
		StartDate:        time.Now().AddDate(0, -1, 0),
		EndDate:          time.Now().AddDate(0, 1, 0),
		Active:           true,
	}
	require.NoError(t, db.Create(&contract).Error)
	return contract
}

func TestEnrollStudentCreatesTrackingRows(t *testing.T) {
	db := newTestDB(t)
	crs, _ := seedCourse(t, db, "Confined Spaces", true, 2, 3)
	seedTest(t, db, crs.ID, 1, 1)
	seedContract(t, db, crs.ID, "ACM-AAAAA")

	student := seedStudent(t, db, "ada@org.test")
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return EnrollStudent(tx, student.ID, "ACM-AAAAA")
	}))

	prog := courseProgress(t, db, student.ID, crs.ID)
	assert.Equal(t, 0.0, prog.PercentCompleted)
	require.NotNil(t, prog.SimulationCompleted)
	assert.False(t, *prog.SimulationCompleted)

	var subcourses, modules, tests int64
	db.Model(&courseModels.StudentSubcourse{}).Where("student_id = ?", student.ID).Count(&subcourses)
	db.Model(&courseModels.StudentModule{}).Where("student_id = ?", student.ID).Count(&modules)
	db.Model(&courseModels.StudentTest{}).Where("student_id = ?", student.ID).Count(&tests)
	assert.EqualValues(t, 2, subcourses)
	assert.EqualValues(t, 5, modules)
	assert.EqualValues(t, 1, tests)
}

func TestEnrollStudentNoSimulationLeavesFieldNull(t *testing.T) {
	db := newTestDB(t)
	crs, _ := seedCourse(t, db, "Manual Handling", false, 1)
	seedContract(t, db, crs.ID, "ACM-BBBBB")

	student := seedStudent(t, db, "ada@org.test")
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return EnrollStudent(tx, student.ID, "ACM-BBBBB")
	}))

	prog := courseProgress(t, db, student.ID, crs.ID)
	assert.Nil(t, prog.SimulationCompleted)
}

func TestEnrollStudentInvalidCode(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ada@org.test")

	err := db.Transaction(func(tx *gorm.DB) error {
		return EnrollStudent(tx, student.ID, "NOPE-00000")
	})
	assert.ErrorIs(t, err, ErrInvalidOrganizationCode)
}

func TestEnrollStudentInactiveContract(t *testing.T) {
	db := newTestDB(t)
	crs, _ := seedCourse(t, db, "Manual Handling", false, 1)
	contract := seedContract(t, db, crs.ID, "ACM-CCCCC")
	require.NoError(t, db.Model(&contract).Update("active", false).Error)

	student := seedStudent(t, db, "ada@org.test")
	err := db.Transaction(func(tx *gorm.DB) error {
		return EnrollStudent(tx, student.ID, "ACM-CCCCC")
	})
	assert.ErrorIs(t, err, ErrInvalidOrganizationCode)
}

func TestEnrollStudentIdempotent(t *testing.T) {
	db := newTestDB(t)
	crs, _ := seedCourse(t, db, "Manual Handling", false, 2)
	seedContract(t, db, crs.ID, "ACM-DDDDD")
	student := seedStudent(t, db, "ada@org.test")

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return EnrollStudent(tx, student.ID, "ACM-DDDDD")
		}))
	}

	var progressRows, moduleRows int64
	db.Model(&courseModels.StudentCourseProgress{}).Where("student_id = ?", student.ID).Count(&progressRows)
	db.Model(&courseModels.StudentModule{}).Where("student_id = ?", student.ID).Count(&moduleRows)
	assert.EqualValues(t, 1, progressRows)
	assert.EqualValues(t, 2, moduleRows)
}

func TestEnrollmentSurvivesPartialProgressReEnroll(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	crs, modules := seedCourse(t, db, "Manual Handling", false, 2)
	seedContract(t, db, crs.ID, "ACM-EEEEE")
	student := seedStudent(t, db, "ada@org.test")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return EnrollStudent(tx, student.ID, "ACM-EEEEE")
	}))
	_, err := CompleteModule(db, p, student.ID, modules[0][0].ID, true)
	require.NoError(t, err)

	// Re-running enrollment must not reset completed work
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return EnrollStudent(tx, student.ID, "ACM-EEEEE")
	}))

	var record courseModels.StudentModule
	require.NoError(t, db.Where("student_id = ? AND module_id = ?", student.ID, modules[0][0].ID).First(&record).Error)
	assert.True(t, record.Completed)
}

func TestTeardownContractRemovesProgressKeepsCertificates(t *testing.T) {
	db := newTestDB(t)
	crs, modules := seedCourse(t, db, "Manual Handling", false, 1)
	contract := seedContract(t, db, crs.ID, "ACM-FFFFF")

	student := seedStudent(t, db, "ada@org.test")
	require.NoError(t, db.Model(&student).Update("organization_code", "ACM-FFFFF").Error)
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return EnrollStudent(tx, student.ID, "ACM-FFFFF")
	}))

	// Finish the course so a certificate exists before teardown
	_, err := CompleteModule(db, DefaultPolicy(), student.ID, modules[0][0].ID, true)
	require.NoError(t, err)
	require.EqualValues(t, 1, certificateCount(t, db, student.ID, crs.ID))

	require.NoError(t, TeardownContract(db, contract))

	var progressRows int64
	db.Unscoped().Model(&courseModels.StudentCourseProgress{}).
		Where("student_id = ? AND course_id = ?", student.ID, crs.ID).Count(&progressRows)
	assert.EqualValues(t, 0, progressRows)
	assert.EqualValues(t, 1, certificateCount(t, db, student.ID, crs.ID))
}
