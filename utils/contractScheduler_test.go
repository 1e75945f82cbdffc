package utils

import (
	"fmt"
	"testing"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSchedulerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)

	// The expiry job reads the global connection
	previous := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = previous })

	return db
}

func TestDeactivateExpiredContracts(t *testing.T) {
	db := newSchedulerTestDB(t)

	instructor := models.User{FirstName: "Kofi", LastName: "Asante", Email: "kofi@org.test", Password: "hashed", Role: models.RoleInstructor}
	require.NoError(t, db.Create(&instructor).Error)

	crs := courseModels.Course{Title: "Working at Height"}
	require.NoError(t, db.Create(&crs).Error)

	expired := models.Contract{
		InstructorID:     instructor.ID,
		CourseID:         crs.ID,
		OrganizationCode: "ACM-EXPRD",
		StartDate:        time.Now().AddDate(0, -6, 0),
		EndDate:          time.Now().AddDate(0, 0, -1),
		Active:           true,
	}
	require.NoError(t, db.Create(&expired).Error)

	student := models.User{
		FirstName: "Ada", LastName: "Mensah",
		Email: "ada@org.test", Password: "hashed",
		Role: models.RoleStudent, OrganizationCode: "ACM-EXPRD",
	}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&courseModels.StudentCourseProgress{StudentID: student.ID, CourseID: crs.ID}).Error)

	DeactivateExpiredContracts()

	var contract models.Contract
	require.NoError(t, db.First(&contract, expired.ID).Error)
	assert.False(t, contract.Active)

	// The covered students' progress rows go with the contract
	var progressRows int64
	db.Unscoped().Model(&courseModels.StudentCourseProgress{}).
		Where("student_id = ? AND course_id = ?", student.ID, crs.ID).Count(&progressRows)
	assert.EqualValues(t, 0, progressRows)
}

func TestDeactivateExpiredContractsRollsBackOnTeardownFailure(t *testing.T) {
	db := newSchedulerTestDB(t)

	instructor := models.User{FirstName: "Kofi", LastName: "Asante", Email: "kofi@org.test", Password: "hashed", Role: models.RoleInstructor}
	require.NoError(t, db.Create(&instructor).Error)

	crs := courseModels.Course{Title: "Working at Height"}
	require.NoError(t, db.Create(&crs).Error)

	expired := models.Contract{
		InstructorID:     instructor.ID,
		CourseID:         crs.ID,
		OrganizationCode: "ACM-BROKE",
		StartDate:        time.Now().AddDate(0, -6, 0),
		EndDate:          time.Now().AddDate(0, 0, -1),
		Active:           true,
	}
	require.NoError(t, db.Create(&expired).Error)

	student := models.User{
		FirstName: "Ada", LastName: "Mensah",
		Email: "ada@org.test", Password: "hashed",
		Role: models.RoleStudent, OrganizationCode: "ACM-BROKE",
	}
	require.NoError(t, db.Create(&student).Error)

	// Sabotage the teardown target so the delete fails mid-transaction
	require.NoError(t, db.Migrator().DropTable(&courseModels.StudentCourseProgress{}))

	DeactivateExpiredContracts()

	// The failed pass must not strand a half-deactivated contract
	var contract models.Contract
	require.NoError(t, db.First(&contract, expired.ID).Error)
	assert.True(t, contract.Active)
}

func TestDeactivateExpiredContractsLeavesRunningOnes(t *testing.T) {
	db := newSchedulerTestDB(t)

	instructor := models.User{FirstName: "Kofi", LastName: "Asante", Email: "kofi@org.test", Password: "hashed", Role: models.RoleInstructor}
	require.NoError(t, db.Create(&instructor).Error)

	crs := courseModels.Course{Title: "Fire Safety"}
	require.NoError(t, db.Create(&crs).Error)

	running := models.Contract{
		InstructorID:     instructor.ID,
		CourseID:         crs.ID,
		OrganizationCode: "ACM-ALIVE",
		StartDate:        time.Now().AddDate(0, -1, 0),
		EndDate:          time.Now().AddDate(0, 1, 0),
		Active:           true,
	}
	require.NoError(t, db.Create(&running).Error)

	DeactivateExpiredContracts()

	var contract models.Contract
	require.NoError(t, db.First(&contract, running.ID).Error)
	assert.True(t, contract.Active)
}
