package progress

import (
	"os"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// completeCourse drives a one-module course to 100% through the cascade
func completeCourse(t *testing.T, db *gorm.DB, studentID uint, crs courseModels.Course, modules [][]courseModels.Module) {
	t.Helper()
	_, err := CompleteModule(db, DefaultPolicy(), studentID, modules[0][0].ID, true)
	require.NoError(t, err)
}

func TestCertificateIssuedOnCompletion(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "Forklift Operation", false, 1)
	test, questions := seedTest(t, db, crs.ID, 1)
	enrollDirect(t, db, student.ID, crs)

	completeCourse(t, db, student.ID, crs, modules)
	_, err := GradeAttempt(db, DefaultPolicy(), student.ID, test.ID, answersFor(questions, 1))
	require.NoError(t, err)

	var cert courseModels.Certificate
	require.NoError(t, db.Where("student_id = ? AND course_id = ?", student.ID, crs.ID).First(&cert).Error)
	assert.NotEmpty(t, cert.CertificateNumber)
	assert.False(t, cert.IssuedAt.IsZero())

	// The PDF lands on disk next to the record
	data, err := os.ReadFile(cert.PdfPath)
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF")
}

func TestCertificateIssuanceIdempotent(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "Forklift Operation", false, 1)
	enrollDirect(t, db, student.ID, crs)

	// No test on the course: content alone completes it
	completeCourse(t, db, student.ID, crs, modules)
	require.EqualValues(t, 1, certificateCount(t, db, student.ID, crs.ID))

	result, err := IssueCertificate(db, student.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyIssued, result.Status)
	require.NotNil(t, result.Certificate)

	assert.EqualValues(t, 1, certificateCount(t, db, student.ID, crs.ID))
}

func TestCertificateRequiresCompletion(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ada@org.test")
	crs, _ := seedCourse(t, db, "Forklift Operation", false, 2)
	enrollDirect(t, db, student.ID, crs)

	result, err := IssueCertificate(db, student.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNotCompleted, result.Status)
	assert.Nil(t, result.Certificate)
	assert.EqualValues(t, 0, certificateCount(t, db, student.ID, crs.ID))
}

func TestCertificateRequiresStudentName(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "anon@org.test")
	require.NoError(t, db.Model(&student).Updates(map[string]interface{}{"first_name": "", "last_name": ""}).Error)

	crs, modules := seedCourse(t, db, "Forklift Operation", false, 1)
	enrollDirect(t, db, student.ID, crs)
	completeCourse(t, db, student.ID, crs, modules)

	// The cascade tried and declined; a direct call reports why
	assert.EqualValues(t, 0, certificateCount(t, db, student.ID, crs.ID))

	result, err := IssueCertificate(db, student.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMissingData, result.Status)
}

func TestCertificateRequiresCourseTitle(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "", false, 1)
	enrollDirect(t, db, student.ID, crs)
	completeCourse(t, db, student.ID, crs, modules)

	result, err := IssueCertificate(db, student.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMissingData, result.Status)
	assert.EqualValues(t, 0, certificateCount(t, db, student.ID, crs.ID))
}

func TestCertificateSurvivesProgressRegression(t *testing.T) {
	db := newTestDB(t)
	p := DefaultPolicy()
	student := seedStudent(t, db, "ada@org.test")
	crs, modules := seedCourse(t, db, "Forklift Operation", false, 1)
	enrollDirect(t, db, student.ID, crs)

	completeCourse(t, db, student.ID, crs, modules)
	require.EqualValues(t, 1, certificateCount(t, db, student.ID, crs.ID))

	// Undoing the module drops the percentage but never revokes the paper
	_, err := CompleteModule(db, p, student.ID, modules[0][0].ID, false)
	require.NoError(t, err)

	prog := courseProgress(t, db, student.ID, crs.ID)
	assert.False(t, prog.Completed)
	assert.EqualValues(t, 1, certificateCount(t, db, student.ID, crs.ID))
}

func TestCertificateLateIssuanceAfterNameFix(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "anon@org.test")
	require.NoError(t, db.Model(&student).Updates(map[string]interface{}{"first_name": "", "last_name": ""}).Error)

	crs, modules := seedCourse(t, db, "Forklift Operation", false, 1)
	enrollDirect(t, db, student.ID, crs)
	completeCourse(t, db, student.ID, crs, modules)
	require.EqualValues(t, 0, certificateCount(t, db, student.ID, crs.ID))

	require.NoError(t, db.Model(&student).Updates(map[string]interface{}{"first_name": "Ada", "last_name": "Mensah"}).Error)

	result, err := IssueCertificate(db, student.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusIssued, result.Status)
	require.NotNil(t, result.Certificate)
	assert.EqualValues(t, 1, certificateCount(t, db, student.ID, crs.ID))
}
