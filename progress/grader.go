package progress

import (
	"errors"
	courseModels "lms/models/course"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// GradingError signals an attempt that cannot be scored (e.g. a test with
// no questions). Distinct from storage errors so handlers can answer 4xx.
type GradingError struct {
	Reason string
}

func (e *GradingError) Error() string {
	return e.Reason
}

// GradeAttempt scores a student's answers against the test's answer key,
// persists the attempt and recomputes the course aggregate in one
// transaction.
//
// Answers map question IDs (decimal strings, as they arrive in JSON) to the
// submitted answer. Scoring is point-weighted: earned points over total
// points, scaled to 100. Comparison is trimmed and case-insensitive.
func GradeAttempt(db *gorm.DB, p Policy, studentID, testID uint, answers map[string]string) (*courseModels.StudentTest, error) {
	var test courseModels.Test
	if err := db.Where("id = ? AND is_deleted = ?", testID, false).First(&test).Error; err != nil {
		return nil, err
	}

	var questions []courseModels.Question
	if err := db.Where("test_id = ? AND is_deleted = ?", testID, false).Find(&questions).Error; err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, &GradingError{Reason: "test has no questions"}
	}

	totalPoints := 0
	earnedPoints := 0
	correctCount := 0
	for _, q := range questions {
		totalPoints += q.Points
		submitted := answers[strconv.FormatUint(uint64(q.ID), 10)]
		if strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(q.CorrectAnswer)) {
			earnedPoints += q.Points
			correctCount++
		}
	}

	// Tests whose questions carry no point values fall back to an
	// equal-weight score.
	var score float64
	if totalPoints > 0 {
		score = float64(earnedPoints) / float64(totalPoints) * 100
	} else {
		score = float64(correctCount) / float64(len(questions)) * 100
	}
	score = round2(score)

	var attempt courseModels.StudentTest
	err := db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).Where("student_id = ? AND test_id = ?", studentID, testID).First(&attempt).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			attempt = courseModels.StudentTest{StudentID: studentID, TestID: testID}
		}

		now := time.Now()
		attempt.Score = score
		attempt.Passed = score >= p.PassThreshold
		attempt.AttemptCount++
		attempt.AttemptDate = &now

		if err := tx.Save(&attempt).Error; err != nil {
			return err
		}

		// Tests hang off the course directly, not off a subcourse
		return RecalcCourse(tx, p, studentID, test.CourseID)
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
