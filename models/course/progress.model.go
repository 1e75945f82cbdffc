package course

import (
	"time"

	"gorm.io/gorm"
)

// StudentModule records whether a student finished one module.
// Unique per (student, module) pair.
type StudentModule struct {
	gorm.Model
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_student_module"`
	ModuleID  uint `json:"module_id" gorm:"not null;uniqueIndex:idx_student_module"`
	Completed bool `json:"completed" gorm:"default:false"`
}

// StudentSubcourse is the derived subcourse-level completion percentage.
// Never edited directly; the cascade recomputes it from module completions.
type StudentSubcourse struct {
	gorm.Model
	StudentID        uint    `json:"student_id" gorm:"not null;uniqueIndex:idx_student_subcourse"`
	SubcourseID      uint    `json:"subcourse_id" gorm:"not null;uniqueIndex:idx_student_subcourse"`
	PercentCompleted float64 `json:"percent_completed" gorm:"default:0"`
	Completed        bool    `json:"completed" gorm:"default:false"`
}

// StudentTest holds the latest graded attempt for a student on a course test
type StudentTest struct {
	gorm.Model
	StudentID    uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_student_test"`
	TestID       uint       `json:"test_id" gorm:"not null;uniqueIndex:idx_student_test"`
	Score        float64    `json:"score" gorm:"default:0"`
	Passed       bool       `json:"passed" gorm:"default:false"`
	AttemptCount int        `json:"attempt_count" gorm:"default:0"`
	AttemptDate  *time.Time `json:"attempt_date"`
}

// StudentCourseProgress is the authoritative enrollment record: the
// course-level aggregate the certificate decision is made from.
// SimulationCompleted stays nil for courses without a simulation.
type StudentCourseProgress struct {
	gorm.Model
	StudentID           uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_student_course"`
	CourseID            uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_student_course"`
	PercentCompleted    float64    `json:"percent_completed" gorm:"default:0"`
	Completed           bool       `json:"completed" gorm:"default:false"`
	ContentCompleted    bool       `json:"content_completed" gorm:"default:false"`
	SimulationCompleted *bool      `json:"simulation_completed"`
	StartedAt           time.Time  `json:"started_at" gorm:"autoCreateTime"`
	FinishedAt          *time.Time `json:"finished_at"`
}
