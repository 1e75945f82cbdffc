package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Test is the optional exam of a course (one per course at most)
type Test struct {
	gorm.Model
	CourseID  uint `json:"course_id" gorm:"uniqueIndex;not null"`
	Duration  int  `json:"duration"` // minutes
	IsDeleted bool `gorm:"default:false"`
}

// Question belongs to a test. Options are stored as a JSON array of strings;
// the correct answer is matched case-insensitively against submissions.
type Question struct {
	gorm.Model
	TestID        uint           `json:"test_id" gorm:"index;not null"`
	Prompt        string         `json:"prompt" gorm:"type:text"`
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer string         `json:"correct_answer"`
	Points        int            `json:"points" gorm:"default:1"`
	IsDeleted     bool           `gorm:"default:false"`
}
