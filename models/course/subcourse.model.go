package course

import "gorm.io/gorm"

// Subcourse groups the modules of one course. Module counts are derived by
// counting rows, never stored.
type Subcourse struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	Name      string `json:"name"`
	IsDeleted bool   `gorm:"default:false"`
}
