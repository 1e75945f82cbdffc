package course

import "gorm.io/gorm"

// Module is a leaf content unit: a link, an uploaded file, or both
type Module struct {
	gorm.Model
	SubcourseID uint   `json:"subcourse_id" gorm:"index;not null"`
	Name        string `json:"name"`
	Link        string `json:"link"`
	FileURL     string `json:"file_url"`
	IsDeleted   bool   `gorm:"default:false"`
}
