package course

import "gorm.io/gorm"

// Course is the top-level learning unit. It owns subcourses, at most one
// test, and optionally requires an external simulation to be completed.
type Course struct {
	gorm.Model
	Title         string `json:"title"`
	Description   string `json:"description" gorm:"type:text"`
	ImageURL      string `json:"image_url"`
	HasSimulation bool   `json:"has_simulation" gorm:"default:false"`
	IsDeleted     bool   `gorm:"default:false"`
}
