package models

import "gorm.io/gorm"

// Company represents a client organization whose instructors run trainings
type Company struct {
	gorm.Model
	Name          string `json:"name" gorm:"unique;not null"`
	Area          string `json:"area"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email" gorm:"unique"`
	EmployeeCount int    `json:"employee_count" gorm:"default:0"`
	IsDeleted     bool   `gorm:"default:false"`
}
