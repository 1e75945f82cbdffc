package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. A single user table with a role tag replaces per-role tables;
// role-specific columns stay nullable and only apply to the matching role.
const (
	RoleAdmin      = "ADMIN"
	RoleInstructor = "INSTRUCTOR"
	RoleStudent    = "STUDENT"
)

type User struct {
	gorm.Model
	FirstName string `json:"first_name" gorm:"default:''"`
	LastName  string `json:"last_name" gorm:"default:''"`
	Email     string `json:"email" gorm:"unique;not null"`
	Password  string `json:"-" gorm:"not null"`
	Role      string `json:"role" gorm:"default:'STUDENT'"` // ADMIN, INSTRUCTOR, STUDENT

	// Instructor fields
	CompanyID          *uint `json:"company_id" gorm:"index"`
	MustChangePassword bool  `json:"must_change_password" gorm:"default:false"`

	// Student fields
	OrganizationCode string `json:"organization_code" gorm:"index;default:''"`

	LastLogin time.Time `json:"last_login" gorm:"default:NULL"`
	IsDeleted bool      `gorm:"default:false"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
