package models

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Contract links an instructor to a course for a training window. Students
// join the courses a contract covers through its organization code.
type Contract struct {
	gorm.Model
	InstructorID     uint      `json:"instructor_id" gorm:"index;not null;uniqueIndex:idx_instructor_course_active,where:active"`
	CourseID         uint      `json:"course_id" gorm:"index;not null;uniqueIndex:idx_instructor_course_active,where:active"`
	OrganizationCode string    `json:"organization_code" gorm:"index;not null"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Active           bool      `json:"active" gorm:"default:true;uniqueIndex:idx_instructor_course_active,where:active"`
	IsDeleted        bool      `gorm:"default:false"`
}

const orgCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrganizationCode builds a code like "ACM-X7K2P" from the company name
func GenerateOrganizationCode(companyName string) string {
	prefix := strings.ToUpper(companyName)
	prefix = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, prefix)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if prefix == "" {
		prefix = "ORG"
	}

	suffix := make([]byte, 5)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(orgCodeCharset))))
		suffix[i] = orgCodeCharset[n.Int64()]
	}
	return prefix + "-" + string(suffix)
}

// BeforeCreate fills in the organization code unless one was forced by the caller
func (ct *Contract) BeforeCreate(tx *gorm.DB) error {
	if ct.OrganizationCode == "" {
		var company Company
		var instructor User
		if err := tx.First(&instructor, ct.InstructorID).Error; err != nil {
			return err
		}
		name := "ORG"
		if instructor.CompanyID != nil {
			if err := tx.First(&company, *instructor.CompanyID).Error; err == nil {
				name = company.Name
			}
		}
		ct.OrganizationCode = GenerateOrganizationCode(name)
	}
	return nil
}
