package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is the issued completion artifact. The (student, course)
// unique index is the storage-level backstop against double issuance.
type Certificate struct {
	gorm.Model
	StudentID         uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_student_course_cert"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_student_course_cert"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	IssuedAt          time.Time `json:"issued_at"`
	PdfPath           string    `json:"pdf_path"`
}
