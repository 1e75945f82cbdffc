package progress

import (
	"bytes"
	"errors"
	"fmt"
	"lms/config"
	"lms/models"
	courseModels "lms/models/course"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

// IssueStatus classifies the outcome of an issuance call. Non-issuing
// outcomes are ordinary results, not errors: callers report them and move on.
type IssueStatus string

const (
	StatusIssued        IssueStatus = "ISSUED"
	StatusAlreadyIssued IssueStatus = "ALREADY_ISSUED"
	StatusNotCompleted  IssueStatus = "NOT_COMPLETED"
	StatusMissingData   IssueStatus = "MISSING_DATA"
)

// OnCertificateIssued, when set, is invoked after each successful issuance
// with the student's email, full name and the course title. Wired at boot
// to the notification mailer; nil in tests.
var OnCertificateIssued func(studentEmail, studentName, courseTitle string)

type IssueResult struct {
	Status      IssueStatus                `json:"status"`
	Message     string                     `json:"message"`
	Certificate *courseModels.Certificate  `json:"certificate,omitempty"`
}

// IssueCertificate emits the completion certificate for a (student, course)
// pair. This is the only code path that creates Certificate rows.
//
// Idempotent: a second call returns ALREADY_ISSUED and the pair keeps
// exactly one certificate. The unique index on (student_id, course_id) is
// the backstop if two emissions race past the existence check.
func IssueCertificate(db *gorm.DB, studentID, courseID uint) (IssueResult, error) {
	var prog courseModels.StudentCourseProgress
	err := db.Where("student_id = ? AND course_id = ? AND completed = ?", studentID, courseID, true).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return IssueResult{Status: StatusNotCompleted, Message: "The student has not completed the course."}, nil
	}
	if err != nil {
		return IssueResult{}, err
	}

	var existing courseModels.Certificate
	err = db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&existing).Error
	if err == nil {
		return IssueResult{Status: StatusAlreadyIssued, Message: "The certificate has already been issued.", Certificate: &existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return IssueResult{}, err
	}

	var student models.User
	if err := db.Where("id = ? AND is_deleted = ?", studentID, false).First(&student).Error; err != nil {
		return IssueResult{}, err
	}
	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return IssueResult{}, err
	}

	if strings.TrimSpace(student.FirstName) == "" || strings.TrimSpace(student.LastName) == "" {
		return IssueResult{Status: StatusMissingData, Message: "The student's name is incomplete."}, nil
	}
	if strings.TrimSpace(crs.Title) == "" {
		return IssueResult{Status: StatusMissingData, Message: "The course title is not available."}, nil
	}

	issuedAt := time.Now()
	pdfBytes, err := renderCertificatePDF(student.FullName(), crs.Title, issuedAt)
	if err != nil {
		return IssueResult{}, fmt.Errorf("rendering certificate: %w", err)
	}

	dir := filepath.Join(mediaDir(), "certificates")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return IssueResult{}, err
	}
	pdfPath := filepath.Join(dir, fmt.Sprintf("certificate_%d_%d.pdf", courseID, studentID))

	cert := courseModels.Certificate{
		StudentID:         studentID,
		CourseID:          courseID,
		CertificateNumber: uuid.NewString(),
		IssuedAt:          issuedAt,
		PdfPath:           pdfPath,
	}
	if err := db.Create(&cert).Error; err != nil {
		// Lost the race on the unique index: someone issued it first
		var winner courseModels.Certificate
		if lookupErr := db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&winner).Error; lookupErr == nil {
			return IssueResult{Status: StatusAlreadyIssued, Message: "The certificate has already been issued.", Certificate: &winner}, nil
		}
		return IssueResult{}, err
	}

	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		return IssueResult{}, err
	}

	if OnCertificateIssued != nil {
		OnCertificateIssued(student.Email, student.FullName(), crs.Title)
	}

	return IssueResult{Status: StatusIssued, Message: "Certificate issued successfully.", Certificate: &cert}, nil
}

func mediaDir() string {
	if config.AppConfig != nil && config.AppConfig.MediaDir != "" {
		return config.AppConfig.MediaDir
	}
	return "./media"
}

// renderCertificatePDF draws the landscape certificate: layered wave shapes
// top and bottom, gold headline, student name and course title centered.
func renderCertificatePDF(studentName, courseTitle string, issuedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	w, h := pdf.GetPageSize()

	// White background
	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(0, 0, w, h, "F")

	// Top wave, light layer
	pdf.SetFillColor(47, 71, 152)
	pdf.MoveTo(0, 0)
	pdf.CurveBezierCubicTo(w*0.3, 100, w*0.7, 50, w, 80)
	pdf.LineTo(w, 0)
	pdf.LineTo(0, 0)
	pdf.ClosePath()
	pdf.DrawPath("F")

	// Top wave, dark layer
	pdf.SetFillColor(26, 46, 111)
	pdf.MoveTo(0, 0)
	pdf.CurveBezierCubicTo(w*0.3, 50, w*0.7, 80, w, 60)
	pdf.LineTo(w, 0)
	pdf.LineTo(0, 0)
	pdf.ClosePath()
	pdf.DrawPath("F")

	// Bottom wave, light layer
	pdf.SetFillColor(47, 71, 152)
	pdf.MoveTo(0, h)
	pdf.CurveBezierCubicTo(w*0.3, h-100, w*0.7, h-50, w, h-80)
	pdf.LineTo(w, h)
	pdf.LineTo(0, h)
	pdf.ClosePath()
	pdf.DrawPath("F")

	// Bottom wave, dark layer
	pdf.SetFillColor(26, 46, 111)
	pdf.MoveTo(0, h)
	pdf.CurveBezierCubicTo(w*0.3, h-50, w*0.7, h-80, w, h-60)
	pdf.LineTo(w, h)
	pdf.LineTo(0, h)
	pdf.ClosePath()
	pdf.DrawPath("F")

	centered := func(y float64, text string, style string, size float64, r, g, b int) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(r, g, b)
		pdf.SetXY(0, y)
		pdf.CellFormat(w, size+4, text, "", 0, "C", false, 0, "")
	}

	centered(150, "CERTIFICATE OF ACHIEVEMENT", "B", 36, 201, 166, 107)
	centered(240, "Awarded to", "", 16, 51, 51, 51)
	centered(280, studentName, "B", 28, 68, 68, 170)
	centered(335, "for the successful completion of the course:", "", 16, 51, 51, 51)
	centered(385, courseTitle, "B", 20, 201, 166, 107)
	centered(435, "Issued on "+issuedAt.Format("January 2, 2006"), "", 14, 102, 102, 102)
	centered(500, "Authorized Signature - Global QHSE", "B", 14, 51, 51, 51)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
