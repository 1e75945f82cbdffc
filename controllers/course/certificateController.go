package courseController

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/progress"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetMyCertificates lists the signed-in student's certificates
func GetMyCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var certificates []courseModels.Certificate
	if err := db.Where("student_id = ?", userID).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseTitle string `json:"course_title"`
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{Certificate: cert, CourseTitle: course.Title}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully.", result)
}

// RequestCertificate lets a student ask for their certificate explicitly.
// Normally the cascade issues it the moment the course completes; this
// endpoint covers records that completed before a certificate feature
// existed, and is harmless to retry thanks to issuer idempotence.
func RequestCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	result, err := progress.IssueCertificate(db, userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue the certificate!", nil)
	}

	switch result.Status {
	case progress.StatusIssued:
		return middleware.JsonResponse(c, fiber.StatusCreated, true, result.Message, result.Certificate)
	case progress.StatusAlreadyIssued:
		return middleware.JsonResponse(c, fiber.StatusOK, true, result.Message, result.Certificate)
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, result.Message, nil)
	}
}

// DownloadCertificate streams the student's own certificate PDF
func DownloadCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var cert courseModels.Certificate
	if err := db.Where("student_id = ? AND course_id = ?", userID, courseID).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	return c.Download(cert.PdfPath, "certificate.pdf")
}

// DeleteCertificate removes a certificate (admin only). Issuance stays
// append-only for students; this is the administrative escape hatch for
// certificates emitted in error.
func DeleteCertificate(c *fiber.Ctx) error {
	certID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || certID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate ID in the URL!", nil)
	}

	db := database.Database.Db

	var cert courseModels.Certificate
	if err := db.Where("id = ?", certID).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if err := db.Unscoped().Delete(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete the certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate deleted successfully.", nil)
}
