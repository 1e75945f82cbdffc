package adminController

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	adminValidator "lms/validators/admin"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// CreateCompany registers a client organization
func CreateCompany(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCompany").(*adminValidator.CreateCompanyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("name = ? OR email = ?", reqData.Name, reqData.Email).First(&models.Company{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A company with that name or email already exists!", nil)
	}

	company := models.Company{
		Name:          reqData.Name,
		Area:          reqData.Area,
		Address:       reqData.Address,
		Phone:         reqData.Phone,
		Email:         reqData.Email,
		EmployeeCount: reqData.EmployeeCount,
	}

	if err := db.Create(&company).Error; err != nil {
		log.Printf("Error creating company: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create company!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Company created successfully.", company)
}

// ListCompanies returns all companies with their instructor counts
func ListCompanies(c *fiber.Ctx) error {
	db := database.Database.Db

	var companies []models.Company
	if err := db.Where("is_deleted = ?", false).Order("name asc").Find(&companies).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch companies!", nil)
	}

	type CompanyWithCount struct {
		models.Company
		InstructorCount int64 `json:"instructor_count"`
	}

	result := make([]CompanyWithCount, len(companies))
	for i, company := range companies {
		var count int64
		db.Model(&models.User{}).Where("company_id = ? AND role = ? AND is_deleted = ?", company.ID, models.RoleInstructor, false).Count(&count)
		result[i] = CompanyWithCount{Company: company, InstructorCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Companies fetched successfully.", result)
}

// CreateInstructor creates an instructor account with a temporary password
// and emails the credentials. The instructor must change the password on
// first login.
func CreateInstructor(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedInstructor").(*adminValidator.CreateInstructorRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var company models.Company
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CompanyID, false).First(&company).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Company not found!", nil)
	}

	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	tempPassword := utils.GenerateTempPassword()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	companyID := company.ID
	instructor := models.User{
		FirstName:          reqData.FirstName,
		LastName:           reqData.LastName,
		Email:              reqData.Email,
		Password:           string(hashedPassword),
		Role:               models.RoleInstructor,
		CompanyID:          &companyID,
		MustChangePassword: true,
	}

	if err := db.Create(&instructor).Error; err != nil {
		log.Printf("Error creating instructor: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create instructor!", nil)
	}

	utils.SendInstructorCredentialsEmail(instructor.Email, instructor.FullName(), tempPassword)

	instructor.Password = ""
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Instructor created successfully.", fiber.Map{
		"instructor":    instructor,
		"temp_password": tempPassword,
	})
}

// GetDashboard returns headline counts for the admin landing page
func GetDashboard(c *fiber.Ctx) error {
	db := database.Database.Db

	var companies, instructors, students, courses, contracts, certificates int64
	db.Model(&models.Company{}).Where("is_deleted = ?", false).Count(&companies)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", models.RoleInstructor, false).Count(&instructors)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", models.RoleStudent, false).Count(&students)
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&courses)
	db.Model(&models.Contract{}).Where("active = ? AND is_deleted = ?", true, false).Count(&contracts)
	db.Model(&courseModels.Certificate{}).Count(&certificates)

	var completions int64
	db.Model(&courseModels.StudentCourseProgress{}).Where("completed = ?", true).Count(&completions)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully.", fiber.Map{
		"companies":          companies,
		"instructors":        instructors,
		"students":           students,
		"courses":            courses,
		"active_contracts":   contracts,
		"certificates":       certificates,
		"course_completions": completions,
	})
}
