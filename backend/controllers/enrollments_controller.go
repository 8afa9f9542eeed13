package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trainhub/backend/config"
	"trainhub/backend/middleware"
	"trainhub/backend/models"
	"trainhub/backend/utils"
	"trainhub/backend/validators"
)

type EnrollmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEnrollmentsController(db *gorm.DB, cfg *config.Config) *EnrollmentsController {
	return &EnrollmentsController{DB: db, Cfg: cfg}
}

// AssignEnrollment enrolls a user into a program. Enrollment is
// admin-driven, learners cannot self-enroll.
func (ec *EnrollmentsController) AssignEnrollment(c *fiber.Ctx) error {
	var input validators.EnrollmentRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var user models.User
	if err := ec.DB.First(&user, input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var program models.Program
	if err := ec.DB.First(&program, input.ProgramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Program not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var existing models.Enrollment
	err := ec.DB.Where("user_id = ? AND program_id = ?", input.UserID, input.ProgramID).
		First(&existing).Error
	if err == nil {
		return utils.Conflict(c, "User is already enrolled in this program")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment := models.Enrollment{
		UserID:     input.UserID,
		ProgramID:  input.ProgramID,
		Status:     models.EnrollmentActive,
		EnrolledAt: time.Now(),
	}
	if err := ec.DB.Create(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not create enrollment")
	}

	return utils.Created(c, enrollment)
}

// ListProgramEnrollments lists every enrollment in a program.
func (ec *EnrollmentsController) ListProgramEnrollments(c *fiber.Ctx) error {
	programID := c.Params("id")

	var enrollments []models.Enrollment
	if err := ec.DB.Where("program_id = ?", programID).
		Order("enrolled_at ASC").Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, enrollments)
}

// ListMyEnrollments returns the caller's enrollments with program titles.
func (ec *EnrollmentsController) ListMyEnrollments(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var enrollments []models.Enrollment
	if err := ec.DB.Where("user_id = ?", user.ID).
		Order("enrolled_at DESC").Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	rows := make([]fiber.Map, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var program models.Program
		if err := ec.DB.First(&program, enrollment.ProgramID).Error; err != nil {
			continue
		}
		rows = append(rows, fiber.Map{
			"id":            enrollment.ID,
			"program_id":    enrollment.ProgramID,
			"program_title": program.Title,
			"status":        enrollment.Status,
			"enrolled_at":   enrollment.EnrolledAt,
			"completed_at":  enrollment.CompletedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, rows)
}
