package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trainhub/backend/config"
	"trainhub/backend/middleware"
	"trainhub/backend/models"
	"trainhub/backend/services"
	"trainhub/backend/utils"
	"trainhub/backend/validators"
)

type CertificatesController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Issuer *services.CertificateIssuer
	Mailer *utils.Mailer
}

func NewCertificatesController(db *gorm.DB, cfg *config.Config, issuer *services.CertificateIssuer, mailer *utils.Mailer) *CertificatesController {
	return &CertificatesController{DB: db, Cfg: cfg, Issuer: issuer, Mailer: mailer}
}

// VerifyCertificate is the public verification endpoint. It never requires
// authentication so third parties can check a certificate by its code.
func (cc *CertificatesController) VerifyCertificate(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return utils.BadRequest(c, "Verification code is required")
	}

	result, err := services.VerifyCertificate(cc.DB, code)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	response := fiber.Map{
		"valid":   result.Valid,
		"message": result.Message,
	}
	if result.Certificate != nil {
		response["certificate"] = fiber.Map{
			"certificate_number": result.Certificate.CertificateNumber,
			"user_name":          result.Certificate.UserName,
			"program_title":      result.Certificate.ProgramTitle,
			"issued_at":          result.Certificate.IssuedAt,
			"expires_at":         result.Certificate.ExpiresAt,
		}
	}

	return utils.Success(c, fiber.StatusOK, response)
}

// ListMyCertificates returns the caller's certificates, newest first.
func (cc *CertificatesController) ListMyCertificates(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var certificates []models.Certificate
	if err := cc.DB.Where("user_id = ?", user.ID).
		Order("issued_at DESC").Find(&certificates).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, certificates)
}

func (cc *CertificatesController) ListCertificates(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Certificate{})

	if programID := c.Query("program_id"); programID != "" {
		query = query.Where("program_id = ?", programID)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var certificates []models.Certificate
	if err := query.Order("issued_at DESC").Find(&certificates).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, certificates)
}

// GenerateCertificate issues a certificate manually for an enrolled user who
// has completed the program's requirements.
func (cc *CertificatesController) GenerateCertificate(c *fiber.Ctx) error {
	var input validators.ManualCertificateRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	certificate, err := cc.Issuer.GenerateManually(cc.DB, input.ProgramID, input.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return utils.NotFound(c, "User not found")
		case errors.Is(err, services.ErrProgramNotFound):
			return utils.NotFound(c, "Program not found")
		case errors.Is(err, services.ErrNotEnrolled):
			return utils.BadRequest(c, "User is not enrolled in this program")
		case errors.Is(err, services.ErrRequirementsIncomplete):
			return utils.BadRequest(c, "Program requirements are not complete")
		case errors.Is(err, services.ErrRenderFailed):
			return utils.InternalServerError(c, "Certificate rendering failed")
		}
		return utils.InternalServerError(c, "Could not generate certificate")
	}

	if cc.Mailer != nil {
		var user models.User
		if err := cc.DB.First(&user, certificate.UserID).Error; err == nil {
			cc.Mailer.SendCertificateIssued(user.Email, certificate.UserName, certificate.ProgramTitle, certificate.CertificateNumber)
		}
	}

	return utils.Created(c, certificate)
}

// RevokeCertificate marks a certificate invalid. Revocation is permanent.
func (cc *CertificatesController) RevokeCertificate(c *fiber.Ctx) error {
	certificateID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid certificate ID")
	}

	certificate, err := services.RevokeCertificate(cc.DB, uint(certificateID))
	if err != nil {
		if errors.Is(err, services.ErrCertificateNotFound) {
			return utils.NotFound(c, "Certificate not found")
		}
		return utils.InternalServerError(c, "Could not revoke certificate")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":     "Certificate revoked successfully",
		"certificate": certificate,
	})
}
