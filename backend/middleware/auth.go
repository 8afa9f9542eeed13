package middleware

import (
	"github.com/gofiber/fiber/v2"

	"trainhub/backend/config"
	"trainhub/backend/models"
	"trainhub/backend/utils"

	"gorm.io/gorm"
)

// Capability names an operation a role may perform. Handlers are gated here,
// once, at the boundary; the services trust the principal they are handed.
type Capability string

const (
	CapManagePrograms     Capability = "manage_programs"
	CapManageContent      Capability = "manage_content"
	CapManageQuestions    Capability = "manage_questions"
	CapManageAssessments  Capability = "manage_assessments"
	CapManageUsers        Capability = "manage_users"
	CapManageEnrollments  Capability = "manage_enrollments"
	CapIssueCertificates  Capability = "issue_certificates"
	CapRevokeCertificates Capability = "revoke_certificates"
	CapViewAnalytics      Capability = "view_analytics"
	CapSubmitAssessments  Capability = "submit_assessments"
)

var roleCapabilities = map[models.Role]map[Capability]bool{
	models.RoleLearner: {
		CapSubmitAssessments: true,
	},
	models.RoleInstructor: {
		CapSubmitAssessments: true,
		CapManagePrograms:    true,
		CapManageContent:     true,
		CapManageQuestions:   true,
		CapManageAssessments: true,
		CapViewAnalytics:     true,
	},
	models.RoleAdmin: {
		CapSubmitAssessments:  true,
		CapManagePrograms:     true,
		CapManageContent:      true,
		CapManageQuestions:    true,
		CapManageAssessments:  true,
		CapManageUsers:        true,
		CapManageEnrollments:  true,
		CapIssueCertificates:  true,
		CapRevokeCertificates: true,
		CapViewAnalytics:      true,
	},
}

func RoleCan(role models.Role, cap Capability) bool {
	return roleCapabilities[role][cap]
}

// AuthMiddleware authenticates the caller and stores the principal in
// c.Locals("currentUser"). Suspended accounts are refused here.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		if user.Status != models.UserActive {
			return utils.Forbidden(c, "Account is suspended")
		}

		c.Locals("currentUser", &user)
		return c.Next()
	}
}

// RequireCapability gates a route on the capability table. Must run after
// AuthMiddleware.
func RequireCapability(cap Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("currentUser").(*models.User)
		if !ok {
			return utils.Unauthorized(c, "Unauthorized")
		}

		if !RoleCan(user.Role, cap) {
			return utils.Forbidden(c, "You do not have permission to perform this action")
		}

		return c.Next()
	}
}

// CurrentUser returns the authenticated principal set by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("currentUser").(*models.User)
	return user
}
