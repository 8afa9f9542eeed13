package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"trainhub/backend/config"
	"trainhub/backend/middleware"
	"trainhub/backend/models"
	"trainhub/backend/utils"
	"trainhub/backend/validators"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// GetProfile returns the authenticated user's profile with enrollment and
// certificate summaries.
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var enrollments []models.Enrollment
	uc.DB.Where("user_id = ?", user.ID).Find(&enrollments)

	var certificateCount int64
	uc.DB.Model(&models.Certificate{}).Where("user_id = ? AND is_valid = ?", user.ID, true).Count(&certificateCount)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"full_name":    user.FullName,
		"role":         user.Role,
		"status":       user.Status,
		"created_at":   user.CreatedAt,
		"enrollments":  enrollments,
		"certificates": certificateCount,
	})
}

// UpdateProfile updates the caller's own account fields.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input validators.UpdateProfileRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if input.Email != "" && input.Email != user.Email {
		var existing models.User
		if err := uc.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil && existing.ID != user.ID {
			return utils.BadRequest(c, "Email already taken")
		}
		user.Email = input.Email
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}

	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.BadRequest(c, "Old password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashed)
	}

	if err := uc.DB.Save(user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update profile")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
	})
}

// ListUsers returns all accounts. Admin only.
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Order("id ASC").Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, users)
}

// UpdateUser changes another account's role or status. Admin only. Unknown
// role/status values never reach storage.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input validators.UpdateUserAdminRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Role != "" {
		user.Role = models.Role(input.Role)
	}
	if input.Status != "" {
		user.Status = models.UserStatus(input.Status)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Success(c, fiber.StatusOK, user)
}
