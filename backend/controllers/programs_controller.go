package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trainhub/backend/config"
	"trainhub/backend/models"
	"trainhub/backend/utils"
	"trainhub/backend/validators"
)

type ProgramsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgramsController(db *gorm.DB, cfg *config.Config) *ProgramsController {
	return &ProgramsController{DB: db, Cfg: cfg}
}

func (pc *ProgramsController) CreateProgram(c *fiber.Ctx) error {
	var input validators.ProgramRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	program := models.Program{
		Title:               input.Title,
		Description:         input.Description,
		LearningObjectives:  input.LearningObjectives,
		ExpiryDuration:      input.ExpiryDuration,
		RenewalRequirements: input.RenewalRequirements,
	}

	if err := pc.DB.Create(&program).Error; err != nil {
		return utils.InternalServerError(c, "Could not create program")
	}

	return utils.Created(c, program)
}

func (pc *ProgramsController) ListPrograms(c *fiber.Ctx) error {
	var programs []models.Program
	if err := pc.DB.Order("id ASC").Find(&programs).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, programs)
}

func (pc *ProgramsController) GetProgram(c *fiber.Ctx) error {
	programID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid program ID")
	}

	var program models.Program
	if err := pc.DB.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Program not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, program)
}

func (pc *ProgramsController) UpdateProgram(c *fiber.Ctx) error {
	programID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid program ID")
	}

	var input validators.ProgramRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var program models.Program
	if err := pc.DB.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Program not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	program.Title = input.Title
	program.Description = input.Description
	program.LearningObjectives = input.LearningObjectives
	program.ExpiryDuration = input.ExpiryDuration
	program.RenewalRequirements = input.RenewalRequirements

	if err := pc.DB.Save(&program).Error; err != nil {
		return utils.InternalServerError(c, "Could not update program")
	}

	return utils.Success(c, fiber.StatusOK, program)
}

// DeleteProgram removes a program together with its modules and units.
func (pc *ProgramsController) DeleteProgram(c *fiber.Ctx) error {
	programID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid program ID")
	}

	var program models.Program
	if err := pc.DB.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Program not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		var modules []models.ProgramModule
		if err := tx.Where("program_id = ?", programID).Find(&modules).Error; err != nil {
			return err
		}
		for _, module := range modules {
			if err := tx.Where("module_id = ?", module.ID).Delete(&models.Unit{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("program_id = ?", programID).Delete(&models.ProgramModule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&program).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete program")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Program deleted successfully",
	})
}

// GetProgramStructure returns the program with its modules and units nested
// in display order.
func (pc *ProgramsController) GetProgramStructure(c *fiber.Ctx) error {
	programID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid program ID")
	}

	var program models.Program
	if err := pc.DB.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Program not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var modules []models.ProgramModule
	if err := pc.DB.Preload("Units", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Where("program_id = ?", programID).Order("position ASC").Find(&modules).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"program": program,
		"modules": modules,
	})
}
