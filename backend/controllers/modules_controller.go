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

type ModulesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewModulesController(db *gorm.DB, cfg *config.Config) *ModulesController {
	return &ModulesController{DB: db, Cfg: cfg}
}

func (mc *ModulesController) CreateModule(c *fiber.Ctx) error {
	programID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid program ID")
	}

	var input validators.ModuleRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.ProgramID = uint(programID)

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var program models.Program
	if err := mc.DB.First(&program, input.ProgramID).Error; err != nil {
		return utils.NotFound(c, "Program not found")
	}

	module := models.ProgramModule{
		ProgramID:   input.ProgramID,
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
	}

	if err := mc.DB.Create(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not create module")
	}

	return utils.Created(c, module)
}

func (mc *ModulesController) ListProgramModules(c *fiber.Ctx) error {
	programID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid program ID")
	}

	var modules []models.ProgramModule
	if err := mc.DB.Where("program_id = ?", programID).Order("position ASC").Find(&modules).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, modules)
}

func (mc *ModulesController) UpdateModule(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var input validators.ModuleRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var module models.ProgramModule
	if err := mc.DB.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.Title != "" {
		module.Title = input.Title
	}
	if input.Description != "" {
		module.Description = input.Description
	}
	if input.Position > 0 {
		module.Position = input.Position
	}

	if err := mc.DB.Save(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not update module")
	}

	return utils.Success(c, fiber.StatusOK, module)
}

// DeleteModule removes a module and its units.
func (mc *ModulesController) DeleteModule(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var module models.ProgramModule
	if err := mc.DB.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", moduleID).Delete(&models.Unit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&module).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete module")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Module deleted successfully",
	})
}

func (mc *ModulesController) CreateUnit(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var input validators.UnitRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.ModuleID = uint(moduleID)

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var module models.ProgramModule
	if err := mc.DB.First(&module, input.ModuleID).Error; err != nil {
		return utils.NotFound(c, "Module not found")
	}

	unit := models.Unit{
		ModuleID:           input.ModuleID,
		Title:              input.Title,
		LearningObjectives: input.LearningObjectives,
		Position:           input.Position,
	}

	if err := mc.DB.Create(&unit).Error; err != nil {
		return utils.InternalServerError(c, "Could not create unit")
	}

	return utils.Created(c, unit)
}

func (mc *ModulesController) ListModuleUnits(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var units []models.Unit
	if err := mc.DB.Where("module_id = ?", moduleID).Order("position ASC").Find(&units).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, units)
}

func (mc *ModulesController) UpdateUnit(c *fiber.Ctx) error {
	unitID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid unit ID")
	}

	var input validators.UnitRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var unit models.Unit
	if err := mc.DB.First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Unit not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.Title != "" {
		unit.Title = input.Title
	}
	if input.LearningObjectives != nil {
		unit.LearningObjectives = input.LearningObjectives
	}
	if input.Position > 0 {
		unit.Position = input.Position
	}

	if err := mc.DB.Save(&unit).Error; err != nil {
		return utils.InternalServerError(c, "Could not update unit")
	}

	return utils.Success(c, fiber.StatusOK, unit)
}

func (mc *ModulesController) DeleteUnit(c *fiber.Ctx) error {
	unitID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid unit ID")
	}

	result := mc.DB.Delete(&models.Unit{}, unitID)
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not delete unit")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Unit not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Unit deleted successfully",
	})
}
