package controllers

import (
	"errors"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trainhub/backend/config"
	"trainhub/backend/models"
	"trainhub/backend/utils"
)

type ContentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewContentController(db *gorm.DB, cfg *config.Config) *ContentController {
	return &ContentController{DB: db, Cfg: cfg}
}

// UploadContent stores an uploaded file for a unit and records its metadata.
func (cc *ContentController) UploadContent(c *fiber.Ctx) error {
	unitID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid unit ID")
	}

	var unit models.Unit
	if err := cc.DB.First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Unit not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "Missing file")
	}

	filePath, err := utils.SaveUploadedFile(file, cc.Cfg.UploadDir)
	if err != nil {
		return utils.InternalServerError(c, "Could not save file")
	}

	contentType, mimeType := utils.DetectContentType(file.Filename)

	item := models.ContentItem{
		UnitID:      uint(unitID),
		Title:       file.Filename,
		ContentType: contentType,
		FilePath:    filePath,
		FileSize:    file.Size,
		MimeType:    mimeType,
	}

	if err := cc.DB.Create(&item).Error; err != nil {
		os.Remove(filePath)
		return utils.InternalServerError(c, "Could not save content metadata")
	}

	return utils.Created(c, item)
}

func (cc *ContentController) ListUnitContent(c *fiber.Ctx) error {
	unitID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid unit ID")
	}

	var items []models.ContentItem
	if err := cc.DB.Where("unit_id = ?", unitID).Find(&items).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, items)
}

// DeleteContent removes the metadata record and the file on disk.
func (cc *ContentController) DeleteContent(c *fiber.Ctx) error {
	contentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid content ID")
	}

	var item models.ContentItem
	if err := cc.DB.First(&item, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Content not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if item.FilePath != "" {
		os.Remove(item.FilePath)
	}

	if err := cc.DB.Delete(&item).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete content")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Content deleted successfully",
	})
}
