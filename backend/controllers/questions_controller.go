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

type QuestionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuestionsController(db *gorm.DB, cfg *config.Config) *QuestionsController {
	return &QuestionsController{DB: db, Cfg: cfg}
}

// CreateQuestion adds a question to the bank. The answer-key invariants per
// question type are enforced before anything is written.
func (qc *QuestionsController) CreateQuestion(c *fiber.Ctx) error {
	var input validators.QuestionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}
	if errs := input.CheckInvariants(); errs != nil {
		return utils.ValidationError(c, errs)
	}

	question := models.Question{
		Text:          input.Text,
		Type:          models.QuestionType(input.Type),
		Points:        input.Points,
		CorrectAnswer: input.CorrectAnswer,
		Explanation:   input.Explanation,
	}
	for i, opt := range input.Options {
		question.Options = append(question.Options, models.QuestionOption{
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
			Position:  i + 1,
		})
	}

	if err := qc.DB.Create(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not create question")
	}

	return utils.Created(c, question)
}

func (qc *QuestionsController) ListQuestions(c *fiber.Ctx) error {
	query := qc.DB.Preload("Options", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Model(&models.Question{})

	if qType := c.Query("type"); qType != "" {
		query = query.Where("type = ?", qType)
	}

	var questions []models.Question
	if err := query.Order("id ASC").Find(&questions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, questions)
}

func (qc *QuestionsController) GetQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var question models.Question
	if err := qc.DB.Preload("Options", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Question not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, question)
}

// UpdateQuestion replaces question fields and, when options are supplied,
// the whole option set.
func (qc *QuestionsController) UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var input validators.QuestionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}
	if errs := input.CheckInvariants(); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var question models.Question
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Question not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		question.Text = input.Text
		question.Type = models.QuestionType(input.Type)
		question.Points = input.Points
		question.CorrectAnswer = input.CorrectAnswer
		question.Explanation = input.Explanation
		if err := tx.Save(&question).Error; err != nil {
			return err
		}

		if input.Options != nil {
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.QuestionOption{}).Error; err != nil {
				return err
			}
			for i, opt := range input.Options {
				option := models.QuestionOption{
					QuestionID: question.ID,
					Text:       opt.Text,
					IsCorrect:  opt.IsCorrect,
					Position:   i + 1,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not update question")
	}

	qc.DB.Preload("Options").First(&question, question.ID)
	return utils.Success(c, fiber.StatusOK, question)
}

func (qc *QuestionsController) DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var question models.Question
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Question not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.QuestionOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete question")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Question deleted successfully",
	})
}
