package controllers

import (
	"errors"
	"math/rand"
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

type AssessmentsController struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Submissions *services.SubmissionService
	Mailer      *utils.Mailer
}

func NewAssessmentsController(db *gorm.DB, cfg *config.Config, submissions *services.SubmissionService, mailer *utils.Mailer) *AssessmentsController {
	return &AssessmentsController{DB: db, Cfg: cfg, Submissions: submissions, Mailer: mailer}
}

func (ac *AssessmentsController) CreateAssessment(c *fiber.Ctx) error {
	var input validators.AssessmentRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	assessment := models.Assessment{
		Title:              input.Title,
		ProgramID:          input.ProgramID,
		ModuleID:           input.ModuleID,
		UnitID:             input.UnitID,
		PassMark:           input.PassMark,
		MaxAttempts:        input.MaxAttempts,
		TimeLimit:          input.TimeLimit,
		RandomizeQuestions: input.RandomizeQuestions,
	}
	for i, qid := range input.QuestionIDs {
		assessment.Questions = append(assessment.Questions, models.AssessmentQuestion{
			QuestionID: qid,
			Position:   i + 1,
		})
	}

	if err := ac.DB.Create(&assessment).Error; err != nil {
		return utils.InternalServerError(c, "Could not create assessment")
	}

	return utils.Created(c, assessment)
}

func (ac *AssessmentsController) ListAssessments(c *fiber.Ctx) error {
	query := ac.DB.Model(&models.Assessment{})

	if programID := c.Query("program_id"); programID != "" {
		query = query.Where("program_id = ?", programID)
	}

	var assessments []models.Assessment
	if err := query.Order("id ASC").Find(&assessments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, assessments)
}

// GetAssessment returns the learner-facing view: questions in order (shuffled
// when the assessment asks for it) with answer keys stripped.
func (ac *AssessmentsController) GetAssessment(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assessment ID")
	}

	var assessment models.Assessment
	if err := ac.DB.Preload("Questions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC, id ASC")
	}).First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Assessment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	lookup, err := services.LoadQuestions(ac.DB, &assessment)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	questions := make([]fiber.Map, 0, len(assessment.Questions))
	for _, ref := range assessment.Questions {
		question, ok := lookup.QuestionByID(ref.QuestionID)
		if !ok {
			continue
		}

		options := make([]fiber.Map, 0, len(question.Options))
		for _, opt := range question.Options {
			options = append(options, fiber.Map{
				"id":   opt.ID,
				"text": opt.Text,
			})
		}

		questions = append(questions, fiber.Map{
			"id":      question.ID,
			"text":    question.Text,
			"type":    question.Type,
			"points":  question.Points,
			"options": options,
		})
	}

	if assessment.RandomizeQuestions {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":           assessment.ID,
		"title":        assessment.Title,
		"program_id":   assessment.ProgramID,
		"module_id":    assessment.ModuleID,
		"unit_id":      assessment.UnitID,
		"pass_mark":    assessment.PassMark,
		"max_attempts": assessment.MaxAttempts,
		"time_limit":   assessment.TimeLimit,
		"questions":    questions,
	})
}

func (ac *AssessmentsController) UpdateAssessment(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assessment ID")
	}

	var input validators.AssessmentRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if errs := validators.Check(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var assessment models.Assessment
	if err := ac.DB.First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Assessment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		assessment.Title = input.Title
		assessment.ProgramID = input.ProgramID
		assessment.ModuleID = input.ModuleID
		assessment.UnitID = input.UnitID
		assessment.PassMark = input.PassMark
		assessment.MaxAttempts = input.MaxAttempts
		assessment.TimeLimit = input.TimeLimit
		assessment.RandomizeQuestions = input.RandomizeQuestions
		if err := tx.Save(&assessment).Error; err != nil {
			return err
		}

		if input.QuestionIDs != nil {
			if err := tx.Where("assessment_id = ?", assessment.ID).Delete(&models.AssessmentQuestion{}).Error; err != nil {
				return err
			}
			for i, qid := range input.QuestionIDs {
				ref := models.AssessmentQuestion{
					AssessmentID: assessment.ID,
					QuestionID:   qid,
					Position:     i + 1,
				}
				if err := tx.Create(&ref).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not update assessment")
	}

	return utils.Success(c, fiber.StatusOK, assessment)
}

func (ac *AssessmentsController) DeleteAssessment(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assessment ID")
	}

	var assessment models.Assessment
	if err := ac.DB.First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Assessment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_id = ?", assessment.ID).Delete(&models.AssessmentQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&assessment).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete assessment")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Assessment deleted successfully",
	})
}

// SubmitAssessment scores the caller's answers, records the attempt and
// reports whether a certificate was issued as a side effect.
func (ac *AssessmentsController) SubmitAssessment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assessment ID")
	}

	var input struct {
		Answers []services.AnswerSubmission `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	outcome, err := ac.Submissions.Submit(ac.DB, user.ID, uint(assessmentID), input.Answers)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAssessmentNotFound):
			return utils.NotFound(c, "Assessment not found")
		case errors.Is(err, services.ErrNoAttemptsLeft):
			return utils.Forbidden(c, "No attempts left")
		case errors.Is(err, services.ErrRenderFailed):
			return utils.InternalServerError(c, "Certificate rendering failed")
		}
		return utils.InternalServerError(c, "Could not record attempt")
	}

	response := fiber.Map{
		"attempt_id":            outcome.Attempt.ID,
		"total_points":          outcome.Attempt.TotalPoints,
		"earned_points":         outcome.Attempt.EarnedPoints,
		"percentage":            outcome.Attempt.Percentage,
		"is_passed":             outcome.Attempt.IsPassed,
		"results":               outcome.Attempt.Results,
		"certificate_generated": outcome.Certificate != nil,
	}
	if outcome.Certificate != nil {
		response["certificate_id"] = outcome.Certificate.ID
		if ac.Mailer != nil {
			cert := outcome.Certificate
			ac.Mailer.SendCertificateIssued(user.Email, cert.UserName, cert.ProgramTitle, cert.CertificateNumber)
		}
	}

	return utils.Success(c, fiber.StatusOK, response)
}

// ListMyAttempts returns the caller's attempts for an assessment, most
// recent first.
func (ac *AssessmentsController) ListMyAttempts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assessment ID")
	}

	var attempts []models.AssessmentAttempt
	if err := ac.DB.Where("assessment_id = ? AND user_id = ?", assessmentID, user.ID).
		Order("submitted_at DESC, id DESC").Find(&attempts).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, attempts)
}

// GetAssessmentAnalytics lists every user's latest attempt for an assessment.
func (ac *AssessmentsController) GetAssessmentAnalytics(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assessment ID")
	}

	var attempts []models.AssessmentAttempt
	if err := ac.DB.Where("assessment_id = ?", assessmentID).
		Order("submitted_at ASC").Find(&attempts).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	latest := make(map[uint]models.AssessmentAttempt)
	attemptCounts := make(map[uint]int)
	for _, attempt := range attempts {
		latest[attempt.UserID] = attempt
		attemptCounts[attempt.UserID]++
	}

	rows := make([]fiber.Map, 0, len(latest))
	for userID, attempt := range latest {
		var user models.User
		if err := ac.DB.First(&user, userID).Error; err != nil {
			continue
		}
		rows = append(rows, fiber.Map{
			"user_id":       user.ID,
			"username":      user.Username,
			"percentage":    attempt.Percentage,
			"earned_points": attempt.EarnedPoints,
			"total_points":  attempt.TotalPoints,
			"is_passed":     attempt.IsPassed,
			"attempts_used": attemptCounts[userID],
			"submitted_at":  attempt.SubmittedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"analytics": rows,
	})
}
