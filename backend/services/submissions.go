package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"trainhub/backend/models"
)

// SubmissionService runs the submit pipeline: score, persist the attempt,
// then check certificate eligibility — all inside one transaction so the
// completion evaluator always sees the attempt it is reacting to.
type SubmissionService struct {
	Issuer *CertificateIssuer
}

type SubmitOutcome struct {
	Attempt     *models.AssessmentAttempt
	Certificate *models.Certificate
}

// Submit scores the answers against the assessment and records the attempt.
//
// MaxAttempts is enforced here, at the boundary, before scoring; the engine
// itself never counts attempts. When the attempt passes a program-scoped
// assessment and the user holds an active enrollment, issuance runs in the
// same transaction. A certificate render failure rolls back the attempt too,
// so a passing submission is never recorded as certified-but-broken.
func (s *SubmissionService) Submit(db *gorm.DB, userID, assessmentID uint, answers []AnswerSubmission) (*SubmitOutcome, error) {
	var assessment models.Assessment
	err := db.Preload("Questions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC, id ASC")
	}).First(&assessment, assessmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	if assessment.MaxAttempts > 0 {
		var used int64
		if err := db.Model(&models.AssessmentAttempt{}).
			Where("assessment_id = ? AND user_id = ?", assessmentID, userID).
			Count(&used).Error; err != nil {
			return nil, err
		}
		if used >= int64(assessment.MaxAttempts) {
			return nil, ErrNoAttemptsLeft
		}
	}

	lookup, err := LoadQuestions(db, &assessment)
	if err != nil {
		return nil, err
	}

	result := Score(&assessment, lookup, answers)

	outcome := &SubmitOutcome{}
	err = db.Transaction(func(tx *gorm.DB) error {
		attempt := models.AssessmentAttempt{
			AssessmentID: assessmentID,
			UserID:       userID,
			Results:      result.Results,
			TotalPoints:  result.TotalPoints,
			EarnedPoints: result.EarnedPoints,
			Percentage:   result.Percentage,
			IsPassed:     result.Passed,
			SubmittedAt:  time.Now().UTC(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}
		outcome.Attempt = &attempt

		if !result.Passed || assessment.ProgramID == nil {
			return nil
		}

		var enrollment models.Enrollment
		err := tx.Where("user_id = ? AND program_id = ? AND status = ?",
			userID, *assessment.ProgramID, models.EnrollmentActive).First(&enrollment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		var program models.Program
		if err := tx.First(&program, *assessment.ProgramID).Error; err != nil {
			return err
		}

		cert, err := s.Issuer.IssueIfComplete(tx, &user, &program, &enrollment)
		if err != nil {
			return err
		}
		outcome.Certificate = cert
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// LoadQuestions preloads the bank records an assessment references, options
// included, keyed by question id.
func LoadQuestions(db *gorm.DB, assessment *models.Assessment) (QuestionMap, error) {
	ids := make([]uint, 0, len(assessment.Questions))
	for _, ref := range assessment.Questions {
		ids = append(ids, ref.QuestionID)
	}
	if len(ids) == 0 {
		return QuestionMap{}, nil
	}

	var questions []models.Question
	if err := db.Preload("Options").Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}

	lookup := make(QuestionMap, len(questions))
	for i := range questions {
		lookup[questions[i].ID] = &questions[i]
	}
	return lookup, nil
}
