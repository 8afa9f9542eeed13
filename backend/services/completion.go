package services

import (
	"errors"

	"gorm.io/gorm"

	"trainhub/backend/models"
)

// IsProgramComplete reports whether every program-scoped assessment has a
// passing latest attempt for the user.
//
// Only assessments whose ProgramID matches count; module- and unit-scoped
// assessments inside the same program do not gate program completion. A
// program with no assessments is complete on enrollment. Completion uses the
// most recent attempt per assessment, so a failing resubmission knocks out an
// earlier pass.
func IsProgramComplete(db *gorm.DB, userID, programID uint) (bool, error) {
	var assessments []models.Assessment
	if err := db.Where("program_id = ?", programID).Find(&assessments).Error; err != nil {
		return false, err
	}

	if len(assessments) == 0 {
		return true, nil
	}

	for _, assessment := range assessments {
		var latest models.AssessmentAttempt
		err := db.Where("assessment_id = ? AND user_id = ?", assessment.ID, userID).
			Order("submitted_at DESC, id DESC").
			First(&latest).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if !latest.IsPassed {
			return false, nil
		}
	}

	return true, nil
}
