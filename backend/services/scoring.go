package services

import (
	"strings"

	"trainhub/backend/models"
)

// QuestionLookup resolves question ids to bank records. The scoring engine
// never queries storage itself.
type QuestionLookup interface {
	QuestionByID(id uint) (*models.Question, bool)
}

// QuestionMap is the usual QuestionLookup: a preloaded id -> question map.
type QuestionMap map[uint]*models.Question

func (m QuestionMap) QuestionByID(id uint) (*models.Question, bool) {
	q, ok := m[id]
	return q, ok
}

// AnswerSubmission is one submitted answer. Only the field matching the
// question type is read; the other may be present and is ignored.
type AnswerSubmission struct {
	QuestionID       uint   `json:"question_id"`
	SelectedOptionID *uint  `json:"selected_option_id,omitempty"`
	AnswerText       string `json:"answer_text,omitempty"`
}

// ScoreResult is the outcome of scoring one submission against an assessment.
type ScoreResult struct {
	Results      []models.AnswerResult
	TotalPoints  int
	EarnedPoints int
	Percentage   float64
	Passed       bool
}

// Score grades a submission against an assessment's question list.
//
// TotalPoints covers every question the assessment references, answered or
// not, so unanswered questions drag the percentage down. Answers whose
// question id is not part of the assessment are skipped without error, and
// malformed answers (missing option id, empty text) simply score as
// incorrect. Essay answers keep nil correctness and earn nothing until an
// instructor grades them. A tie with the pass mark passes.
func Score(assessment *models.Assessment, lookup QuestionLookup, answers []AnswerSubmission) ScoreResult {
	known := make(map[uint]*models.Question, len(assessment.Questions))
	totalPoints := 0
	for _, ref := range assessment.Questions {
		q, ok := lookup.QuestionByID(ref.QuestionID)
		if !ok {
			continue
		}
		known[ref.QuestionID] = q
		totalPoints += q.Points
	}

	results := make([]models.AnswerResult, 0, len(answers))
	earnedPoints := 0
	for _, answer := range answers {
		question, ok := known[answer.QuestionID]
		if !ok {
			continue
		}

		result := models.AnswerResult{
			QuestionID:       answer.QuestionID,
			SelectedOptionID: answer.SelectedOptionID,
			AnswerText:       answer.AnswerText,
		}

		switch question.Type {
		case models.QuestionMultipleChoice:
			correct := answer.SelectedOptionID != nil && optionIsCorrect(question, *answer.SelectedOptionID)
			result.Correct = &correct
			if correct {
				result.PointsEarned = question.Points
			}
		case models.QuestionTrueFalse:
			correct := answer.AnswerText != "" && strings.EqualFold(answer.AnswerText, question.CorrectAnswer)
			result.Correct = &correct
			if correct {
				result.PointsEarned = question.Points
			}
		case models.QuestionEssay:
			// Ungraded: Correct stays nil, zero points until manual review.
		}

		earnedPoints += result.PointsEarned
		results = append(results, result)
	}

	percentage := 0.0
	if totalPoints > 0 {
		percentage = float64(earnedPoints) / float64(totalPoints) * 100
	}

	return ScoreResult{
		Results:      results,
		TotalPoints:  totalPoints,
		EarnedPoints: earnedPoints,
		Percentage:   percentage,
		Passed:       percentage >= assessment.PassMark,
	}
}

func optionIsCorrect(q *models.Question, optionID uint) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt.IsCorrect
		}
	}
	return false
}
