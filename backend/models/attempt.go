package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnswerResult is one scored answer inside an attempt. Correct is nil for
// essay answers, which stay ungraded until an instructor amends the record.
type AnswerResult struct {
	QuestionID       uint   `json:"question_id"`
	SelectedOptionID *uint  `json:"selected_option_id,omitempty"`
	AnswerText       string `json:"answer_text,omitempty"`
	Correct          *bool  `json:"correct"`
	PointsEarned     int    `json:"points_earned"`
}

// AssessmentAttempt is one scored submission. Results keeps the ordered
// per-question outcomes as a JSON column.
type AssessmentAttempt struct {
	gorm.Model
	AssessmentID uint                                    `gorm:"index;not null" json:"assessment_id"`
	UserID       uint                                    `gorm:"index;not null" json:"user_id"`
	Results      datatypes.JSONSlice[AnswerResult]       `json:"results"`
	TotalPoints  int                                     `json:"total_points"`
	EarnedPoints int                                     `json:"earned_points"`
	Percentage   float64                                 `json:"percentage"`
	IsPassed     bool                                    `json:"is_passed"`
	SubmittedAt  time.Time                               `gorm:"index" json:"submitted_at"`
}
