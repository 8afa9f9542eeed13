package models

import "gorm.io/gorm"

// QuestionType is the closed set of graded question kinds.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionEssay          QuestionType = "essay"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionEssay:
		return true
	}
	return false
}

// Question is a bank entry shared between assessments. multiple_choice
// questions carry their options; true_false questions carry CorrectAnswer;
// essay questions have no automatic answer key.
type Question struct {
	gorm.Model
	Text          string           `gorm:"not null" json:"text"`
	Type          QuestionType     `gorm:"type:varchar(20);not null" json:"type"`
	Points        int              `gorm:"default:1" json:"points"`
	CorrectAnswer string           `json:"correct_answer,omitempty"`
	Explanation   string           `json:"explanation,omitempty"`
	Options       []QuestionOption `json:"options,omitempty"`
}

type QuestionOption struct {
	gorm.Model
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	Text       string `gorm:"not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
	Position   int    `gorm:"default:0" json:"position"`
}

// Assessment groups question references with a pass mark. Scope references
// are optional; a program-scoped assessment gates program completion.
type Assessment struct {
	gorm.Model
	Title              string               `gorm:"not null" json:"title"`
	ProgramID          *uint                `gorm:"index" json:"program_id,omitempty"`
	ModuleID           *uint                `gorm:"index" json:"module_id,omitempty"`
	UnitID             *uint                `gorm:"index" json:"unit_id,omitempty"`
	PassMark           float64              `gorm:"default:0" json:"pass_mark"`
	MaxAttempts        int                  `gorm:"default:0" json:"max_attempts"` // 0 = unlimited
	TimeLimit          *int                 `json:"time_limit,omitempty"`          // minutes
	RandomizeQuestions bool                 `gorm:"default:false" json:"randomize_questions"`
	Questions          []AssessmentQuestion `json:"questions,omitempty"`
}

// AssessmentQuestion is an ordered question reference. Duplicates are not
// rejected; a duplicated question double-counts its points.
type AssessmentQuestion struct {
	gorm.Model
	AssessmentID uint `gorm:"index;not null" json:"assessment_id"`
	QuestionID   uint `gorm:"index;not null" json:"question_id"`
	Position     int  `gorm:"default:0" json:"position"`
}
