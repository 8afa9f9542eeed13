package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trainhub/backend/models"
)

// seedBankQuestion stores a true/false question and links it to an assessment.
func seedBankQuestion(t *testing.T, db *gorm.DB, assessmentID uint, points int, position int) *models.Question {
	t.Helper()
	question := &models.Question{
		Text:          "the sky is blue",
		Type:          models.QuestionTrueFalse,
		Points:        points,
		CorrectAnswer: "true",
	}
	require.NoError(t, db.Create(question).Error)
	require.NoError(t, db.Create(&models.AssessmentQuestion{
		AssessmentID: assessmentID,
		QuestionID:   question.ID,
		Position:     position,
	}).Error)
	return question
}

func newSubmissionService(t *testing.T) *SubmissionService {
	t.Helper()
	return &SubmissionService{Issuer: newIssuer(t)}
}

func TestSubmitRecordsAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(t)
	user := seedUser(t, db, "ada")
	program := seedProgram(t, db, "Safety")
	assessment := seedAssessment(t, db, &program.ID, 60)
	q1 := seedBankQuestion(t, db, assessment.ID, 2, 1)
	seedBankQuestion(t, db, assessment.ID, 1, 2)

	outcome, err := svc.Submit(db, user.ID, assessment.ID, []AnswerSubmission{
		{QuestionID: q1.ID, AnswerText: "true"},
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Attempt)

	assert.Equal(t, 3, outcome.Attempt.TotalPoints)
	assert.Equal(t, 2, outcome.Attempt.EarnedPoints)
	assert.True(t, outcome.Attempt.IsPassed)
	assert.False(t, outcome.Attempt.SubmittedAt.IsZero())

	var stored models.AssessmentAttempt
	require.NoError(t, db.First(&stored, outcome.Attempt.ID).Error)
	assert.Equal(t, user.ID, stored.UserID)
	require.Len(t, stored.Results, 1)
	assert.Equal(t, q1.ID, stored.Results[0].QuestionID)
}

func TestSubmitUnknownAssessment(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(t)

	_, err := svc.Submit(db, 1, 99, nil)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestSubmitEnforcesMaxAttempts(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(t)
	user := seedUser(t, db, "ada")
	assessment := &models.Assessment{Title: "quiz", PassMark: 100, MaxAttempts: 2}
	require.NoError(t, db.Create(assessment).Error)
	question := seedBankQuestion(t, db, assessment.ID, 1, 1)

	answers := []AnswerSubmission{{QuestionID: question.ID, AnswerText: "false"}}

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(db, user.ID, assessment.ID, answers)
		require.NoError(t, err)
	}

	_, err := svc.Submit(db, user.ID, assessment.ID, answers)
	assert.ErrorIs(t, err, ErrNoAttemptsLeft)

	// Other users still have their own budget.
	other := seedUser(t, db, "bob")
	_, err = svc.Submit(db, other.ID, assessment.ID, answers)
	assert.NoError(t, err)
}

func TestSubmitPassingLastAssessmentIssuesCertificate(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(t)
	user := seedUser(t, db, "ada")
	program := seedProgram(t, db, "Safety")
	enrollment := seedEnrollment(t, db, user.ID, program.ID)
	assessment := seedAssessment(t, db, &program.ID, 60)
	question := seedBankQuestion(t, db, assessment.ID, 1, 1)

	outcome, err := svc.Submit(db, user.ID, assessment.ID, []AnswerSubmission{
		{QuestionID: question.ID, AnswerText: "true"},
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Certificate)
	assert.Equal(t, user.ID, outcome.Certificate.UserID)
	assert.Equal(t, program.ID, outcome.Certificate.ProgramID)

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentCompleted, stored.Status)
}

func TestSubmitFailingAttemptIssuesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(t)
	user := seedUser(t, db, "ada")
	program := seedProgram(t, db, "Safety")
	seedEnrollment(t, db, user.ID, program.ID)
	assessment := seedAssessment(t, db, &program.ID, 60)
	question := seedBankQuestion(t, db, assessment.ID, 1, 1)

	outcome, err := svc.Submit(db, user.ID, assessment.ID, []AnswerSubmission{
		{QuestionID: question.ID, AnswerText: "false"},
	})
	require.NoError(t, err)
	assert.False(t, outcome.Attempt.IsPassed)
	assert.Nil(t, outcome.Certificate)
}

func TestSubmitWithoutEnrollmentIssuesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(t)
	user := seedUser(t, db, "ada")
	program := seedProgram(t, db, "Safety")
	assessment := seedAssessment(t, db, &program.ID, 60)
	question := seedBankQuestion(t, db, assessment.ID, 1, 1)

	outcome, err := svc.Submit(db, user.ID, assessment.ID, []AnswerSubmission{
		{QuestionID: question.ID, AnswerText: "true"},
	})
	require.NoError(t, err)
	assert.True(t, outcome.Attempt.IsPassed)
	assert.Nil(t, outcome.Certificate)
}

func TestSubmitModuleScopedAssessmentIssuesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(t)
	user := seedUser(t, db, "ada")
	program := seedProgram(t, db, "Safety")
	seedEnrollment(t, db, user.ID, program.ID)

	module := &models.ProgramModule{ProgramID: program.ID, Title: "Basics", Position: 1}
	require.NoError(t, db.Create(module).Error)
	assessment := &models.Assessment{Title: "module quiz", ModuleID: &module.ID, PassMark: 60}
	require.NoError(t, db.Create(assessment).Error)
	question := seedBankQuestion(t, db, assessment.ID, 1, 1)

	outcome, err := svc.Submit(db, user.ID, assessment.ID, []AnswerSubmission{
		{QuestionID: question.ID, AnswerText: "true"},
	})
	require.NoError(t, err)
	assert.True(t, outcome.Attempt.IsPassed)
	assert.Nil(t, outcome.Certificate)
}

func TestSubmitRenderFailureRollsBackAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{Issuer: &CertificateIssuer{Renderer: failingRenderer{}}}
	user := seedUser(t, db, "ada")
	program := seedProgram(t, db, "Safety")
	seedEnrollment(t, db, user.ID, program.ID)
	assessment := seedAssessment(t, db, &program.ID, 60)
	question := seedBankQuestion(t, db, assessment.ID, 1, 1)

	_, err := svc.Submit(db, user.ID, assessment.ID, []AnswerSubmission{
		{QuestionID: question.ID, AnswerText: "true"},
	})
	require.ErrorIs(t, err, ErrRenderFailed)

	var attempts int64
	require.NoError(t, db.Model(&models.AssessmentAttempt{}).Count(&attempts).Error)
	assert.Equal(t, int64(0), attempts)
}

func TestSubmitSecondPassReturnsExistingCertificate(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(t)
	user := seedUser(t, db, "ada")
	program := seedProgram(t, db, "Safety")
	seedEnrollment(t, db, user.ID, program.ID)
	assessment := seedAssessment(t, db, &program.ID, 60)
	question := seedBankQuestion(t, db, assessment.ID, 1, 1)

	answers := []AnswerSubmission{{QuestionID: question.ID, AnswerText: "true"}}

	first, err := svc.Submit(db, user.ID, assessment.ID, answers)
	require.NoError(t, err)
	require.NotNil(t, first.Certificate)

	// The enrollment is completed now, but re-submitting must not mint a
	// second certificate.
	second, err := svc.Submit(db, user.ID, assessment.ID, answers)
	require.NoError(t, err)
	require.NotNil(t, second.Attempt)

	var count int64
	require.NoError(t, db.Model(&models.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoadQuestionsPreloadsOptions(t *testing.T) {
	db := newTestDB(t)
	assessment := &models.Assessment{Title: "quiz", PassMark: 50}
	require.NoError(t, db.Create(assessment).Error)

	question := &models.Question{
		Text:   "pick",
		Type:   models.QuestionMultipleChoice,
		Points: 1,
		Options: []models.QuestionOption{
			{Text: "a", IsCorrect: true, Position: 1},
			{Text: "b", Position: 2},
		},
	}
	require.NoError(t, db.Create(question).Error)
	require.NoError(t, db.Create(&models.AssessmentQuestion{
		AssessmentID: assessment.ID,
		QuestionID:   question.ID,
		Position:     1,
	}).Error)

	require.NoError(t, db.Preload("Questions").First(assessment, assessment.ID).Error)

	lookup, err := LoadQuestions(db, assessment)
	require.NoError(t, err)

	loaded, ok := lookup.QuestionByID(question.ID)
	require.True(t, ok)
	assert.Len(t, loaded.Options, 2)
}
