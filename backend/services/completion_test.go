package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trainhub/backend/models"
)

func seedProgram(t *testing.T, db *gorm.DB, title string) *models.Program {
	t.Helper()
	program := &models.Program{Title: title}
	require.NoError(t, db.Create(program).Error)
	return program
}

func seedAssessment(t *testing.T, db *gorm.DB, programID *uint, passMark float64) *models.Assessment {
	t.Helper()
	assessment := &models.Assessment{Title: "checkpoint", ProgramID: programID, PassMark: passMark}
	require.NoError(t, db.Create(assessment).Error)
	return assessment
}

func seedAttempt(t *testing.T, db *gorm.DB, assessmentID, userID uint, passed bool, at time.Time) {
	t.Helper()
	attempt := &models.AssessmentAttempt{
		AssessmentID: assessmentID,
		UserID:       userID,
		IsPassed:     passed,
		SubmittedAt:  at,
	}
	require.NoError(t, db.Create(attempt).Error)
}

func TestIsProgramCompleteNoAssessments(t *testing.T) {
	db := newTestDB(t)
	program := seedProgram(t, db, "Orientation")

	complete, err := IsProgramComplete(db, 1, program.ID)
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestIsProgramCompleteAllPassed(t *testing.T) {
	db := newTestDB(t)
	program := seedProgram(t, db, "Safety")
	a1 := seedAssessment(t, db, &program.ID, 60)
	a2 := seedAssessment(t, db, &program.ID, 60)

	now := time.Now()
	seedAttempt(t, db, a1.ID, 7, true, now)
	seedAttempt(t, db, a2.ID, 7, true, now)

	complete, err := IsProgramComplete(db, 7, program.ID)
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestIsProgramCompleteMissingAttempt(t *testing.T) {
	db := newTestDB(t)
	program := seedProgram(t, db, "Safety")
	a1 := seedAssessment(t, db, &program.ID, 60)
	seedAssessment(t, db, &program.ID, 60)

	seedAttempt(t, db, a1.ID, 7, true, time.Now())

	complete, err := IsProgramComplete(db, 7, program.ID)
	require.NoError(t, err)
	assert.False(t, complete)
}

func TestIsProgramCompleteLatestAttemptWins(t *testing.T) {
	db := newTestDB(t)
	program := seedProgram(t, db, "Safety")
	assessment := seedAssessment(t, db, &program.ID, 60)

	now := time.Now()
	seedAttempt(t, db, assessment.ID, 7, true, now.Add(-time.Hour))
	seedAttempt(t, db, assessment.ID, 7, false, now)

	complete, err := IsProgramComplete(db, 7, program.ID)
	require.NoError(t, err)
	assert.False(t, complete)
}

func TestIsProgramCompleteRetakeRestoresPass(t *testing.T) {
	db := newTestDB(t)
	program := seedProgram(t, db, "Safety")
	assessment := seedAssessment(t, db, &program.ID, 60)

	now := time.Now()
	seedAttempt(t, db, assessment.ID, 7, false, now.Add(-time.Hour))
	seedAttempt(t, db, assessment.ID, 7, true, now)

	complete, err := IsProgramComplete(db, 7, program.ID)
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestIsProgramCompleteIgnoresOtherScopes(t *testing.T) {
	db := newTestDB(t)
	program := seedProgram(t, db, "Safety")

	// Unscoped and foreign-program assessments never gate this program.
	seedAssessment(t, db, nil, 60)
	other := seedProgram(t, db, "Other")
	seedAssessment(t, db, &other.ID, 60)

	complete, err := IsProgramComplete(db, 7, program.ID)
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestIsProgramCompleteIgnoresOtherUsers(t *testing.T) {
	db := newTestDB(t)
	program := seedProgram(t, db, "Safety")
	assessment := seedAssessment(t, db, &program.ID, 60)

	seedAttempt(t, db, assessment.ID, 8, true, time.Now())

	complete, err := IsProgramComplete(db, 7, program.ID)
	require.NoError(t, err)
	assert.False(t, complete)
}
