package models

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentSuspended EnrollmentStatus = "suspended"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentSuspended:
		return true
	}
	return false
}

// Enrollment ties a learner to a program. The active -> completed transition
// happens only through certificate issuance and never reverts.
type Enrollment struct {
	gorm.Model
	UserID      uint             `gorm:"index;not null;uniqueIndex:idx_enrollment_user_program" json:"user_id"`
	ProgramID   uint             `gorm:"index;not null;uniqueIndex:idx_enrollment_user_program" json:"program_id"`
	EnrolledAt  time.Time        `json:"enrolled_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Status      EnrollmentStatus `gorm:"type:varchar(20);default:active" json:"status"`
}
