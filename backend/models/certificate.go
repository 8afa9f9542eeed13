package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is a completion record. UserName and ProgramTitle are captured
// at issuance and never reflect later edits. The composite unique index is
// what makes issuance idempotent under concurrent submissions: a second
// insert for the same triple fails at the database instead of duplicating.
type Certificate struct {
	gorm.Model
	UserID            uint       `gorm:"not null;uniqueIndex:idx_cert_user_program_enrollment" json:"user_id"`
	ProgramID         uint       `gorm:"not null;uniqueIndex:idx_cert_user_program_enrollment" json:"program_id"`
	EnrollmentID      uint       `gorm:"not null;uniqueIndex:idx_cert_user_program_enrollment" json:"enrollment_id"`
	UserName          string     `json:"user_name"`
	ProgramTitle      string     `json:"program_title"`
	IssuedAt          time.Time  `json:"issued_at"`
	ExpiresAt         *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CertificateNumber string     `gorm:"unique;not null" json:"certificate_number"`
	VerificationCode  string     `gorm:"uniqueIndex;not null" json:"verification_code"`
	IsValid           bool       `gorm:"default:true" json:"is_valid"`
	FilePath          string     `json:"file_path"`
}
