package services

import "errors"

// Sentinel errors for the scoring and issuance pipeline. Controllers map
// these onto HTTP statuses; services never touch fiber.
var (
	ErrAssessmentNotFound     = errors.New("assessment not found")
	ErrCertificateNotFound    = errors.New("certificate not found")
	ErrEnrollmentNotFound     = errors.New("enrollment not found")
	ErrProgramNotFound        = errors.New("program not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrNoAttemptsLeft         = errors.New("no attempts left")
	ErrNotEnrolled            = errors.New("user is not enrolled in this program")
	ErrRequirementsIncomplete = errors.New("completion requirements not met")
	ErrRenderFailed           = errors.New("certificate rendering failed")
)
