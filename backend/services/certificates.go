package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainhub/backend/models"
)

// CertificateIssuer mints certificates for completed programs and flips the
// enrollment to completed in the same transaction.
type CertificateIssuer struct {
	Renderer CertificateRenderer
}

// IssueIfComplete issues a certificate for (user, program, enrollment) if the
// user has completed the program. It is idempotent: an existing certificate
// for the triple is returned as-is with no side effects. When completion
// requirements are unmet it returns (nil, nil) — a normal negative result,
// not an error.
//
// The caller decides the transaction scope; passing the tx that also wrote
// the triggering attempt guarantees the completion check sees it.
func (ci *CertificateIssuer) IssueIfComplete(db *gorm.DB, user *models.User, program *models.Program, enrollment *models.Enrollment) (*models.Certificate, error) {
	var existing models.Certificate
	err := db.Where("user_id = ? AND program_id = ? AND enrollment_id = ?",
		user.ID, program.ID, enrollment.ID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	complete, err := IsProgramComplete(db, user.ID, program.ID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, nil
	}

	issuedAt := time.Now().UTC()
	cert := models.Certificate{
		UserID:            user.ID,
		ProgramID:         program.ID,
		EnrollmentID:      enrollment.ID,
		UserName:          user.FullName,
		ProgramTitle:      program.Title,
		IssuedAt:          issuedAt,
		CertificateNumber: NewCertificateNumber(issuedAt),
		VerificationCode:  uuid.NewString(),
		IsValid:           true,
	}
	if cert.UserName == "" {
		cert.UserName = user.Username
	}
	if program.ExpiryDuration > 0 {
		expiresAt := issuedAt.AddDate(0, program.ExpiryDuration, 0)
		cert.ExpiresAt = &expiresAt
	}

	filePath, err := ci.Renderer.Render(&cert)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	cert.FilePath = filePath

	if err := db.Create(&cert).Error; err != nil {
		// A concurrent submission may have won the unique-index race on the
		// triple; the stored certificate is the answer either way.
		var winner models.Certificate
		if lookupErr := db.Where("user_id = ? AND program_id = ? AND enrollment_id = ?",
			user.ID, program.ID, enrollment.ID).First(&winner).Error; lookupErr == nil {
			return &winner, nil
		}
		return nil, err
	}

	now := cert.IssuedAt
	enrollment.Status = models.EnrollmentCompleted
	enrollment.CompletedAt = &now
	if err := db.Save(enrollment).Error; err != nil {
		return nil, err
	}

	return &cert, nil
}

// NewCertificateNumber builds a time-derived number with a random suffix.
// Uniqueness is probabilistic; the unique column constraint is the backstop.
func NewCertificateNumber(issuedAt time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CERT-%s-%s", issuedAt.Format("20060102150405"), suffix)
}

// VerificationResult is the public verification answer for a code.
type VerificationResult struct {
	Valid       bool                `json:"valid"`
	Message     string              `json:"message"`
	Certificate *models.Certificate `json:"certificate,omitempty"`
}

// VerifyCertificate checks a verification code. Revocation is reported before
// expiry; expiry compares the stored ExpiresAt against now and never
// recomputes from current program data.
func VerifyCertificate(db *gorm.DB, code string) (VerificationResult, error) {
	var cert models.Certificate
	if err := db.Where("verification_code = ?", code).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VerificationResult{Valid: false, Message: "Certificate not found"}, nil
		}
		return VerificationResult{}, err
	}

	if !cert.IsValid {
		return VerificationResult{Valid: false, Message: "Certificate has been revoked", Certificate: &cert}, nil
	}

	if cert.ExpiresAt != nil && cert.ExpiresAt.Before(time.Now()) {
		return VerificationResult{Valid: false, Message: "Certificate has expired", Certificate: &cert}, nil
	}

	return VerificationResult{Valid: true, Message: "Certificate is valid", Certificate: &cert}, nil
}

// GenerateManually issues a certificate outside the submission flow, for an
// elevated caller. Unlike IssueIfComplete it reports unmet requirements as an
// error so the admin sees why nothing was issued.
func (ci *CertificateIssuer) GenerateManually(db *gorm.DB, programID, userID uint) (*models.Certificate, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var program models.Program
	if err := db.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	var enrollment models.Enrollment
	err := db.Where("user_id = ? AND program_id = ?", userID, programID).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	var cert *models.Certificate
	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		cert, txErr = ci.IssueIfComplete(tx, &user, &program, &enrollment)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrRequirementsIncomplete
	}

	return cert, nil
}

// RevokeCertificate flips IsValid off. Certificates are never deleted.
func RevokeCertificate(db *gorm.DB, certificateID uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := db.First(&cert, certificateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}

	cert.IsValid = false
	if err := db.Save(&cert).Error; err != nil {
		return nil, err
	}

	return &cert, nil
}
