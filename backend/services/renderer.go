package services

import (
	"fmt"
	"os"
	"path/filepath"

	"trainhub/backend/models"
)

// CertificateRenderer produces the certificate artifact. Rendering must
// succeed before a certificate record is persisted; a failure aborts the
// whole issuance.
type CertificateRenderer interface {
	Render(cert *models.Certificate) (filePath string, err error)
}

// FileRenderer writes a plain-text certificate under Dir. It stands in for
// the real PDF pipeline, which is a separate concern behind the same
// interface.
type FileRenderer struct {
	Dir string
}

func (r *FileRenderer) Render(cert *models.Certificate) (string, error) {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return "", err
	}

	filePath := filepath.Join(r.Dir, cert.CertificateNumber+".txt")

	expiry := "never"
	if cert.ExpiresAt != nil {
		expiry = cert.ExpiresAt.Format("January 2, 2006")
	}

	body := fmt.Sprintf(
		"CERTIFICATE OF COMPLETION\n\n%s\nhas successfully completed the training program\n%s\n\nCertificate number: %s\nIssued: %s\nExpires: %s\nVerification code: %s\n",
		cert.UserName,
		cert.ProgramTitle,
		cert.CertificateNumber,
		cert.IssuedAt.Format("January 2, 2006"),
		expiry,
		cert.VerificationCode,
	)

	if err := os.WriteFile(filePath, []byte(body), 0644); err != nil {
		return "", err
	}

	return filePath, nil
}
