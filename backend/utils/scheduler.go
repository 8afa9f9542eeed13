package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"trainhub/backend/models"
)

// InitExpiryScheduler starts the daily certificate-expiry reminder sweep.
// Expiry itself is never written back: a certificate's validity at
// verification time is computed from its stored expiry date.
func InitExpiryScheduler(db *gorm.DB, mailer *Mailer, logger *log.Logger) *cron.Cron {
	c := cron.New()

	// Daily at 08:00 server time
	c.AddFunc("0 8 * * *", func() {
		logger.Println("[EXPIRY-SCHEDULER] running daily certificate expiry sweep")
		SendExpiryReminders(db, mailer, logger)
	})

	c.Start()
	logger.Println("[EXPIRY-SCHEDULER] started, runs daily at 08:00")
	return c
}

// SendExpiryReminders emails holders of valid certificates expiring within
// the next 30 days.
func SendExpiryReminders(db *gorm.DB, mailer *Mailer, logger *log.Logger) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, 30)

	var expiring []models.Certificate
	if err := db.Where("is_valid = ? AND expires_at IS NOT NULL", true).
		Where("expires_at BETWEEN ? AND ?", now, cutoff).
		Find(&expiring).Error; err != nil {
		logger.Printf("[EXPIRY-SCHEDULER] error fetching expiring certificates: %v", err)
		return
	}

	logger.Printf("[EXPIRY-SCHEDULER] found %d certificates expiring within 30 days", len(expiring))

	for _, cert := range expiring {
		var user models.User
		if err := db.First(&user, cert.UserID).Error; err != nil {
			logger.Printf("[EXPIRY-SCHEDULER] error fetching user %d: %v", cert.UserID, err)
			continue
		}
		mailer.SendCertificateExpiryReminder(user.Email, cert.UserName, cert.ProgramTitle, *cert.ExpiresAt)
	}
}
