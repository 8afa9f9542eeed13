package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"trainhub/backend/config"
)

// Mailer sends notification emails over SMTP. With EmailEnabled off every
// send is a logged no-op, which is also how tests run.
type Mailer struct {
	Cfg    *config.Config
	Logger *log.Logger
}

func NewMailer(cfg *config.Config, logger *log.Logger) *Mailer {
	return &Mailer{Cfg: cfg, Logger: logger}
}

// Send delivers one HTML email.
func (m *Mailer) Send(to []string, subject, htmlBody string) error {
	if !m.Cfg.EmailEnabled {
		m.Logger.Printf("[MAILER] disabled, skipping %q to %v", subject, to)
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: TrainHub <%s>\r\n", m.Cfg.EmailSender)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", m.Cfg.EmailSender, m.Cfg.EmailPassword, m.Cfg.SMTPHost)
	addr := m.Cfg.SMTPHost + ":" + m.Cfg.SMTPPort

	if err := smtp.SendMail(addr, auth, m.Cfg.EmailSender, to, []byte(msg)); err != nil {
		m.Logger.Printf("[MAILER] send failed: %v", err)
		return err
	}
	return nil
}

// SendCertificateIssued notifies a learner that their certificate is ready.
// Fire-and-forget: issuance never waits on or fails because of email.
func (m *Mailer) SendCertificateIssued(email, name, programTitle, certificateNumber string) {
	subject := "Certificate Issued: " + programTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have completed <strong>%s</strong>.</p>
		<p>Your certificate number is <strong>%s</strong>. You can download it from your dashboard.</p>
	`, name, programTitle, certificateNumber)

	go m.Send([]string{email}, subject, emailTemplate("Certificate Issued", body))
}

// SendCertificateExpiryReminder warns a learner about an upcoming expiry.
func (m *Mailer) SendCertificateExpiryReminder(email, name, programTitle string, expiresAt time.Time) {
	subject := "Certificate Expiring Soon: " + programTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certificate for <strong>%s</strong> expires on <strong>%s</strong>.</p>
		<p>Please review the program's renewal requirements to stay certified.</p>
	`, name, programTitle, expiresAt.Format("January 2, 2006"))

	go m.Send([]string{email}, subject, emailTemplate("Certificate Expiring Soon", body))
}

func emailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1D3557; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1D3557; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>TRAINHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message from TrainHub.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
