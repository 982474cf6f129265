package email

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/campusdesk/campusdesk/internal/app/models"
)

// EmailService defines the interface for outbound email operations.
// Every send is best-effort from the caller's point of view: callers log and
// discard the returned error, they never retry or surface it to the client.
type EmailService interface {
	SendIssueReported(toEmail string, issue *models.Issue) error
	SendStatusUpdated(toEmail, toName string, issue *models.Issue, comment string) error
	SendPasswordResetCode(toEmail, toName, code string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	ClientURL string // Base URL of the web client, used in email links
}

// smtpEmailService implements EmailService over SMTP via gomail
type smtpEmailService struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &smtpEmailService{
		config: config,
		logger: logger,
	}
}

// SendIssueReported notifies a category's department contact about a new issue
func (s *smtpEmailService) SendIssueReported(toEmail string, issue *models.Issue) error {
	subject := fmt.Sprintf("New Issue Reported: %s", issue.Title)
	body := fmt.Sprintf(`
		<h3>New Issue Reported</h3>
		<p><strong>Issue #%d:</strong> %s</p>
		<p><strong>Location:</strong> %s</p>
		<p><strong>Description:</strong> %s</p>
		<br>
		<a href="%s/admin">View Dashboard</a>
	`, issue.IssueNumber, issue.Title, issue.Location, issue.Description, s.config.ClientURL)

	return s.send(toEmail, subject, body)
}

// SendStatusUpdated notifies an issue's creator about a status transition
func (s *smtpEmailService) SendStatusUpdated(toEmail, toName string, issue *models.Issue, comment string) error {
	if comment == "" {
		comment = "No additional comments."
	}
	subject := fmt.Sprintf("Issue #%d Status Updated: %s", issue.IssueNumber, issue.Status)
	body := fmt.Sprintf(`
		<h3>Issue Status Update</h3>
		<p>Hello %s,</p>
		<p>Your issue <strong>%s</strong> has been updated.</p>
		<p><strong>New Status:</strong> %s</p>
		<p><strong>Comment:</strong> %s</p>
		<br>
		<a href="%s/dashboard">View Dashboard</a>
	`, toName, issue.Title, issue.Status, comment, s.config.ClientURL)

	return s.send(toEmail, subject, body)
}

// SendPasswordResetCode emails a time-boxed numeric reset code
func (s *smtpEmailService) SendPasswordResetCode(toEmail, toName, code string) error {
	subject := "Password Reset Code - CampusDesk"
	body := fmt.Sprintf(`
		<h1>Password Reset Request</h1>
		<p>Hello %s,</p>
		<p>You requested a password reset. Your verification code is:</p>
		<h2 style="letter-spacing: 5px;">%s</h2>
		<p>This code will expire in 10 minutes.</p>
		<p>If you did not request this, please ignore this email.</p>
	`, toName, code)

	return s.send(toEmail, subject, body)
}

// send delivers a single HTML email over SMTP
func (s *smtpEmailService) send(toEmail, subject, htmlBody string) error {
	// Without SMTP credentials log the mail instead of sending it, so local
	// development works without a mail server.
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)
	if err := d.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
