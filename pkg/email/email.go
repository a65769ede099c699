package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"go-profile-backend/config"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host        string
	port        string
	username    string
	password    string
	fromEmail   string
	frontendURL string
}

// ResetEmailData holds the data for password reset emails
type ResetEmailData struct {
	Email    string
	Token    string
	ResetURL string
	TTL      string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		fromEmail:   cfg.SMTPFromEmail,
		frontendURL: cfg.FrontendURL,
	}
}

// resetEmailTemplate is the HTML template for password reset emails
const resetEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Password Reset</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .button { display: inline-block; background: #0066cc; color: white; padding: 12px 24px; text-decoration: none; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Password Reset Requested</h1>
        </div>
        <div class="content">
            <p>A password reset was requested for {{.Email}}.</p>
            <p>Use the link below within {{.TTL}} to choose a new password. If you did not request this, you can ignore this email.</p>
            <a class="button" href="{{.ResetURL}}">Reset password</a>
        </div>
        <div class="footer">
            <p>This link can be used only once and expires after {{.TTL}}.</p>
        </div>
    </div>
</body>
</html>`

// IsConfigured reports whether SMTP credentials are present
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// SendResetEmail sends a password reset link to the account's email address
func (s *EmailService) SendResetEmail(data ResetEmailData) error {
	if data.ResetURL == "" {
		data.ResetURL = fmt.Sprintf("%s/forgetpassword?token=%s", s.frontendURL, data.Token)
	}

	tmpl, err := template.New("reset").Parse(resetEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Password Reset\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.fromEmail, data.Email, body.String()))

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{data.Email}, msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
