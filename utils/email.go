package utils

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

type Mailer interface {
	SendSubscriptionActivated(ctx context.Context, toEmail, toName, planName string) error
}

// EmailService sends through SendGrid, or only logs when no API key is set.
type EmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	baseURL   string
}

func NewEmailService(apiKey, fromEmail, fromName, baseURL string) *EmailService {
	if apiKey == "" {
		logrus.Warn("SENDGRID_API_KEY not set, emails will only be logged")
	}
	return &EmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}
}

func (s *EmailService) SendSubscriptionActivated(ctx context.Context, toEmail, toName, planName string) error {
	subject, html, plain := buildSubscriptionActivatedEmail(toName, planName, s.baseURL)
	return s.send(ctx, toEmail, toName, subject, html, plain)
}

func (s *EmailService) send(ctx context.Context, toEmail, toName, subject, html, plain string) error {
	logger := logrus.WithFields(logrus.Fields{
		"to":      toEmail,
		"subject": subject,
	})

	if s.apiKey == "" {
		logger.Info("Email not sent (development mode)")
		return nil
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(toName, toEmail),
		plain,
		html,
	)

	response, err := sendgrid.NewSendClient(s.apiKey).SendWithContext(ctx, message)
	if err != nil {
		logger.Errorf("SendGrid error: %v", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		logger.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid returned error status: %d", response.StatusCode)
	}

	logger.Info("Email sent")
	return nil
}

func buildSubscriptionActivatedEmail(name, planName, baseURL string) (subject, html, plain string) {
	subject = fmt.Sprintf("Your SEOPilot %s subscription is activated", planName)
	html = fmt.Sprintf(`<p>Hi %s,</p>
<p>Thanks for subscribing to the <strong>%s</strong> plan. Your AI SEO workspace is ready.</p>
<p><a href="%s/workflow">Start your first analysis</a></p>
<p>The SEOPilot Team</p>`, name, planName, baseURL)
	plain = fmt.Sprintf("Hi %s,\n\nThanks for subscribing to the %s plan. Your AI SEO workspace is ready.\n\nStart your first analysis: %s/workflow\n\nThe SEOPilot Team\n", name, planName, baseURL)
	return subject, html, plain
}
