package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"converge-backend/internal/models"

	"github.com/labstack/echo/v4"
	resend "github.com/resend/resend-go/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var ErrNotConfigured = errors.New("email client not configured")

const LocationCreatedSubject = "A new location has been added"

// EmailClient sends notification mails. Calls block until the provider
// answers or the context ends, and are never retried.
type EmailClient interface {
	SendLocationCreated(ctx context.Context, admin *models.User, location *models.Location) error
}

// ResendEmailClient implements EmailClient using the Resend service
type ResendEmailClient struct {
	client        *resend.Client
	defaultSender string
	timeout       time.Duration
	logger        echo.Logger
}

// NewResendEmailClient creates a new ResendEmailClient
func NewResendEmailClient(client *resend.Client, defaultSender string, timeout time.Duration, logger echo.Logger) *ResendEmailClient {
	return &ResendEmailClient{
		client:        client,
		defaultSender: defaultSender,
		timeout:       timeout,
		logger:        logger,
	}
}

// Send delivers one HTML mail, bounded by ctx and the client timeout
func (c *ResendEmailClient) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	if c == nil || c.client == nil {
		return ErrNotConfigured
	}

	if c.defaultSender == "" {
		return fmt.Errorf("%w: default sender missing", ErrNotConfigured)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := &resend.SendEmailRequest{
		From:    c.defaultSender,
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlBody,
	}

	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		c.logger.Errorf("Failed to send email to %s (Subject: %s): %v", toEmail, subject, err)
		return err
	}
	c.logger.Infof("Email sent successfully to %s (Subject: %s)", toEmail, subject)
	return nil
}

type locationCreatedData struct {
	UserName     string
	LocationName string
}

// RenderLocationCreated renders the body of the location created mail
func RenderLocationCreated(userName, locationName string) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "location_success.html", locationCreatedData{
		UserName:     userName,
		LocationName: locationName,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendLocationCreated tells the admin who created a location that it exists
func (c *ResendEmailClient) SendLocationCreated(ctx context.Context, admin *models.User, location *models.Location) error {
	if admin == nil || location == nil {
		return errors.New("cannot send location email without admin and location")
	}

	htmlBody, err := RenderLocationCreated(admin.GreetingName(), location.Name)
	if err != nil {
		return fmt.Errorf("render location email: %w", err)
	}

	return c.Send(ctx, admin.Email, LocationCreatedSubject, htmlBody)
}
