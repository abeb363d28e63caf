package services

import (
	"context"
	"fmt"
	"html"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/resend/resend-go/v2"
	"gopkg.in/gomail.v2"

	"luxera/internal/config"
	"luxera/internal/logger"
)

// Mailer sends one HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NewMailer picks the provider named in cfg.
func NewMailer(ctx context.Context, cfg config.EmailConfig, log *logger.Logger) (Mailer, error) {
	from := (&mail.Address{Name: cfg.FromName, Address: cfg.FromEmail}).String()
	switch cfg.Provider {
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, from), nil
	case "resend":
		return NewResendMailer(cfg.ResendAPIKey, from), nil
	case "ses":
		return NewSESMailer(ctx, cfg.SESRegion, from)
	case "dry-run", "":
		return NewDryRunMailer(log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(smtpHost string, smtpPort int, smtpUser, smtpPassword, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:   from,
	}
}

// Send dials per message. gomail has no context support, so the dial runs
// in a goroutine and ctx only bounds how long we wait for it.
func (s *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}
	if _, err := s.client.Emails.SendWithOptions(ctx, params, &resend.SendEmailOptions{}); err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}

type SESMailer struct {
	client *ses.Client
	from   string
}

func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (s *SESMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	input := &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
			},
		},
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

// DryRunMailer logs the recipient and subject only.
type DryRunMailer struct {
	log *logger.Logger
}

func NewDryRunMailer(log *logger.Logger) *DryRunMailer {
	if log == nil {
		log = logger.Nop()
	}
	return &DryRunMailer{log: log.Component("mail")}
}

func (s *DryRunMailer) Send(_ context.Context, to, subject, _ string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Msg("[mail][dry-run] message not sent")
	return nil
}

func welcomeEmail(brand, name string) (subject, body string) {
	subject = fmt.Sprintf("Welcome to %s!", brand)
	body = fmt.Sprintf(`
		<h2>Welcome to %s, %s!</h2>
		<p>Thank you for registering with us. Your account has been successfully created.</p>
		<p>Best regards,<br>%s Store Support</p>
	`, html.EscapeString(brand), html.EscapeString(name), html.EscapeString(brand))
	return subject, body
}
