package services

import (
	"context"
	"fmt"
	"html"
)

// CodeSender delivers a one-time code to a destination (an email address or
// an E.164 number). It must honour ctx cancellation.
type CodeSender interface {
	SendCode(ctx context.Context, destination, code string) error
}

// EmailCodeSender renders the reset email and hands it to a Mailer.
type EmailCodeSender struct {
	mailer Mailer
	brand  string
}

func NewEmailCodeSender(mailer Mailer, brand string) *EmailCodeSender {
	return &EmailCodeSender{mailer: mailer, brand: brand}
}

func (s *EmailCodeSender) SendCode(ctx context.Context, to, code string) error {
	subject := fmt.Sprintf("Your %s Password Reset Code", s.brand)
	body := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;font-size:14px;color:#222">
			<h2>%s password reset</h2>
			<p>We received a request to reset the password for your account.</p>
			<p>Your verification code is:</p>
			<p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p>
			<p>This code is valid for <strong>10 minutes</strong>.</p>
			<p>If you did not request a password reset, you can ignore this email.</p>
		</div>
	`, html.EscapeString(s.brand), html.EscapeString(code))
	return s.mailer.Send(ctx, to, subject, body)
}

// SMSCodeSender formats the reset text for an SMSSender.
type SMSCodeSender struct {
	sms   SMSSender
	brand string
}

func NewSMSCodeSender(sms SMSSender, brand string) *SMSCodeSender {
	return &SMSCodeSender{sms: sms, brand: brand}
}

func (s *SMSCodeSender) SendCode(ctx context.Context, to, code string) error {
	text := fmt.Sprintf("Your %s verification code is: %s. It will expire in 10 minutes.", s.brand, code)
	return s.sms.Send(ctx, to, text)
}
