package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"luxera/internal/config"
	"luxera/internal/logger"
)

// SMSSender sends one text message to an E.164 number.
type SMSSender interface {
	Send(ctx context.Context, to, text string) error
}

func NewSMSSender(cfg config.SMSConfig, timeout time.Duration, log *logger.Logger) (SMSSender, error) {
	switch cfg.Provider {
	case "twilio":
		return NewTwilioSMS(cfg.TwilioBaseURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, timeout), nil
	case "mobizon":
		return NewMobizonSMS(cfg.MobizonBaseURL, cfg.MobizonAPIKey, cfg.MobizonSender, timeout), nil
	case "dry-run", "":
		return NewDryRunSMS(log), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.Provider)
	}
}

// TwilioSMS talks to the Twilio Messages REST API.
type TwilioSMS struct {
	client     *resty.Client
	accountSID string
	from       string
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func NewTwilioSMS(baseURL, accountSID, authToken, from string, timeout time.Duration) *TwilioSMS {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(accountSID, authToken).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &TwilioSMS{client: client, accountSID: accountSID, from: from}
}

func (s *TwilioSMS) Send(ctx context.Context, to, text string) error {
	var apiErr twilioError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   to,
			"From": s.from,
			"Body": text,
		}).
		SetError(&apiErr).
		SetPathParam("sid", s.accountSID).
		Post("/Accounts/{sid}/Messages.json")
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio returned status %d: code=%d %s", resp.StatusCode(), apiErr.Code, apiErr.Message)
	}
	return nil
}

// MobizonSMS sends through the Mobizon gateway (KZ/UZ numbers).
type MobizonSMS struct {
	client *resty.Client
	apiKey string
	sender string // опционально, Sender ID
}

type mobizonResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewMobizonSMS(baseURL, apiKey, sender string, timeout time.Duration) *MobizonSMS {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &MobizonSMS{client: client, apiKey: apiKey, sender: sender}
}

func (s *MobizonSMS) Send(ctx context.Context, to, text string) error {
	form := map[string]string{
		"recipient": strings.TrimPrefix(to, "+"),
		"text":      text,
	}
	if s.sender != "" {
		form["from"] = s.sender
	}
	var out mobizonResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("apiKey", s.apiKey).
		SetFormData(form).
		SetResult(&out).
		Post("/service/message/sendsmsmessage")
	if err != nil {
		return fmt.Errorf("mobizon request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mobizon returned status %d", resp.StatusCode())
	}
	// Mobizon отвечает 200 даже при ошибке, смотрим на code
	if out.Code != 0 {
		return fmt.Errorf("mobizon returned error code %d: %s", out.Code, out.Message)
	}
	return nil
}

type DryRunSMS struct {
	log *logger.Logger
}

func NewDryRunSMS(log *logger.Logger) *DryRunSMS {
	if log == nil {
		log = logger.Nop()
	}
	return &DryRunSMS{log: log.Component("sms")}
}

func (s *DryRunSMS) Send(_ context.Context, to, _ string) error {
	s.log.Info().Str("to", maskPhone(to)).Msg("[sms][dry-run] message not sent")
	return nil
}

// maskPhone keeps the last four digits.
func maskPhone(p string) string {
	if len(p) <= 4 {
		return "****"
	}
	return "****" + p[len(p)-4:]
}
