package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingDSN        = errors.New("database url is required")
	ErrMissingJWTSecret  = errors.New("auth jwt_secret is required")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrUnknownStore      = errors.New("unknown session store")
	ErrInvalidCountry    = errors.New("default country code must look like +60")
	ErrMissingCredential = errors.New("provider credentials are incomplete")
)

// Validate checks the merged configuration before it is used at startup.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, ErrMissingDSN)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}

	switch c.Session.Store {
	case "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStore, c.Session.Store))
	}

	durations := map[string]int64{
		"session.ttl":            int64(c.Session.TTL),
		"reset.cooldown":         int64(c.Reset.Cooldown),
		"reset.code_ttl":         int64(c.Reset.CodeTTL),
		"reset.delivery_timeout": int64(c.Reset.DeliveryTimeout),
		"auth.access_ttl":        int64(c.Auth.AccessTTL),
		"auth.refresh_ttl":       int64(c.Auth.RefreshTTL),
	}
	for name, d := range durations {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidDuration, name))
		}
	}
	if c.Reaper.Enabled && (c.Reaper.Interval <= 0 || c.Reaper.Retention <= 0) {
		errs = append(errs, fmt.Errorf("%w: reaper", ErrInvalidDuration))
	}

	if !strings.HasPrefix(c.Reset.DefaultCountryCode, "+") || len(c.Reset.DefaultCountryCode) < 2 {
		errs = append(errs, ErrInvalidCountry)
	}

	switch c.Email.Provider {
	case "dry-run":
	case "smtp":
		if c.Email.SMTPHost == "" || c.Email.FromEmail == "" {
			errs = append(errs, fmt.Errorf("%w: smtp", ErrMissingCredential))
		}
	case "resend":
		if c.Email.ResendAPIKey == "" || c.Email.FromEmail == "" {
			errs = append(errs, fmt.Errorf("%w: resend", ErrMissingCredential))
		}
	case "ses":
		if c.Email.SESRegion == "" || c.Email.FromEmail == "" {
			errs = append(errs, fmt.Errorf("%w: ses", ErrMissingCredential))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: email %q", ErrUnknownProvider, c.Email.Provider))
	}

	switch c.SMS.Provider {
	case "dry-run":
	case "twilio":
		if c.SMS.TwilioAccountSID == "" || c.SMS.TwilioAuthToken == "" || c.SMS.TwilioFrom == "" {
			errs = append(errs, fmt.Errorf("%w: twilio", ErrMissingCredential))
		}
	case "mobizon":
		if c.SMS.MobizonAPIKey == "" {
			errs = append(errs, fmt.Errorf("%w: mobizon", ErrMissingCredential))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: sms %q", ErrUnknownProvider, c.SMS.Provider))
	}

	return errors.Join(errs...)
}
