package services

import (
	"fmt"

	"luxera/internal/utils"
)

// formMessages maps "field.tag" to the message shown when that tag fails.
type formMessages map[string]string

var (
	forgotMessages = formMessages{
		"reset_method.oneof": "Please choose a reset method",
		"email.required_if":  "Email is required",
		"phone.required_if":  "Phone number is required",
	}
	verifyMessages = formMessages{
		"otp.required": "OTP is required",
	}
	newPasswordMessages = formMessages{
		"new_password.required":     "New password is required",
		"new_password.notblank":     "New password is required",
		"new_password.min":          "Password must be at least 8 characters",
		"new_password.maxbytes":     "Password must be at most 72 bytes",
		"confirm_password.required": "Please confirm your password",
	}
	registerMessages = formMessages{
		"name.required":         "Name is required",
		"email.required":        "Email is required",
		"email.mailbox":         "Invalid email",
		"phone_number.required": "Phone number is required",
		"password.maxbytes":     "Password must be at most 72 bytes",
		"confirm.required":      "Please confirm your password",
		"confirm.eqfield":       "Passwords do not match",
		"gender.oneof":          "Please select a gender",
	}
	changePasswordMessages = formMessages{
		"current_password.required": "Current password is required",
		"new_password.maxbytes":     "Password must be at most 72 bytes",
		"confirm_password.required": "Please confirm your password",
	}
)

// check runs the request's validate tags and records a message per failed field.
func (f fieldErrors) check(req any, msgs formMessages) error {
	failed, err := utils.FieldErrors(req)
	if err != nil {
		return fmt.Errorf("validate %T: %w", req, err)
	}
	for field, tag := range failed {
		msg, ok := msgs[field+"."+tag]
		if !ok {
			msg = "Invalid value"
		}
		f.add(field, msg)
	}
	return nil
}

func (f fieldErrors) has(field string) bool {
	_, ok := f[field]
	return ok
}
