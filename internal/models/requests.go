package models

// Form and JSON bodies accepted by the auth and reset endpoints. Field names
// follow the storefront's form inputs. `validate` tags are checked by the
// services after trimming, so messages stay per field.

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type RegisterRequest struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Email       string `json:"email" form:"email" validate:"required,mailbox"`
	CountryCode string `json:"country_code" form:"country_code"`
	Phone       string `json:"phone_number" form:"phone_number" validate:"required"`
	// strength rules are applied separately
	Password string `json:"password" form:"password" validate:"maxbytes=72"`
	Confirm  string `json:"confirm" form:"confirm" validate:"required,eqfield=Password"`
	Gender   string `json:"gender" form:"gender" validate:"oneof=Male Female"`
}

type ReactivateRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"maxbytes=72"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

// ForgotPasswordRequest starts a reset. Email is used for the email method,
// CountryCode+Phone for sms.
type ForgotPasswordRequest struct {
	Method      string `json:"reset_method" form:"reset_method" validate:"oneof=email sms"`
	Email       string `json:"email" form:"email" validate:"required_if=Method email"`
	CountryCode string `json:"country_code" form:"country_code"`
	Phone       string `json:"phone" form:"phone" validate:"required_if=Method sms"`
}

type VerifyCodeRequest struct {
	Code string `json:"otp" form:"otp" validate:"required"`
}

type NewPasswordRequest struct {
	NewPassword     string `json:"new_password" form:"new_password" validate:"required,notblank,min=8,maxbytes=72"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}
