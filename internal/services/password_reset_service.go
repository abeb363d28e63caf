package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"luxera/internal/logger"
	"luxera/internal/models"
	"luxera/internal/repositories"
	"luxera/internal/utils"
)

// PasswordResetService drives the three reset steps. Every call takes the
// session's current ResetState (where relevant) and returns the state the
// session must hold afterwards, on success and on failure.
type PasswordResetService interface {
	RequestReset(ctx context.Context, req models.ForgotPasswordRequest) (models.ResetState, error)
	VerifyCode(ctx context.Context, state models.ResetState, req models.VerifyCodeRequest) (models.ResetState, error)
	CommitPassword(ctx context.Context, state models.ResetState, req models.NewPasswordRequest) (models.ResetState, error)
}

type ResetOptions struct {
	Cooldown           time.Duration
	CodeTTL            time.Duration
	DeliveryTimeout    time.Duration
	CodePepper         string
	DefaultCountryCode string
	// ConcealUnknownAccounts answers unknown emails/phones exactly like
	// known ones instead of returning ErrAccountNotFound.
	ConcealUnknownAccounts bool
}

// CodeSenders holds one delivery channel per reset method.
type CodeSenders struct {
	Email CodeSender
	SMS   CodeSender
}

type passwordResetService struct {
	users   repositories.UserRepository
	resets  repositories.PasswordResetRepository
	auth    AuthService
	senders CodeSenders
	alerts  Alerter
	opts    ResetOptions
	log     *logger.Logger

	now     func() time.Time
	newCode func() (string, error)
}

func NewPasswordResetService(
	users repositories.UserRepository,
	resets repositories.PasswordResetRepository,
	auth AuthService,
	senders CodeSenders,
	alerts Alerter,
	opts ResetOptions,
	log *logger.Logger,
) PasswordResetService {
	if alerts == nil {
		alerts = NopAlerter{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.DefaultCountryCode == "" {
		opts.DefaultCountryCode = "+60"
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = 15 * time.Second
	}
	return &passwordResetService{
		users:   users,
		resets:  resets,
		auth:    auth,
		senders: senders,
		alerts:  alerts,
		opts:    opts,
		log:     log.Component("password-reset"),
		now:     time.Now,
		newCode: utils.GenerateOTP,
	}
}

func (s *passwordResetService) RequestReset(ctx context.Context, req models.ForgotPasswordRequest) (models.ResetState, error) {
	log := logger.Scoped(ctx, s.log, "password-reset")

	req.Method = strings.TrimSpace(req.Method)
	req.Email = utils.NormaliseEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	fe := fieldErrors{}
	if err := fe.check(req, forgotMessages); err != nil {
		return models.IdleReset(), err
	}
	if err := fe.err(); err != nil {
		return models.IdleReset(), err
	}
	method := models.ResetMethod(req.Method)

	var (
		user *models.User
		dest string
		err  error
	)
	switch method {
	case models.ResetMethodEmail:
		dest = req.Email
		if !utils.IsEmail(dest) {
			return models.IdleReset(), fieldError("email", "Invalid email")
		}
		user, err = s.users.GetByEmail(ctx, dest)
	case models.ResetMethodSMS:
		cc := strings.TrimSpace(req.CountryCode)
		if cc == "" {
			cc = s.opts.DefaultCountryCode
		}
		dest, err = utils.NormaliseE164(cc, req.Phone)
		if err != nil {
			return models.IdleReset(), fieldError("phone", "Invalid phone number")
		}
		user, err = s.users.GetByPhone(ctx, dest)
	}

	if errors.Is(err, repositories.ErrNotFound) {
		log.Info().Str("method", string(method)).Msg("[password-reset] no account for identifier")
		if s.opts.ConcealUnknownAccounts {
			return models.PendingReset(0, method), nil
		}
		return models.IdleReset(), accountNotFound(method)
	}
	if err != nil {
		return models.IdleReset(), fmt.Errorf("lookup account: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return models.IdleReset(), fmt.Errorf("generate code: %w", err)
	}
	now := s.now()
	pr, issued, err := s.resets.IssueIfCooledDown(ctx, user.ID, method,
		utils.HashOTP(code, s.opts.CodePepper), now, now.Add(s.opts.CodeTTL), s.opts.Cooldown)
	if err != nil {
		return models.IdleReset(), fmt.Errorf("issue reset code: %w", err)
	}
	if !issued {
		// same answer as a fresh send; nothing is re-delivered
		log.Info().Int64("user_id", user.ID).Str("method", string(method)).Msg("[password-reset] cooldown active, code not re-sent")
		return models.PendingReset(user.ID, method), nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.opts.DeliveryTimeout)
	defer cancel()
	if err := s.sender(method).SendCode(sendCtx, dest, code); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Int64("reset_id", pr.ID).
			Str("method", string(method)).Msg("[password-reset] code delivery failed")
		s.alerts.DeliveryFailed(ctx, user.ID, method, err)
		return models.IdleReset(), fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	log.Info().Int64("user_id", user.ID).Int64("reset_id", pr.ID).Str("method", string(method)).Msg("[password-reset] code sent")
	return models.PendingReset(user.ID, method), nil
}

func (s *passwordResetService) VerifyCode(ctx context.Context, state models.ResetState, req models.VerifyCodeRequest) (models.ResetState, error) {
	userID, method, ok := state.Pending()
	if !ok {
		return models.IdleReset(), ErrNoPendingReset
	}

	code := strings.TrimSpace(req.Code)
	fe := fieldErrors{}
	if err := fe.check(models.VerifyCodeRequest{Code: code}, verifyMessages); err != nil {
		return state, err
	}
	if err := fe.err(); err != nil {
		return state, err
	}
	if userID == 0 {
		// concealed lookup: nothing can ever match
		return state, ErrInvalidOrExpiredCode
	}

	pr, err := s.resets.GetLatestUnused(ctx, userID, method)
	if errors.Is(err, repositories.ErrNotFound) {
		return state, ErrInvalidOrExpiredCode
	}
	if err != nil {
		return state, fmt.Errorf("load reset code: %w", err)
	}

	now := s.now()
	if pr.IsExpired(now) {
		return state, ErrExpiredCode
	}
	if pr.VerifiedAt != nil || !utils.VerifyOTP(code, s.opts.CodePepper, pr.TokenHash) {
		return state, ErrInvalidOrExpiredCode
	}

	marked, err := s.resets.MarkVerified(ctx, pr.ID, now)
	if err != nil {
		return state, fmt.Errorf("mark verified: %w", err)
	}
	if !marked {
		return state, ErrInvalidOrExpiredCode
	}

	logger.Scoped(ctx, s.log, "password-reset").Info().Int64("user_id", userID).Int64("reset_id", pr.ID).Msg("[password-reset] code verified")
	return models.VerifiedReset(userID, pr.ID, method), nil
}

func (s *passwordResetService) CommitPassword(ctx context.Context, state models.ResetState, req models.NewPasswordRequest) (models.ResetState, error) {
	userID, resetID, method, ok := state.Verified()
	if !ok {
		return models.IdleReset(), ErrNoPendingReset
	}

	fe := fieldErrors{}
	if err := fe.check(req, newPasswordMessages); err != nil {
		return state, err
	}
	if err := fe.err(); err != nil {
		return state, err
	}
	if req.NewPassword != req.ConfirmPassword {
		return state, &ValidationError{
			Fields: map[string]string{"confirm_password": "Passwords do not match"},
			Cause:  ErrPasswordMismatch,
		}
	}

	pr, err := s.resets.GetPinned(ctx, resetID, userID, method)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.IdleReset(), ErrResetExpiredOrUsed
	}
	if err != nil {
		return state, fmt.Errorf("load pinned reset: %w", err)
	}
	now := s.now()
	if pr.IsUsed() || pr.IsExpired(now) {
		return models.IdleReset(), ErrResetExpiredOrUsed
	}

	hash, err := s.auth.HashPassword(req.NewPassword)
	if err != nil {
		return state, fmt.Errorf("hash password: %w", err)
	}
	err = s.resets.CompleteReset(ctx, resetID, userID, method, hash, now)
	if errors.Is(err, repositories.ErrResetUnavailable) {
		return models.IdleReset(), ErrResetExpiredOrUsed
	}
	if err != nil {
		return state, fmt.Errorf("complete reset: %w", err)
	}

	logger.Scoped(ctx, s.log, "password-reset").Info().Int64("user_id", userID).Int64("reset_id", resetID).Msg("[password-reset] password updated")
	s.alerts.ResetCompleted(ctx, userID, method)
	return models.IdleReset(), nil
}

func (s *passwordResetService) sender(m models.ResetMethod) CodeSender {
	if m == models.ResetMethodSMS {
		return s.senders.SMS
	}
	return s.senders.Email
}

func accountNotFound(m models.ResetMethod) *ValidationError {
	if m == models.ResetMethodSMS {
		return &ValidationError{
			Fields: map[string]string{"phone": "No account found with this phone number."},
			Cause:  ErrAccountNotFound,
		}
	}
	return &ValidationError{
		Fields: map[string]string{"email": "No account found with this email address."},
		Cause:  ErrAccountNotFound,
	}
}
