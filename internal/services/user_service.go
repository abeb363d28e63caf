package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"luxera/internal/authz"
	"luxera/internal/logger"
	"luxera/internal/models"
	"luxera/internal/repositories"
	"luxera/internal/utils"
)

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, *models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Reactivate(ctx context.Context, req models.ReactivateRequest) (*models.User, *models.TokenPair, error)
	ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error

	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, f models.UserFilter) ([]*models.User, error)
	BlockUser(ctx context.Context, id int64) error
	UnblockUser(ctx context.Context, id int64) error
	DeleteUser(ctx context.Context, id int64) error
	RestoreUser(ctx context.Context, id int64) error
}

type TokenOptions struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type userService struct {
	repo   repositories.UserRepository
	auth   AuthService
	mailer Mailer
	tokens TokenOptions
	opts   UserOptions
	log    *logger.Logger
	now    func() time.Time
}

type UserOptions struct {
	Brand              string
	DefaultCountryCode string
}

func NewUserService(
	repo repositories.UserRepository,
	auth AuthService,
	mailer Mailer,
	tokens TokenOptions,
	opts UserOptions,
	log *logger.Logger,
) UserService {
	if log == nil {
		log = logger.Nop()
	}
	if opts.DefaultCountryCode == "" {
		opts.DefaultCountryCode = "+60"
	}
	return &userService{
		repo:   repo,
		auth:   auth,
		mailer: mailer,
		tokens: tokens,
		opts:   opts,
		log:    log.Component("users"),
		now:    time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	fe := fieldErrors{}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = utils.NormaliseEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Gender = strings.TrimSpace(req.Gender)
	if err := fe.check(req, registerMessages); err != nil {
		return nil, err
	}

	var phone string
	if !fe.has("phone_number") {
		cc := strings.TrimSpace(req.CountryCode)
		if cc == "" {
			cc = s.opts.DefaultCountryCode
		}
		p, err := utils.NormaliseE164(cc, req.Phone)
		if err != nil {
			fe.add("phone_number", "Invalid phone number")
		}
		phone = p
	}
	if !fe.has("password") {
		if v := utils.PasswordPolicyViolations(req.Password); len(v) > 0 {
			fe.add("password", strings.Join(v, ", "))
		}
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:     req.Name,
		Email:        req.Email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         authz.RoleMember,
		Gender:       req.Gender,
	}
	switch err := s.repo.Create(ctx, user); {
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return nil, &ValidationError{Fields: map[string]string{"email": "Email already registered"}, Cause: ErrEmailTaken}
	case errors.Is(err, repositories.ErrDuplicatePhone):
		return nil, &ValidationError{Fields: map[string]string{"phone_number": "Phone number already registered"}, Cause: ErrPhoneTaken}
	case err != nil:
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.mailer != nil {
		subject, body := welcomeEmail(s.opts.Brand, user.Username)
		mailCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := s.mailer.Send(mailCtx, user.Email, subject, body); err != nil {
			// warn but do not fail creation
			logger.Scoped(ctx, s.log, "users").Warn().Err(err).Int64("user_id", user.ID).Msg("[users] welcome email failed")
		}
		cancel()
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*models.User, *models.TokenPair, error) {
	log := logger.Scoped(ctx, s.log, "users")

	user, err := s.repo.GetByEmail(ctx, utils.NormaliseEmail(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	// deactivated accounts go through /auth/reactivate
	if user.IsDeleted {
		return nil, nil, ErrInvalidCredentials
	}

	ok, needsRehash := s.auth.CheckPassword(user.PasswordHash, req.Password)
	if !ok {
		log.Info().Int64("user_id", user.ID).Msg("[auth][login] password mismatch")
		return nil, nil, ErrInvalidCredentials
	}
	if user.Role == authz.RoleBlocked {
		return nil, nil, ErrAccountBlocked
	}
	if needsRehash {
		s.rehash(ctx, user, req.Password)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("[auth][login] success")
	return user, pair, nil
}

func (s *userService) rehash(ctx context.Context, user *models.User, plain string) {
	hash, err := s.auth.HashPassword(plain)
	if err == nil {
		err = s.repo.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		logger.Scoped(ctx, s.log, "users").Warn().Err(err).Int64("user_id", user.ID).Msg("[auth] legacy hash upgrade failed")
		return
	}
	user.PasswordHash = hash
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	old := strings.TrimSpace(refreshToken)
	if old == "" {
		return nil, ErrInvalidRefreshToken
	}
	newRT, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, fmt.Errorf("new refresh token: %w", err)
	}
	now := s.now()
	exp := now.Add(s.tokens.RefreshTTL)

	user, err := s.repo.RotateRefresh(ctx, utils.HashRefreshToken(old), utils.HashRefreshToken(newRT), exp, now)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, fmt.Errorf("rotate refresh: %w", err)
	}
	if user.Role == authz.RoleBlocked {
		_ = s.repo.ClearRefresh(ctx, user.ID)
		return nil, ErrAccountBlocked
	}

	access, accessExp, err := utils.IssueAccessToken(s.tokens.Secret, user.ID, user.Role, s.tokens.AccessTTL, now)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &models.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     newRT,
		RefreshExpiresAt: exp,
	}, nil
}

func (s *userService) Reactivate(ctx context.Context, req models.ReactivateRequest) (*models.User, *models.TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, utils.NormaliseEmail(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	ok, needsRehash := s.auth.CheckPassword(user.PasswordHash, req.Password)
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}
	if user.Role == authz.RoleBlocked {
		return nil, nil, ErrAccountBlocked
	}
	if !user.IsDeleted {
		return nil, nil, ErrAlreadyActive
	}

	if err := s.repo.SetDeleted(ctx, user.ID, false); err != nil {
		return nil, nil, fmt.Errorf("reactivate: %w", err)
	}
	user.IsDeleted = false
	if needsRehash {
		s.rehash(ctx, user, req.Password)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	logger.Scoped(ctx, s.log, "users").Info().Int64("user_id", user.ID).Msg("[auth] account reactivated")
	return user, pair, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error {
	fe := fieldErrors{}
	if err := fe.check(req, changePasswordMessages); err != nil {
		return err
	}
	if !fe.has("new_password") {
		if v := utils.PasswordPolicyViolations(req.NewPassword); len(v) > 0 {
			fe.add("new_password", strings.Join(v, ", "))
		}
	}
	if err := fe.err(); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return &ValidationError{Fields: map[string]string{"confirm_password": "Passwords do not match"}, Cause: ErrPasswordMismatch}
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if ok, _ := s.auth.CheckPassword(user.PasswordHash, req.CurrentPassword); !ok {
		return fieldError("current_password", "Current password is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return fieldError("new_password", "New password must be different from current password")
	}

	hash, err := s.auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *userService) issueTokens(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	now := s.now()
	access, accessExp, err := utils.IssueAccessToken(s.tokens.Secret, user.ID, user.Role, s.tokens.AccessTTL, now)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, fmt.Errorf("new refresh token: %w", err)
	}
	rtExp := now.Add(s.tokens.RefreshTTL)
	if err := s.repo.UpdateRefresh(ctx, user.ID, utils.HashRefreshToken(rt), rtExp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &models.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     rt,
		RefreshExpiresAt: rtExp,
	}, nil
}

// ===== admin =====

func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *userService) ListUsers(ctx context.Context, f models.UserFilter) ([]*models.User, error) {
	return s.repo.List(ctx, f)
}

func (s *userService) BlockUser(ctx context.Context, id int64) error {
	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == authz.RoleAdmin {
		return fieldError("id", "Admin accounts cannot be blocked")
	}
	if err := s.repo.SetRole(ctx, id, authz.RoleBlocked); err != nil {
		return notFoundAs(err)
	}
	return s.repo.ClearRefresh(ctx, id)
}

func (s *userService) UnblockUser(ctx context.Context, id int64) error {
	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role != authz.RoleBlocked {
		return nil
	}
	return notFoundAs(s.repo.SetRole(ctx, id, authz.RoleMember))
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.SetDeleted(ctx, id, true); err != nil {
		return notFoundAs(err)
	}
	return s.repo.ClearRefresh(ctx, id)
}

func (s *userService) RestoreUser(ctx context.Context, id int64) error {
	return notFoundAs(s.repo.SetDeleted(ctx, id, false))
}

func notFoundAs(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
