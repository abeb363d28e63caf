package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"luxera/internal/models"
	"luxera/internal/repositories"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	// tokens are validated against the wall clock, so start from it
	return &fakeClock{t: time.Now().UTC().Truncate(time.Second)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// ===== users =====

type memUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]*models.User{}}
}

func (r *memUserRepo) add(u models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	if u.Role == "" {
		u.Role = "member"
	}
	r.users[u.ID] = &u
	cp := u
	return &cp
}

func (r *memUserRepo) get(id int64) models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.users[id]
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
		if u.Phone == user.Phone {
			return repositories.ErrDuplicatePhone
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *memUserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Phone == phone })
}

func (r *memUserRepo) List(_ context.Context, f models.UserFilter) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Deleted != nil && u.IsDeleted != *f.Deleted {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) update(id int64, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(u)
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID int64, hash string) error {
	return r.update(userID, func(u *models.User) { u.PasswordHash = hash })
}

func (r *memUserRepo) SetRole(_ context.Context, userID int64, role string) error {
	return r.update(userID, func(u *models.User) { u.Role = role })
}

func (r *memUserRepo) SetDeleted(_ context.Context, userID int64, deleted bool) error {
	return r.update(userID, func(u *models.User) { u.IsDeleted = deleted })
}

func (r *memUserRepo) UpdateRefresh(_ context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	return r.update(userID, func(u *models.User) {
		u.RefreshToken = &tokenHash
		u.RefreshExpiresAt = &expiresAt
		u.RefreshRevoked = false
	})
}

func (r *memUserRepo) RotateRefresh(_ context.Context, oldHash, newHash string, newExpiresAt, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken == nil || *u.RefreshToken != oldHash || u.RefreshRevoked || u.IsDeleted {
			continue
		}
		if u.RefreshExpiresAt == nil || !u.RefreshExpiresAt.After(now) {
			continue
		}
		u.RefreshToken = &newHash
		u.RefreshExpiresAt = &newExpiresAt
		cp := *u
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) ClearRefresh(_ context.Context, userID int64) error {
	return r.update(userID, func(u *models.User) {
		u.RefreshToken = nil
		u.RefreshExpiresAt = nil
		u.RefreshRevoked = true
	})
}

// ===== password resets =====

type memResetRepo struct {
	mu     sync.Mutex
	rows   []*models.PasswordReset
	nextID int64
	users  *memUserRepo
}

func newMemResetRepo(users *memUserRepo) *memResetRepo {
	return &memResetRepo{users: users}
}

func (r *memResetRepo) all() []models.PasswordReset {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PasswordReset, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, *p)
	}
	return out
}

func (r *memResetRepo) latest(userID int64, method models.ResetMethod, unusedOnly bool) *models.PasswordReset {
	var best *models.PasswordReset
	for _, p := range r.rows {
		if p.UserID != userID || p.Method != method || (unusedOnly && p.UsedAt != nil) {
			continue
		}
		if best == nil || p.CreatedAt.After(best.CreatedAt) || (p.CreatedAt.Equal(best.CreatedAt) && p.ID > best.ID) {
			best = p
		}
	}
	return best
}

func (r *memResetRepo) IssueIfCooledDown(_ context.Context, userID int64, method models.ResetMethod, tokenHash string, now, expiresAt time.Time, cooldown time.Duration) (*models.PasswordReset, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if last := r.latest(userID, method, false); last != nil && now.Sub(last.CreatedAt) < cooldown {
		return nil, false, nil
	}
	r.nextID++
	p := &models.PasswordReset{
		ID:        r.nextID,
		UserID:    userID,
		Method:    method,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	r.rows = append(r.rows, p)
	cp := *p
	return &cp, true, nil
}

func (r *memResetRepo) GetLatestUnused(_ context.Context, userID int64, method models.ResetMethod) (*models.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.latest(userID, method, true)
	if p == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memResetRepo) MarkVerified(_ context.Context, id int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id && p.VerifiedAt == nil && p.UsedAt == nil {
			t := now
			p.VerifiedAt = &t
			return true, nil
		}
	}
	return false, nil
}

func (r *memResetRepo) GetPinned(_ context.Context, id, userID int64, method models.ResetMethod) (*models.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id && p.UserID == userID && p.Method == method {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memResetRepo) CompleteReset(ctx context.Context, resetID, userID int64, method models.ResetMethod, passwordHash string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID != resetID || p.UserID != userID || p.Method != method {
			continue
		}
		if p.IsUsed() || p.IsExpired(now) {
			return repositories.ErrResetUnavailable
		}
		if err := r.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
			return err
		}
		t := now
		p.UsedAt = &t
		return nil
	}
	return repositories.ErrResetUnavailable
}

func (r *memResetRepo) DeleteExpiredUnused(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	var n int64
	for _, p := range r.rows {
		if p.UsedAt == nil && p.ExpiresAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, p)
	}
	r.rows = kept
	return n, nil
}

func (r *memResetRepo) ListAudit(_ context.Context, f models.ResetAuditFilter) ([]models.ResetAuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ResetAuditEntry
	for _, p := range r.rows {
		if f.UserID > 0 && p.UserID != f.UserID {
			continue
		}
		if f.Method != "" && p.Method != f.Method {
			continue
		}
		email := ""
		if u, err := r.users.GetByID(context.Background(), p.UserID); err == nil {
			email = u.Email
		}
		out = append(out, models.ResetAuditEntry{
			ID: p.ID, UserID: p.UserID, Email: email, Method: p.Method,
			CreatedAt: p.CreatedAt, ExpiresAt: p.ExpiresAt, VerifiedAt: p.VerifiedAt, UsedAt: p.UsedAt,
		})
	}
	return out, nil
}

// ===== collaborators =====

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendCode(ctx context.Context, dest, code string) error {
	args := m.Called(ctx, dest, code)
	return args.Error(0)
}

type senderFunc func(ctx context.Context, dest, code string) error

func (f senderFunc) SendCode(ctx context.Context, dest, code string) error { return f(ctx, dest, code) }

type recordingAlerter struct {
	mu        sync.Mutex
	failed    []int64
	completed []int64
}

func (a *recordingAlerter) DeliveryFailed(_ context.Context, userID int64, _ models.ResetMethod, _ error) {
	a.mu.Lock()
	a.failed = append(a.failed, userID)
	a.mu.Unlock()
}

func (a *recordingAlerter) ResetCompleted(_ context.Context, userID int64, _ models.ResetMethod) {
	a.mu.Lock()
	a.completed = append(a.completed, userID)
	a.mu.Unlock()
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	to, subject, body string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
