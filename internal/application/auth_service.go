package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hamrorooms/rooms-api/config"
	"github.com/hamrorooms/rooms-api/internal/domain/apperr"
	"github.com/hamrorooms/rooms-api/internal/domain/entity"
	repo "github.com/hamrorooms/rooms-api/internal/domain/repository"
	"github.com/hamrorooms/rooms-api/pkg/helpers"
	"github.com/hamrorooms/rooms-api/pkg/mailer"
	tpl "github.com/hamrorooms/rooms-api/pkg/mailer/templates"
)

// QueuePublisher enqueues best-effort notification mails. Satisfied by
// helpers.RabbitPublisher.
type QueuePublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService orchestrates registration, OTP verification, password
// reset, and login. OTP mails are dispatched synchronously because the
// caller must learn about delivery failure; notification mails go
// through the queue.
type AuthService struct {
	Users   repo.UserRepository
	Pending repo.PendingStore
	Mail    mailer.Sender
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Pub     QueuePublisher
	Logger  *logrus.Logger
	Cfg     *config.Config
}

func NewAuthService(users repo.UserRepository, pending repo.PendingStore, mail mailer.Sender, jwt *helpers.JWTManager, rdb *redis.Client, pub QueuePublisher, logger *logrus.Logger, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Pending: pending, Mail: mail, JWT: jwt, Redis: rdb, Pub: pub, Logger: logger, Cfg: cfg}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func (s *AuthService) emailData(name, email, code string, expires time.Time) tpl.EmailData {
	d := tpl.EmailData{
		Name:           name,
		Email:          email,
		Code:           code,
		CompanyName:    s.Cfg.CompanyName,
		LogoURL:        s.Cfg.LogoURL,
		SupportEmail:   s.Cfg.SupportEmail,
		UnsubscribeURL: s.Cfg.UnsubscribeURL,
	}
	if !expires.IsZero() {
		d = d.WithExpiry(expires)
	}
	return d
}

// sendOTPMail renders and dispatches an OTP mail synchronously.
func (s *AuthService) sendOTPMail(ctx context.Context, template string, data tpl.EmailData) error {
	if !s.Cfg.MailSendEnabled {
		s.Logger.WithField("to", data.Email).Debug("mail sending disabled, skipping OTP dispatch")
		return nil
	}
	subject, text, html, err := tpl.Render(template, data)
	if err != nil {
		return apperr.Upstream("render mail", err)
	}
	if err := s.Mail.Send(ctx, data.Email, subject, text, html); err != nil {
		return apperr.Upstream("send mail", err)
	}
	return nil
}

// enqueueMail publishes a notification job; failures are logged, never surfaced.
func (s *AuthService) enqueueMail(ctx context.Context, to, template string, data tpl.EmailData) {
	if s.Pub == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: tpl.ToMap(data)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("failed to enqueue email job")
	}
}

// RequestRegistration hashes the candidate password, stores a pending
// registration keyed by email (overwriting any prior one), and mails a
// 6-digit OTP. If mail dispatch fails the pending entry is left in
// place; only its TTL bounds the window in which the code could still
// be confirmed. The OTP is never returned to the caller.
func (s *AuthService) RequestRegistration(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return apperr.ErrValidation
	}
	if len(password) < entity.MinPasswordLength {
		return apperr.ErrValidation
	}

	existing, err := s.Users.GetByEmail(email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return apperr.Upstream("lookup user", err)
	}
	if existing != nil {
		return apperr.ErrConflict
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return apperr.Upstream("hash password", err)
	}
	code, err := helpers.GenOTPCode()
	if err != nil {
		return apperr.Upstream("generate otp", err)
	}

	expires := time.Now().Add(s.Cfg.OTPTTL)
	pending := entity.PendingVerification{
		Kind:         entity.KindRegister,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Code:         code,
		ExpiresAt:    expires,
	}
	if err := s.Pending.Put(ctx, pending, s.Cfg.OTPTTL); err != nil {
		return apperr.Upstream("store pending registration", err)
	}

	return s.sendOTPMail(ctx, tpl.RegisterOTP, s.emailData(name, email, code, expires))
}

// ConfirmRegistration atomically consumes the pending entry when the
// code matches and creates the verified user. A second confirmation
// with the same code finds no entry and fails.
func (s *AuthService) ConfirmRegistration(ctx context.Context, email, otp string) (*entity.User, error) {
	if email == "" || otp == "" {
		return nil, apperr.ErrValidation
	}

	pending, ok, err := s.Pending.Consume(ctx, entity.KindRegister, email, otp)
	if err != nil {
		return nil, apperr.Upstream("consume pending registration", err)
	}
	if !ok {
		return nil, apperr.ErrInvalidOTP
	}

	u := &entity.User{
		Name:         pending.Name,
		Email:        email,
		PasswordHash: pending.PasswordHash,
		Role:         entity.RoleUser,
		IsVerified:   true,
	}
	if err := s.Users.Create(u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.ErrConflict
		}
		return nil, apperr.Upstream("create user", err)
	}

	s.enqueueMail(ctx, u.Email, tpl.Welcome, s.emailData(u.Name, u.Email, "", time.Time{}))
	return u, nil
}

// RequestPasswordReset issues a reset OTP for an existing account. The
// reset entry lives in its own key space, so it cannot clobber a
// pending registration for the same email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return apperr.ErrValidation
	}

	u, err := s.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return apperr.Upstream("lookup user", err)
	}

	code, err := helpers.GenOTPCode()
	if err != nil {
		return apperr.Upstream("generate otp", err)
	}

	expires := time.Now().Add(s.Cfg.OTPTTL)
	pending := entity.PendingVerification{
		Kind:      entity.KindReset,
		Email:     email,
		Code:      code,
		ExpiresAt: expires,
	}
	if err := s.Pending.Put(ctx, pending, s.Cfg.OTPTTL); err != nil {
		return apperr.Upstream("store pending reset", err)
	}

	return s.sendOTPMail(ctx, tpl.ResetOTP, s.emailData(u.Name, email, code, expires))
}

// ConfirmPasswordReset consumes the reset entry and rehashes the new
// password. The hash is never echoed back.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) error {
	if email == "" || otp == "" || newPassword == "" {
		return apperr.ErrValidation
	}
	if len(newPassword) < entity.MinPasswordLength {
		return apperr.ErrValidation
	}

	_, ok, err := s.Pending.Consume(ctx, entity.KindReset, email, otp)
	if err != nil {
		return apperr.Upstream("consume pending reset", err)
	}
	if !ok {
		return apperr.ErrInvalidOTP
	}

	u, err := s.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return apperr.Upstream("lookup user", err)
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperr.Upstream("hash password", err)
	}
	if err := s.Users.UpdatePassword(u.ID, hash); err != nil {
		return apperr.Upstream("update password", err)
	}

	s.enqueueMail(ctx, u.Email, tpl.PasswordChanged, s.emailData(u.Name, u.Email, "", time.Time{}))
	return nil
}

// LoginResult carries the bearer token and the minimal public profile.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}

// Login validates credentials and issues a 7-day bearer token. Unknown
// email and wrong password produce the same error so callers cannot
// tell which check failed; only the unverified case is distinct.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperr.ErrValidation
	}

	u, err := s.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrAuth
		}
		return nil, apperr.Upstream("lookup user", err)
	}
	if !u.IsVerified {
		return nil, apperr.ErrUnverified
	}
	if u.PasswordHash == "" || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, apperr.ErrAuth
	}

	token, exp, err := s.JWT.Generate(u.ID, u.Role)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, apperr.Upstream("sign token", err)
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":   u.ID,
			"email":     u.Email,
			"name":      u.Name,
			"logged_in": true,
			"login_at":  time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, s.JWT.TTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return &LoginResult{Token: token, ExpiresAt: exp, Name: u.Name, Email: u.Email}, nil
}

// ListUsers returns every account as a public projection; the admin
// dashboard consumes this.
func (s *AuthService) ListUsers() ([]entity.PublicProfile, error) {
	users, err := s.Users.ListAll()
	if err != nil {
		return nil, apperr.Upstream("list users", err)
	}
	out := make([]entity.PublicProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// UserCount returns the number of registered accounts.
func (s *AuthService) UserCount() (int64, error) {
	n, err := s.Users.Count()
	if err != nil {
		return 0, apperr.Upstream("count users", err)
	}
	return n, nil
}
