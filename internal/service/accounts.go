package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"tienda-api/internal/core/auth"
	"tienda-api/internal/core/config"
	"tienda-api/internal/domain"
	"tienda-api/internal/notify"
	"tienda-api/internal/repo"
	"tienda-api/pkg/utils"
)

const (
	codeValidityMinutes = 5
	codeDigits          = 6
	minPasswordLen      = 6
)

// Accounts owns the registration/login state machine and the OTP
// lifecycle that gates it.
type Accounts struct {
	users  *repo.UserRepo
	codes  *repo.CodeRepo
	jwter  *auth.JWTer
	outbox Notifier
	cfg    *config.Config
	log    *zap.Logger
}

func NewAccounts(users *repo.UserRepo, codes *repo.CodeRepo, jwter *auth.JWTer, outbox Notifier, cfg *config.Config, log *zap.Logger) *Accounts {
	return &Accounts{users: users, codes: codes, jwter: jwter, outbox: outbox, cfg: cfg, log: log}
}

// generateCode draws a uniform numeric code; 4 digits covers 1000-9999,
// anything else 100000-999999. No collision check against older codes:
// only the latest one counts.
func generateCode(digits int) string {
	if digits == 4 {
		return fmt.Sprintf("%d", 1000+rand.IntN(9000))
	}
	return fmt.Sprintf("%d", 100000+rand.IntN(900000))
}

func (s *Accounts) createCode(ctx context.Context, user *domain.User, purpose string) (*domain.VerificationCode, error) {
	c := &domain.VerificationCode{
		UserID:    user.ID,
		Code:      generateCode(codeDigits),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(codeValidityMinutes * time.Minute),
	}
	if err := s.codes.Create(ctx, c); err != nil {
		return nil, Internal(err)
	}
	return c, nil
}

func (s *Accounts) mailCode(user *domain.User, code, subject string) error {
	body := fmt.Sprintf(
		"Hola %s,\n\nTu código de verificación es: %s\n\nEste código expira en %d minutos.",
		user.Username, code, codeValidityMinutes,
	)
	if err := s.outbox.Enqueue(notify.Message{To: []string{user.Email}, Subject: subject, Body: body}); err != nil {
		return MailFailure(err)
	}
	return nil
}

// consumeCode validates the latest code of the purpose and flips it used.
// Older codes of the same purpose are superseded, never deleted.
func (s *Accounts) consumeCode(ctx context.Context, userID uint, purpose, submitted string) error {
	c, err := s.codes.Latest(ctx, userID, purpose)
	if err != nil {
		return Internal(err)
	}
	if c == nil || !c.ValidAt(time.Now()) || c.Code != submitted {
		return InvalidCode()
	}
	if err := s.codes.MarkUsed(ctx, c.ID); err != nil {
		return Internal(err)
	}
	return nil
}

// Register creates the user in PendingActivation and mails a registration
// code. The code is returned so the handler can echo it in debug builds.
func (s *Accounts) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || email == "" {
		return "", Validation("Usuario y email son obligatorios.")
	}
	if len(password) < minPasswordLen {
		return "", Validation("La contraseña debe tener al menos 6 caracteres.")
	}
	if u, err := s.users.FindByEmail(ctx, email); err != nil {
		return "", Internal(err)
	} else if u != nil {
		return "", Validation("El email ya está registrado.")
	}
	if u, err := s.users.FindByUsername(ctx, username); err != nil {
		return "", Internal(err)
	} else if u != nil {
		return "", Validation("El nombre de usuario ya está en uso.")
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: utils.HashPassword(password),
		Role:         domain.RoleCustomer,
		IsActive:     false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", Internal(err)
	}

	c, err := s.createCode(ctx, user, domain.PurposeRegistration)
	if err != nil {
		return "", err
	}
	if err := s.mailCode(user, c.Code, "Verifica tu cuenta"); err != nil {
		return "", err
	}
	s.log.Info("user registered", zap.String("email", email))
	return c.Code, nil
}

// VerifyRegistration consumes a registration code, activates the user and
// issues the token pair.
func (s *Accounts) VerifyRegistration(ctx context.Context, email, code string) (auth.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return auth.TokenPair{}, Internal(err)
	}
	if user == nil {
		return auth.TokenPair{}, NotFound("Usuario no encontrado.")
	}
	if err := s.consumeCode(ctx, user.ID, domain.PurposeRegistration, code); err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.users.Activate(ctx, user.ID); err != nil {
		return auth.TokenPair{}, Internal(err)
	}
	pair, err := s.jwter.IssuePair(user.ID, user.Role)
	if err != nil {
		return auth.TokenPair{}, Internal(err)
	}
	s.log.Info("account verified", zap.String("email", email))
	return pair, nil
}

// Login checks credentials and dispatches a login code. It never issues
// tokens; that happens only in VerifyLogin.
func (s *Accounts) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", Internal(err)
	}
	if user == nil {
		return "", NotFound("Usuario no encontrado.")
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return "", Unauthenticated("Credenciales inválidas.")
	}
	if !user.IsActive {
		return "", Forbidden("Usuario no verificado.")
	}

	c, err := s.createCode(ctx, user, domain.PurposeLogin)
	if err != nil {
		return "", err
	}
	if err := s.mailCode(user, c.Code, "Código de inicio de sesión"); err != nil {
		return "", err
	}
	return c.Code, nil
}

// VerifyLogin consumes a login code and issues the token pair.
func (s *Accounts) VerifyLogin(ctx context.Context, email, code string) (auth.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return auth.TokenPair{}, Internal(err)
	}
	if user == nil {
		return auth.TokenPair{}, NotFound("Usuario no encontrado.")
	}
	if err := s.consumeCode(ctx, user.ID, domain.PurposeLogin, code); err != nil {
		return auth.TokenPair{}, err
	}
	pair, err := s.jwter.IssuePair(user.ID, user.Role)
	if err != nil {
		return auth.TokenPair{}, Internal(err)
	}
	return pair, nil
}

// ResendCode issues a fresh registration code superseding, not
// invalidating, any outstanding one.
func (s *Accounts) ResendCode(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", Internal(err)
	}
	if user == nil {
		return "", NotFound("Usuario no encontrado.")
	}
	if user.IsActive {
		return "", Validation("La cuenta ya está verificada.")
	}
	c, err := s.createCode(ctx, user, domain.PurposeRegistration)
	if err != nil {
		return "", err
	}
	if err := s.mailCode(user, c.Code, "Verifica tu cuenta"); err != nil {
		return "", err
	}
	return c.Code, nil
}

func (s *Accounts) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return users, nil
}

// DeleteAccount removes the caller's own account, or any account by id
// when the caller is an admin.
func (s *Accounts) DeleteAccount(ctx context.Context, callerID uint, callerIsAdmin bool, targetID uint) (string, error) {
	if targetID != 0 && callerIsAdmin {
		target, err := s.users.FindByID(ctx, targetID)
		if err != nil {
			return "", Internal(err)
		}
		if target == nil {
			return "", NotFound("Usuario no encontrado.")
		}
		if _, err := s.users.Delete(ctx, target.ID); err != nil {
			return "", Internal(err)
		}
		return fmt.Sprintf("Usuario %s eliminado por admin.", target.Email), nil
	}
	if _, err := s.users.Delete(ctx, callerID); err != nil {
		return "", Internal(err)
	}
	return "Tu cuenta ha sido eliminada correctamente.", nil
}

// DeleteUser is the admin-only delete-by-id endpoint.
func (s *Accounts) DeleteUser(ctx context.Context, id uint) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return Internal(err)
	}
	if !deleted {
		return NotFound("Usuario no encontrado.")
	}
	return nil
}

// EnsureAdmin creates the configured default admin unless a user with the
// same username or email already exists.
func (s *Accounts) EnsureAdmin(ctx context.Context) (bool, error) {
	a := s.cfg.Admin
	if a.Username == "" || a.Email == "" {
		return false, nil
	}
	if u, err := s.users.FindByUsername(ctx, a.Username); err != nil {
		return false, err
	} else if u != nil {
		return false, nil
	}
	if u, err := s.users.FindByEmail(ctx, a.Email); err != nil {
		return false, err
	} else if u != nil {
		return false, nil
	}
	admin := &domain.User{
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: utils.HashPassword(a.Password),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
