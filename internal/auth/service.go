package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/sirupsen/logrus"

	"github.com/2beens/guildsite/pkg"
)

// MinPasswordLength applies to new passwords set through ChangePassword.
const MinPasswordLength = 6

var (
	ErrMissingCredentials   = errors.New("email and password are required")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrMissingPasswords     = errors.New("current password and new password are required")
	ErrPasswordTooShort     = fmt.Errorf("new password must be at least %d characters long", MinPasswordLength)
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
)

// PasswordLength counts UTF-16 code units, the unit the dashboard form validates in.
// Characters outside the basic multilingual plane count twice.
func PasswordLength(password string) int {
	return len(utf16.Encode([]rune(password)))
}

type LoginResult struct {
	Token    string
	Identity Identity
}

// Service runs the admin session workflow: login and password change.
// It keeps no session state, a session is just a signed token held by the client.
type Service struct {
	admins AdminStore
	hasher *Hasher
	tokens *TokenService
	log    logrus.FieldLogger

	// compared against when the email is unknown, so both failures cost one bcrypt run
	decoyHash string
}

func NewService(admins AdminStore, hasher *Hasher, tokens *TokenService, logger logrus.FieldLogger) (*Service, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	decoyPassword, err := pkg.GenerateRandomString(18)
	if err != nil {
		return nil, fmt.Errorf("generate decoy password: %w", err)
	}
	decoyHash, err := hasher.Hash(decoyPassword)
	if err != nil {
		return nil, fmt.Errorf("hash decoy password: %w", err)
	}

	return &Service{
		admins:    admins,
		hasher:    hasher,
		tokens:    tokens,
		log:       logger,
		decoyHash: decoyHash,
	}, nil
}

// Login checks the credentials and issues a session token for the admin.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	logger := s.log.WithField("email", email)

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			s.hasher.Verify(password, s.decoyHash)
			logger.Warn("admin login failed: no admin with this email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin by email: %w", err)
	}

	if !s.hasher.Verify(password, admin.PasswordHash) {
		logger.WithField("admin_id", admin.ID).Warn("admin login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	identity := admin.Identity()
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"admin_id": admin.ID,
		"token":    TruncateToken(token),
	}).Info("admin login success")

	return &LoginResult{
		Token:    token,
		Identity: identity,
	}, nil
}

// ChangePassword replaces the password of the logged in admin after re-checking the current one.
// The new password may equal the old one.
func (s *Service) ChangePassword(ctx context.Context, identity *Identity, currentPassword, newPassword string) error {
	if identity == nil || identity.ID == "" {
		return ErrUnauthorized
	}
	if currentPassword == "" || newPassword == "" {
		return ErrMissingPasswords
	}
	if PasswordLength(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	logger := s.log.WithField("admin_id", identity.ID)

	admin, err := s.admins.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			logger.Warn("change password: admin from session no longer exists")
			return ErrAdminNotFound
		}
		return fmt.Errorf("find admin by id: %w", err)
	}

	if !s.hasher.Verify(currentPassword, admin.PasswordHash) {
		logger.Warn("change password failed: wrong current password")
		return ErrWrongCurrentPassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.admins.UpdatePassword(ctx, admin.ID, newHash); err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("update admin password: %w", err)
	}

	logger.Info("admin password changed")
	return nil
}
