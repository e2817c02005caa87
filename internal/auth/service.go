package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ravikant96/AllSpark/internal/accounts"
	"github.com/Ravikant96/AllSpark/internal/shared"
	"github.com/Ravikant96/AllSpark/internal/users"
)

// defaultTokenTTLDays applies when the user row carries no explicit ttl.
const defaultTokenTTLDays = 7

// Mailer delivers the password reset mail, typically by enqueueing a
// background job rather than talking SMTP inline.
type Mailer interface {
	SendResetLink(ctx context.Context, to, name, link string) error
}

// Service wraps authentication business rules: credential verification,
// bearer-token lifecycle and password reset.
type Service struct {
	repo   Repository
	users  *users.Service
	tokens *TokenStore
	mailer Mailer
}

// NewService constructs a Service.
func NewService(repo Repository, userService *users.Service, tokens *TokenStore, mailer Mailer) *Service {
	return &Service{repo: repo, users: userService, tokens: tokens, mailer: mailer}
}

// Login verifies credentials and issues a bearer token carrying the user's
// current roles and privileges.
func (s *Service) Login(ctx context.Context, accountID int64, email, password string) (string, *shared.UserContext, error) {
	user, err := s.users.Repo().FindByEmail(ctx, accountID, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil, shared.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}

	identity, err := s.users.UserContext(ctx, user.AccountID, user.UserID)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(ctx, identity, tokenTTL(user))
	if err != nil {
		return "", nil, err
	}
	return token, identity, nil
}

// Refresh reloads the user's grants and issues a replacement token. The old
// token is revoked so a refresh chain leaves one live token.
func (s *Service) Refresh(ctx context.Context, token string) (string, *shared.UserContext, error) {
	current, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return "", nil, err
	}
	user, err := s.users.Repo().FindByID(ctx, current.UserID)
	if err != nil {
		return "", nil, err
	}
	identity, err := s.users.UserContext(ctx, user.AccountID, user.UserID)
	if err != nil {
		return "", nil, err
	}
	fresh, err := s.tokens.Issue(ctx, identity, tokenTTL(user))
	if err != nil {
		return "", nil, err
	}
	_ = s.tokens.Revoke(ctx, token)
	return fresh, identity, nil
}

// Logout revokes a token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// SendResetLink stores a fresh reset token and mails the reset URL. An
// unknown email is silently ignored so the endpoint does not leak account
// membership.
func (s *Service) SendResetLink(ctx context.Context, account accounts.Account, email string) error {
	user, err := s.users.Repo().FindByEmail(ctx, account.AccountID, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.repo.CreateResetToken(ctx, user.UserID, token); err != nil {
		return err
	}

	link := fmt.Sprintf("https://%s/login/reset?reset_token=%s", account.URL, token)
	return s.mailer.SendResetLink(ctx, user.Email, user.FullName(), link)
}

// ResetPassword burns a live reset token and stores the new password hash.
func (s *Service) ResetPassword(ctx context.Context, accountID int64, token, password string) error {
	if token == "" || password == "" {
		return shared.BadRequestf("reset token and password are required")
	}
	userID, err := s.repo.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.BadRequestf("reset token is invalid or expired")
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.Repo().UpdatePassword(ctx, accountID, userID, string(hash))
}

func tokenTTL(user users.User) time.Duration {
	days := user.TokenTTLDays
	if days <= 0 {
		days = defaultTokenTTLDays
	}
	return time.Duration(days) * 24 * time.Hour
}
