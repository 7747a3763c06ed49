// Package accounts manages user registration and credential checks. The
// authentication transport (sessions, tokens) lives outside this service;
// it only owns the stored-record side.
package accounts

import (
	"fmt"
	"strings"
	"time"

	"github.com/recircle-app/recircle/internal/domain"
	"github.com/recircle-app/recircle/internal/security"
)

// Store is the persistence surface accounts need.
type Store interface {
	CreateUser(a domain.Account, passwordHash string) error
	GetAccount(email string) (domain.Account, error)
	PasswordHash(email string) (string, error)
}

// Service registers users and verifies credentials.
type Service struct {
	store Store
}

// NewService creates an accounts service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a new account with a zero-initialized progress record.
func (s *Service) Register(email, username, password, role string, now time.Time) (domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Account{}, fmt.Errorf("invalid email %q", email)
	}
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	if role == "" {
		role = "customer"
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		Email:     email,
		Username:  username,
		Role:      role,
		CreatedAt: now.UnixMilli(),
	}
	if err := s.store.CreateUser(account, hash); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// Authenticate verifies credentials and returns the account.
func (s *Service) Authenticate(email, password string) (domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := s.store.PasswordHash(email)
	if err != nil {
		return domain.Account{}, err
	}
	if !security.VerifyPassword(hash, password) {
		return domain.Account{}, domain.ErrInvalidCredentials
	}
	return s.store.GetAccount(email)
}

// Lookup returns the account for an email.
func (s *Service) Lookup(email string) (domain.Account, error) {
	return s.store.GetAccount(strings.ToLower(strings.TrimSpace(email)))
}
