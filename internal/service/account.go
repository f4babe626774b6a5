// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository interfaces, not concrete sqlite types, so tests
// can hand them in-memory fakes and a future Postgres backend is a one-line
// change in server.go.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/sports-registration/internal/apperror"
	"github.com/sakif/sports-registration/internal/auth"
	"github.com/sakif/sports-registration/internal/model"
	"github.com/sakif/sports-registration/internal/repository"
)

// MaxNameLength bounds usernames and display names, matching the column
// width the schema was designed around.
const MaxNameLength = 80

// AccountService handles account creation and credential verification.
//
// DEPENDENCIES (injected via NewAccountService):
//   - users     repository.UserRepository → read/write user records
//   - passwords *auth.PasswordService     → bcrypt hashing and verification
//   - logger    *slog.Logger              → structured logging
type AccountService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all required dependencies.
func NewAccountService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// CreateAccount registers a new student account.
//
// All four fields are required. The password is hashed before anything is
// stored; the plaintext never leaves this method.
//
// DUPLICATE USERNAMES:
// We check for an existing user first to produce a friendly error, but the
// UNIQUE constraint in the database is the real guarantee — if a concurrent
// signup wins the race between our check and our insert, the repository
// returns ErrConflict and the caller sees the same "already taken" outcome.
func (s *AccountService) CreateAccount(ctx context.Context, username, password, firstName, lastName string) (*model.User, error) {
	username = strings.TrimSpace(username)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxNameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxNameLength))
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if firstName == "" {
		return nil, apperror.ValidationFailed("firstName", "first name is required")
	}
	if lastName == "" {
		return nil, apperror.ValidationFailed("lastName", "last name is required")
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("user", username)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password is too long")
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Admin:        false,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		s.logger.Error("failed to create account",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating account: %w", err)
	}

	s.logger.Info("account created",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies a (username, password) pair and returns the user on success.
//
// Unknown username and wrong password are distinct failures — the login page
// shows "Username not recognised" vs "Incorrect password" — but both wrap
// apperror.ErrUnauthorized, so no caller can accidentally treat either as
// an authenticated state.
func (s *AccountService) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.Unauthorized("username and password are required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Username not recognised")
		}
		s.logger.Error("login lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Incorrect password")
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))

	return user, nil
}

// GetByUsername returns the account for the given username.
// Used by handlers that already hold a verified session identity.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	return s.users.GetUserByUsername(ctx, username)
}

// Promote sets the admin flag on the named account.
// Callers are responsible for checking that the requester is an admin.
func (s *AccountService) Promote(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperror.ValidationFailed("username", "username is required")
	}

	if err := s.users.SetAdmin(ctx, username, true); err != nil {
		return err
	}

	s.logger.Info("user promoted to admin", slog.String("username", username))
	return nil
}
