package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/sports-registration/internal/apperror"
	"github.com/sakif/sports-registration/internal/model"
	"github.com/sakif/sports-registration/internal/repository"
)

// RegistrationService toggles a student's membership in a sport's roster.
//
// Both Register and Deregister are idempotent: repeating either call reports
// success without duplicating or erroring. Clients may safely re-POST.
type RegistrationService struct {
	users         repository.UserRepository
	sports        repository.SportRepository
	registrations repository.RegistrationRepository
	logger        *slog.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(
	users repository.UserRepository,
	sports repository.SportRepository,
	registrations repository.RegistrationRepository,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		users:         users,
		sports:        sports,
		registrations: registrations,
		logger:        logger,
	}
}

// RegistrationResult reports the outcome of a register/deregister call in the
// shape the JSON API returns: {"success": true, "message": "..."}.
type RegistrationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Register signs the user up for the named sport.
//
//  1. Missing username or sport name → validation error
//  2. Unknown user or sport → not found
//  3. Already registered → success, "already registered" (no duplicate insert)
//  4. Otherwise insert the pair
//
// CHECK-THEN-ACT:
// Two identical concurrent requests can both pass the existence check. That's
// fine — the composite primary key makes the second insert fail with
// ErrConflict, which we fold into the same idempotent success. The pre-check
// exists only to produce a friendly message, not to guarantee uniqueness.
func (s *RegistrationService) Register(ctx context.Context, username, sportName string) (*RegistrationResult, error) {
	user, sport, err := s.lookupPair(ctx, username, sportName)
	if err != nil {
		return nil, err
	}

	registered, err := s.registrations.Exists(ctx, user.ID, sport.ID)
	if err != nil {
		s.logger.Error("registration check failed",
			slog.String("username", username),
			slog.String("sport", sportName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("checking registration: %w", err)
	}
	if registered {
		return &RegistrationResult{
			Success: true,
			Message: fmt.Sprintf("%s already registered for %s", user.Username, sport.Name),
		}, nil
	}

	if err := s.registrations.Create(ctx, user.ID, sport.ID); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost the race to an identical request — same outcome.
			return &RegistrationResult{
				Success: true,
				Message: fmt.Sprintf("%s already registered for %s", user.Username, sport.Name),
			}, nil
		}
		s.logger.Error("registration failed",
			slog.String("username", username),
			slog.String("sport", sportName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering: %w", err)
	}

	s.logger.Info("registered",
		slog.String("username", user.Username),
		slog.String("sport", sport.Name),
	)

	return &RegistrationResult{
		Success: true,
		Message: fmt.Sprintf("%s registered for %s", user.Username, sport.Name),
	}, nil
}

// Deregister removes the user from the named sport's roster. Symmetric with
// Register: an absent pair reports success with "already deregistered".
func (s *RegistrationService) Deregister(ctx context.Context, username, sportName string) (*RegistrationResult, error) {
	user, sport, err := s.lookupPair(ctx, username, sportName)
	if err != nil {
		return nil, err
	}

	registered, err := s.registrations.Exists(ctx, user.ID, sport.ID)
	if err != nil {
		s.logger.Error("deregistration check failed",
			slog.String("username", username),
			slog.String("sport", sportName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("checking registration: %w", err)
	}
	if !registered {
		return &RegistrationResult{
			Success: true,
			Message: fmt.Sprintf("%s already deregistered for %s", user.Username, sport.Name),
		}, nil
	}

	if err := s.registrations.Delete(ctx, user.ID, sport.ID); err != nil {
		s.logger.Error("deregistration failed",
			slog.String("username", username),
			slog.String("sport", sportName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("deregistering: %w", err)
	}

	s.logger.Info("deregistered",
		slog.String("username", user.Username),
		slog.String("sport", sport.Name),
	)

	return &RegistrationResult{
		Success: true,
		Message: fmt.Sprintf("%s deregistered for %s", user.Username, sport.Name),
	}, nil
}

// RegisteredSportNames returns the sport names the user is currently
// registered for, in seed order. Unknown usernames return ErrNotFound.
func (s *RegistrationService) RegisteredSportNames(ctx context.Context, username string) ([]string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "Missing username")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	names, err := s.registrations.SportNamesForUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("listing registered sports failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing registered sports: %w", err)
	}

	return names, nil
}

// ListSports returns every sport, in seed order, for the selection page.
func (s *RegistrationService) ListSports(ctx context.Context) ([]model.Sport, error) {
	sports, err := s.sports.List(ctx)
	if err != nil {
		s.logger.Error("listing sports failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing sports: %w", err)
	}
	return sports, nil
}

// AllRegistrations returns the admin report: every registration joined with
// student and sport names via LEFT JOIN, so rows with a missing user or sport
// still appear with nil fields.
func (s *RegistrationService) AllRegistrations(ctx context.Context) ([]model.RegistrationRecord, error) {
	records, err := s.registrations.ListWithNames(ctx)
	if err != nil {
		s.logger.Error("listing registrations failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	return records, nil
}

// lookupPair resolves username and sportName to their records, applying the
// shared validation for Register and Deregister.
func (s *RegistrationService) lookupPair(ctx context.Context, username, sportName string) (*model.User, *model.Sport, error) {
	sportName = strings.TrimSpace(sportName)
	if sportName == "" {
		return nil, nil, apperror.ValidationFailed("sportName", "Missing sport name")
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil, apperror.ValidationFailed("username", "Missing username")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil, apperror.NotFound("user or sport", username)
		}
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}

	sport, err := s.sports.GetByName(ctx, sportName)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil, apperror.NotFound("user or sport", sportName)
		}
		return nil, nil, fmt.Errorf("looking up sport: %w", err)
	}

	return user, sport, nil
}
