package repository

import (
	"context"

	"github.com/sakif/sports-registration/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	SetAdmin(ctx context.Context, username string, admin bool) error
}

type SportRepository interface {
	GetByName(ctx context.Context, name string) (*model.Sport, error)
	List(ctx context.Context) ([]model.Sport, error)
	SeedSports(ctx context.Context, names []string) error
}

type RegistrationRepository interface {
	Exists(ctx context.Context, userID, sportID string) (bool, error)
	Create(ctx context.Context, userID, sportID string) error
	Delete(ctx context.Context, userID, sportID string) error
	SportNamesForUser(ctx context.Context, userID string) ([]string, error)
	ListWithNames(ctx context.Context) ([]model.RegistrationRecord, error)
}
