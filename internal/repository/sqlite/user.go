package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/sports-registration/internal/apperror"
	"github.com/sakif/sports-registration/internal/model"
	"github.com/sakif/sports-registration/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user row. (The user methods carry the entity in
// their names because *DB also implements the registration repository, whose
// Create takes a different signature.)
//
// The caller is expected to have checked for an existing username first, but
// the UNIQUE constraint on username is what actually prevents duplicates —
// two concurrent signups for the same name can both pass the check, and only
// one insert wins. The loser gets apperror.ErrConflict, which callers map to
// the same "username already taken" response as the pre-check.
//
// On success the generated ID and CreatedAt are written back into user.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, first_name, last_name, admin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Admin,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetUserByUsername retrieves a user by their login name.
// Returns apperror.ErrNotFound if no user exists with that username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, first_name, last_name, admin, created_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Admin,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}

	return &u, nil
}

// SetAdmin flips the admin flag for the named user.
// Returns apperror.ErrNotFound if the username doesn't exist.
func (db *DB) SetAdmin(ctx context.Context, username string, admin bool) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET admin = ? WHERE username = ?`,
		admin, username,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting admin flag for %q: %w", username, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: reading rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", username)
	}

	return nil
}
