package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/sports-registration/internal/apperror"
	"github.com/sakif/sports-registration/internal/model"
	"github.com/sakif/sports-registration/internal/repository"
)

// compile-time check that *DB implements repository.SportRepository
var _ repository.SportRepository = (*DB)(nil)

// GetByName retrieves a sport by its name.
// Returns apperror.ErrNotFound if no sport exists with that name.
func (db *DB) GetByName(ctx context.Context, name string) (*model.Sport, error) {
	var s model.Sport

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM sports WHERE name = ?`,
		name,
	).Scan(&s.ID, &s.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("sport", name)
		}
		return nil, fmt.Errorf("sqlite: getting sport %q: %w", name, err)
	}

	return &s, nil
}

// List returns all sports in insertion (seed) order.
// rowid preserves insert order even though the primary key is a TEXT xid.
func (db *DB) List(ctx context.Context) ([]model.Sport, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM sports ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sports: %w", err)
	}
	defer rows.Close()

	var sports []model.Sport
	for rows.Next() {
		var s model.Sport
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning sport: %w", err)
		}
		sports = append(sports, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating sports: %w", err)
	}

	return sports, nil
}

// SeedSports inserts every name in names that isn't already in the sports
// table. Existing rows are never touched, duplicate names within the input are
// collapsed, and first-occurrence order is preserved. Safe to run on every
// process start.
func (db *DB) SeedSports(ctx context.Context, names []string) error {
	existing, err := db.List(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: seeding sports: %w", err)
	}

	seen := make(map[string]bool, len(existing)+len(names))
	for _, s := range existing {
		seen[s.Name] = true
	}

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO sports (id, name) VALUES (?, ?)`,
			xid.New().String(), name,
		)
		if err != nil {
			// Another process seeding concurrently is fine — the UNIQUE
			// constraint already holds the row we wanted.
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("sqlite: seeding sport %q: %w", name, err)
		}
	}

	return nil
}
