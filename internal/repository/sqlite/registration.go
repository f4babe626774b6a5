package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/sports-registration/internal/apperror"
	"github.com/sakif/sports-registration/internal/model"
	"github.com/sakif/sports-registration/internal/repository"
)

// compile-time check that *DB implements repository.RegistrationRepository
var _ repository.RegistrationRepository = (*DB)(nil)

// Exists reports whether the (userID, sportID) pair is registered.
func (db *DB) Exists(ctx context.Context, userID, sportID string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM registrations WHERE user_id = ? AND sport_id = ?`,
		userID, sportID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking registration (%s, %s): %w", userID, sportID, err)
	}
	return true, nil
}

// Create inserts the (userID, sportID) pair.
//
// The composite primary key rejects a duplicate pair; that surfaces as
// apperror.ErrConflict so the service can report the idempotent
// "already registered" success even when it loses a check-then-insert race.
// Foreign keys reject IDs that don't reference existing rows.
func (db *DB) Create(ctx context.Context, userID, sportID string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO registrations (user_id, sport_id) VALUES (?, ?)`,
		userID, sportID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("registration", userID+"/"+sportID)
		}
		return fmt.Errorf("sqlite: inserting registration (%s, %s): %w", userID, sportID, err)
	}
	return nil
}

// Delete removes the (userID, sportID) pair. Deleting an absent pair is a
// no-op, not an error — DELETE with no matching row affects nothing.
func (db *DB) Delete(ctx context.Context, userID, sportID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM registrations WHERE user_id = ? AND sport_id = ?`,
		userID, sportID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting registration (%s, %s): %w", userID, sportID, err)
	}
	return nil
}

// SportNamesForUser returns the names of all sports the user is registered
// for, in seed order.
func (db *DB) SportNamesForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT s.name
		 FROM sports s
		 INNER JOIN registrations r ON s.id = r.sport_id
		 WHERE r.user_id = ?
		 ORDER BY s.rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sports for user %s: %w", userID, err)
	}
	defer rows.Close()

	// Start with an empty slice (not nil) so the handler encodes [] rather
	// than null for a user with no registrations.
	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning sport name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating sport names: %w", err)
	}

	return names, nil
}

// ListWithNames returns every registration joined with the student's name and
// the sport's name, for the admin report.
//
// LEFT JOIN, not INNER: a registration whose user or sport row is missing
// must still appear in the report with null fields rather than vanish.
func (db *DB) ListWithNames(ctx context.Context) ([]model.RegistrationRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			u.id AS student_id,
			u.first_name,
			u.last_name,
			s.name AS sport
		FROM registrations r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN sports s ON r.sport_id = s.id
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing registrations: %w", err)
	}
	defer rows.Close()

	var records []model.RegistrationRecord
	for rows.Next() {
		var studentID, firstName, lastName, sport sql.NullString
		if err := rows.Scan(&studentID, &firstName, &lastName, &sport); err != nil {
			return nil, fmt.Errorf("sqlite: scanning registration record: %w", err)
		}
		records = append(records, model.RegistrationRecord{
			StudentID: nullableString(studentID),
			FirstName: nullableString(firstName),
			LastName:  nullableString(lastName),
			Sport:     nullableString(sport),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating registration records: %w", err)
	}

	return records, nil
}

// nullableString converts a sql.NullString into the *string the model uses.
func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
