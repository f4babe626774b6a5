package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/sports-registration/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Fast (no disk I/O), isolated (each test gets its own database), and clean
// (destroyed when the connection closes).
//
// newTestDB is a test helper — t.Helper() makes failures report at the
// CALLER's line number, and t.Cleanup closes the DB even in subtests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		FirstName:    "Test",
		LastName:     "User",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// seedTestSports seeds the given names and fails the test on error.
func seedTestSports(t *testing.T, db *DB, names ...string) {
	t.Helper()
	if err := db.SeedSports(context.Background(), names); err != nil {
		t.Fatalf("failed to seed sports: %v", err)
	}
}

// getTestSport looks up a sport by name and fails the test if absent.
func getTestSport(t *testing.T, db *DB, name string) *model.Sport {
	t.Helper()
	sport, err := db.GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to get sport %q: %v", name, err)
	}
	return sport
}
