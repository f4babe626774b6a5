package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/sports-registration/internal/apperror"
)

// =========================================================================
// CREATE / EXISTS TESTS
// =========================================================================

func TestRegistrationCreateAndExists(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedTestSports(t, db, "Swimming")
	sport := getTestSport(t, db, "Swimming")

	exists, err := db.Exists(context.Background(), user.ID, sport.ID)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Fatal("Exists() = true before Create()")
	}

	if err := db.Create(context.Background(), user.ID, sport.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	exists, err = db.Exists(context.Background(), user.ID, sport.ID)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false after Create()")
	}
}

func TestRegistrationCreate_DuplicatePair(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedTestSports(t, db, "Swimming")
	sport := getTestSport(t, db, "Swimming")

	if err := db.Create(context.Background(), user.ID, sport.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The composite primary key rejects the duplicate; the error must be the
	// Conflict sentinel so the service can fold it into an idempotent success.
	err := db.Create(context.Background(), user.ID, sport.ID)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestRegistrationCreate_UnknownIDs(t *testing.T) {
	db := newTestDB(t)

	// Foreign keys are ON: a registration can only reference existing rows.
	err := db.Create(context.Background(), "no-such-user", "no-such-sport")
	if err == nil {
		t.Fatal("Create() should fail for IDs that reference nothing")
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestRegistrationDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedTestSports(t, db, "Swimming")
	sport := getTestSport(t, db, "Swimming")

	if err := db.Create(context.Background(), user.ID, sport.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := db.Delete(context.Background(), user.ID, sport.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	exists, _ := db.Exists(context.Background(), user.ID, sport.ID)
	if exists {
		t.Error("Exists() = true after Delete()")
	}
}

func TestRegistrationDelete_AbsentPairIsNoop(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedTestSports(t, db, "Swimming")
	sport := getTestSport(t, db, "Swimming")

	// Deleting a pair that was never registered succeeds without error.
	if err := db.Delete(context.Background(), user.ID, sport.ID); err != nil {
		t.Errorf("Delete() on absent pair should be a no-op, got error: %v", err)
	}
}

// =========================================================================
// SPORT NAMES FOR USER TESTS
// =========================================================================

func TestSportNamesForUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedTestSports(t, db, "Basketball", "Bouldering", "Swimming")

	basketball := getTestSport(t, db, "Basketball")
	swimming := getTestSport(t, db, "Swimming")

	if err := db.Create(context.Background(), user.ID, swimming.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := db.Create(context.Background(), user.ID, basketball.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	names, err := db.SportNamesForUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("SportNamesForUser() error = %v", err)
	}

	// Seed order, regardless of registration order.
	want := []string{"Basketball", "Swimming"}
	if len(names) != len(want) {
		t.Fatalf("SportNamesForUser() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSportNamesForUser_EmptyNotNil(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	names, err := db.SportNamesForUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("SportNamesForUser() error = %v", err)
	}
	// The handler encodes this directly — must be [] not null.
	if names == nil {
		t.Error("SportNamesForUser() returned nil, want empty slice")
	}
	if len(names) != 0 {
		t.Errorf("SportNamesForUser() = %v, want empty", names)
	}
}

// =========================================================================
// LIST WITH NAMES (ADMIN REPORT) TESTS
// =========================================================================

func TestListWithNames(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedTestSports(t, db, "Swimming")
	sport := getTestSport(t, db, "Swimming")

	if err := db.Create(context.Background(), user.ID, sport.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	records, err := db.ListWithNames(context.Background())
	if err != nil {
		t.Fatalf("ListWithNames() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListWithNames() returned %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.StudentID == nil || *rec.StudentID != user.ID {
		t.Errorf("StudentID = %v, want %q", rec.StudentID, user.ID)
	}
	if rec.FirstName == nil || *rec.FirstName != "Test" {
		t.Errorf("FirstName = %v, want %q", rec.FirstName, "Test")
	}
	if rec.Sport == nil || *rec.Sport != "Swimming" {
		t.Errorf("Sport = %v, want %q", rec.Sport, "Swimming")
	}
}

func TestListWithNames_LeftJoinKeepsOrphans(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	seedTestSports(t, db, "Swimming")
	sport := getTestSport(t, db, "Swimming")

	if err := db.Create(context.Background(), user.ID, sport.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Remove the sport row out-of-band (foreign keys off for the surgery) to
	// simulate a registration whose sport has vanished. The report must still
	// show the row, with a nil sport — LEFT JOIN, not INNER.
	if _, err := db.conn.Exec("PRAGMA foreign_keys=OFF"); err != nil {
		t.Fatalf("disabling foreign keys: %v", err)
	}
	if _, err := db.conn.Exec("DELETE FROM sports WHERE id = ?", sport.ID); err != nil {
		t.Fatalf("deleting sport: %v", err)
	}
	if _, err := db.conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("re-enabling foreign keys: %v", err)
	}

	records, err := db.ListWithNames(context.Background())
	if err != nil {
		t.Fatalf("ListWithNames() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListWithNames() returned %d records, want 1 (orphan must not be dropped)", len(records))
	}

	rec := records[0]
	if rec.Sport != nil {
		t.Errorf("Sport = %q, want nil for a deleted sport", *rec.Sport)
	}
	if rec.FirstName == nil || *rec.FirstName != "Test" {
		t.Errorf("FirstName = %v, want %q", rec.FirstName, "Test")
	}
}

func TestListWithNames_Empty(t *testing.T) {
	db := newTestDB(t)

	records, err := db.ListWithNames(context.Background())
	if err != nil {
		t.Fatalf("ListWithNames() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ListWithNames() returned %d records, want 0", len(records))
	}
}
