package service

import (
	"context"
	"fmt"

	"github.com/sakif/sports-registration/internal/apperror"
	"github.com/sakif/sports-registration/internal/model"
)

// =========================================================================
// FAKES
// =========================================================================
//
// In-memory implementations of the repository interfaces. Using fakes (not a
// mock framework) keeps tests dependency-free and easy to read — you can see
// exactly what each fake does, and they honour the same uniqueness rules the
// real constraints do.

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by username
	nextID int
	// set to a non-nil error to simulate a database failure
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[user.Username]; ok {
		// mirrors the UNIQUE constraint
		return apperror.Conflict("user", user.Username)
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	copied := *user
	f.users[user.Username] = &copied
	return nil
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[username]
	if !ok {
		return nil, apperror.NotFound("user", username)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) SetAdmin(ctx context.Context, username string, admin bool) error {
	u, ok := f.users[username]
	if !ok {
		return apperror.NotFound("user", username)
	}
	u.Admin = admin
	return nil
}

type fakeSportRepo struct {
	sports []model.Sport
}

func newFakeSportRepo(names ...string) *fakeSportRepo {
	f := &fakeSportRepo{}
	for i, name := range names {
		f.sports = append(f.sports, model.Sport{
			ID:   fmt.Sprintf("sport-%d", i+1),
			Name: name,
		})
	}
	return f
}

func (f *fakeSportRepo) GetByName(ctx context.Context, name string) (*model.Sport, error) {
	for _, s := range f.sports {
		if s.Name == name {
			copied := s
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("sport", name)
}

func (f *fakeSportRepo) List(ctx context.Context) ([]model.Sport, error) {
	return append([]model.Sport(nil), f.sports...), nil
}

func (f *fakeSportRepo) SeedSports(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := f.GetByName(ctx, name); err == nil {
			continue
		}
		f.sports = append(f.sports, model.Sport{
			ID:   fmt.Sprintf("sport-%d", len(f.sports)+1),
			Name: name,
		})
	}
	return nil
}

type pair struct{ userID, sportID string }

type fakeRegistrationRepo struct {
	pairs map[pair]bool
	// set to a non-nil error to simulate a database failure
	createErr error
	deleteErr error
	existsErr error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{pairs: make(map[pair]bool)}
}

func (f *fakeRegistrationRepo) Exists(ctx context.Context, userID, sportID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.pairs[pair{userID, sportID}], nil
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, userID, sportID string) error {
	if f.createErr != nil {
		return f.createErr
	}
	p := pair{userID, sportID}
	if f.pairs[p] {
		// mirrors the composite primary key
		return apperror.Conflict("registration", userID+"/"+sportID)
	}
	f.pairs[p] = true
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, userID, sportID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.pairs, pair{userID, sportID})
	return nil
}

func (f *fakeRegistrationRepo) SportNamesForUser(ctx context.Context, userID string) ([]string, error) {
	names := []string{}
	for p := range f.pairs {
		if p.userID == userID {
			names = append(names, p.sportID)
		}
	}
	return names, nil
}

func (f *fakeRegistrationRepo) ListWithNames(ctx context.Context) ([]model.RegistrationRecord, error) {
	var records []model.RegistrationRecord
	for p := range f.pairs {
		userID, sportID := p.userID, p.sportID
		records = append(records, model.RegistrationRecord{
			StudentID: &userID,
			Sport:     &sportID,
		})
	}
	return records, nil
}

// count returns the number of stored pairs — for asserting idempotence.
func (f *fakeRegistrationRepo) count() int {
	return len(f.pairs)
}
