// Package auth — password hashing for student accounts.
//
// Signup stores only a bcrypt hash of the password; login re-hashes the
// submitted candidate and compares. The plaintext is never written anywhere.
//
// bcrypt is deliberately slow, and that slowness is the point: a leaked
// users table costs an attacker real compute per guess. It also salts every
// hash automatically and embeds the salt in the output string, so the users
// table needs no salt column and identical passwords still hash differently.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used for real accounts. Tune it so a
// single hash takes a few hundred milliseconds on production hardware; login
// pays that once per attempt, an attacker pays it per guess.
const defaultCost = 12

// maxPasswordBytes is bcrypt's input limit. Anything longer is silently
// truncated by the algorithm, so we refuse it instead.
const maxPasswordBytes = 72

// PasswordService hashes and verifies passwords with a fixed cost.
// The cost lives on a struct rather than in free functions so tests can
// inject a cheap one.
type PasswordService struct {
	cost int
}

// NewPasswordService returns a PasswordService at the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest returns a PasswordService at the given cost.
// Tests pass bcrypt's minimum (4) so account fixtures don't spend hundreds of
// milliseconds each on hashing. Never use a low cost outside tests.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash converts a plaintext password into a bcrypt hash string suitable for
// storing in users.password_hash. The string is self-contained: version,
// cost, and salt are all embedded, so Verify needs nothing else.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash; nil means match.
// The underlying comparison is constant-time, so response timing leaks
// nothing about how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
