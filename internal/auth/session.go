// Package auth provides password hashing and session-identity tracking.
//
// SESSION FLOW OVERVIEW:
// 1. Student submits the login form with username and password
// 2. AccountService verifies the credentials against the stored bcrypt hash
// 3. The handler issues a signed session token bound to the username and
//    stores it in an HttpOnly cookie
// 4. On subsequent requests, middleware reads the cookie, validates the token,
//    and puts the username in the request context
// 5. Logout clears the cookie — logging out twice is harmless
//
// WHY A SIGNED TOKEN INSTEAD OF A SERVER-SIDE SESSION TABLE?
// The token is stateless — everything needed (username, expiry) is inside the
// signed payload, so no session storage or cleanup job exists. The HMAC
// signature ensures nobody can mint or alter an identity without the secret.
//
// The per-session state machine is exactly two states:
//
//	Anonymous → Authenticated (login) → Anonymous (logout or expiry)
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "session"

// sessionTTL is how long an issued session stays valid. The cookie MaxAge
// matches, so browser and server agree on when the identity lapses.
const sessionTTL = 24 * time.Hour

const issuer = "sports-registration"

// SessionService issues and validates signed session tokens.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations — supply it via SESSION_SECRET.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: SESSION_SECRET=$(openssl rand -hex 32)
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

// claims is the token payload. It embeds jwt.RegisteredClaims which includes
// standard fields like Issuer, Subject, ExpiresAt, IssuedAt.
//
// We use "sub" (Subject) to store the username — the session identity that
// every protected operation is keyed on.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given username.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and right for a
// single-server deployment where the same process signs and verifies.
func (s *SessionService) Issue(username string) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// IssueWithDuration creates a session token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *SessionService) IssueWithDuration(username string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token string.
// Returns the username (stored in the "sub" claim) if the token is valid.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches (prevents tokens minted by other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
func (s *SessionService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: session expired")
		}
		return "", fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid session claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: session token has no subject")
	}

	return c.Subject, nil
}

// SetCookie writes the session cookie carrying the given token.
//
// HttpOnly = JavaScript cannot read it (XSS protection).
// SameSite=Lax = sent on top-level navigations but not cross-site POSTs.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie. Safe to call when no cookie is set,
// so logout is idempotent.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
