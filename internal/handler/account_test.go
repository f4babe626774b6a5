package handler_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/sports-registration/internal/auth"
	"github.com/sakif/sports-registration/internal/handler"
)

func newAccountHandler(t *testing.T) *handler.AccountHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	sessions, err := auth.NewSessionService("test-secret-key-for-sessions")
	if err != nil {
		t.Fatalf("NewSessionService() error = %v", err)
	}
	// Redirect-only paths never touch the account service or templates.
	return handler.NewAccountHandler(nil, sessions, nil, logger)
}

func TestHandleIndex_Redirects(t *testing.T) {
	h := newAccountHandler(t)

	t.Run("anonymous to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		h.HandleIndex(rr, req)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
	})

	t.Run("authenticated to select_sports", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithUsername(req.Context(), "alice"))
		rr := httptest.NewRecorder()

		h.HandleIndex(rr, req)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/select_sports", rr.Header().Get("Location"))
	})
}

func TestHandleLogout_ClearsCookie(t *testing.T) {
	h := newAccountHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rr := httptest.NewRecorder()

	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookie, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
