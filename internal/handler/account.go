package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/sports-registration/internal/apperror"
	"github.com/sakif/sports-registration/internal/auth"
	"github.com/sakif/sports-registration/internal/service"
)

// AccountHandler manages the signup, login, and logout flows.
//
// HANDLER RESPONSIBILITIES:
//   - HandleIndex          → send the browser to the right place for its session state
//   - HandleCreateAccount  → render the signup form / create the account
//   - HandleLogin          → render the login form / verify credentials, issue the session cookie
//   - HandleLogout         → clear the session cookie
//
// The session cookie is the only authentication state; handlers never keep
// identity anywhere else.
type AccountHandler struct {
	accounts  *service.AccountService
	sessions  *auth.SessionService
	templates *Templates
	logger    *slog.Logger
}

// NewAccountHandler creates an AccountHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAccountHandler(
	accounts *service.AccountService,
	sessions *auth.SessionService,
	templates *Templates,
	logger *slog.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		sessions:  sessions,
		templates: templates,
		logger:    logger,
	}
}

// HandleIndex routes the bare / URL by session state.
//
// HTTP: GET /
// Logged-in students land on the sport selection page; everyone else on the
// login form.
func (h *AccountHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.Username(r.Context()); ok {
		http.Redirect(w, r, "/select_sports", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleCreateAccount serves the signup form and processes submissions.
//
// HTTP: GET /create_account → form page
// HTTP: POST /create_account → create account, redirect to /login
//
// A taken username re-renders the form with a message instead of losing the
// student on an error page.
func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.templates.Render(w, "create_account.html", map[string]any{
			"Title": "Create Account",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	_, err := h.accounts.CreateAccount(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
		r.PostFormValue("firstName"),
		r.PostFormValue("lastName"),
	)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status := http.StatusBadRequest
			message := appErr.Message
			if errors.Is(err, apperror.ErrConflict) {
				status = http.StatusConflict
				message = "Username already taken, please choose another"
			}
			w.WriteHeader(status)
			h.templates.Render(w, "create_account.html", map[string]any{
				"Title": "Create Account",
				"Flash": message,
			})
			return
		}

		h.logger.Error("create account failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLogin serves the login form and processes submissions.
//
// HTTP: GET /login → form page
// HTTP: POST /login → verify credentials, set session cookie, redirect
//
// Failed attempts re-render the form with a flash message ("Username not
// recognised" / "Incorrect password") and never set a session cookie.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.templates.Render(w, "login.html", map[string]any{
			"Title": "Log In",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Login(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
	)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			var appErr *apperror.AppError
			flash := "Login failed"
			if errors.As(err, &appErr) {
				flash = appErr.Message
			}
			w.WriteHeader(http.StatusUnauthorized)
			h.templates.Render(w, "login.html", map[string]any{
				"Title": "Log In",
				"Flash": flash,
			})
			return
		}

		h.logger.Error("login failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	token, err := h.sessions.Issue(user.Username)
	if err != nil {
		h.logger.Error("issuing session failed",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	auth.SetCookie(w, token)
	http.Redirect(w, r, "/select_sports", http.StatusSeeOther)
}

// HandleLogout clears the session cookie and sends the browser home.
//
// HTTP: GET /logout
// Idempotent: logging out without a session (or twice) is harmless — the
// cookie clear is unconditional.
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
