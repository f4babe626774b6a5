package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/sports-registration/internal/apperror"
	"github.com/sakif/sports-registration/internal/auth"
	"github.com/sakif/sports-registration/internal/service"
)

// AdminHandler serves the admin dashboard and the admin-promotion endpoint.
//
// Both routes verify the requester's admin flag, not just that a session
// exists. The flag check happens here (against the live user record) rather
// than in the session token, so demoting an admin takes effect on their next
// request instead of at token expiry.
type AdminHandler struct {
	accounts      *service.AccountService
	registrations *service.RegistrationService
	templates     *Templates
	logger        *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	accounts *service.AccountService,
	registrations *service.RegistrationService,
	templates *Templates,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		accounts:      accounts,
		registrations: registrations,
		templates:     templates,
		logger:        logger,
	}
}

// makeAdminRequest is the JSON body of the promotion call.
type makeAdminRequest struct {
	NewAdminUsername string `json:"newAdminUsername"`
}

// requireAdmin resolves the session identity to a user record and checks the
// admin flag. Returns ErrForbidden for authenticated non-admins.
func (h *AdminHandler) requireAdmin(r *http.Request) error {
	username, ok := auth.Username(r.Context())
	if !ok {
		return apperror.Unauthorized("authentication required")
	}

	user, err := h.accounts.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Unauthorized("authentication required")
		}
		return fmt.Errorf("looking up requester: %w", err)
	}

	if !user.Admin {
		return apperror.Forbidden("admin access required")
	}

	return nil
}

// HandleDashboard renders the table of all registrations.
//
// HTTP: GET /admin (admin only)
//
// The report is a LEFT JOIN, so registrations whose user or sport row has
// gone missing still show up — with blank cells — instead of disappearing.
func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if errors.Is(err, apperror.ErrForbidden) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		h.logger.Error("admin check failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	records, err := h.registrations.AllRegistrations(r.Context())
	if err != nil {
		h.logger.Error("admin report failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.templates.Render(w, "admin_dashboard.html", map[string]any{
		"Title":         "Admin Dashboard",
		"Registrations": records,
		"LoggedIn":      true,
	})
}

// HandleMakeAdmin promotes another account to admin.
//
// HTTP: POST /make_admin (admin only)
// REQUEST:  {"newAdminUsername": "bob"}
// RESPONSE: {"success": true, "message": "bob is now admin"}
//
// The first admin has no in-band path to the flag — it's set out-of-band
// (e.g. via the sqlite CLI); from then on admins can promote others here.
func (h *AdminHandler) HandleMakeAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		writeError(w, err)
		return
	}

	var req makeAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}
	if req.NewAdminUsername == "" {
		writeError(w, apperror.ValidationFailed("newAdminUsername", "Missing new admin username"))
		return
	}

	if err := h.accounts.Promote(r.Context(), req.NewAdminUsername); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeError(w, apperror.NotFound("user", req.NewAdminUsername))
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: fmt.Sprintf("%s is now admin", req.NewAdminUsername),
	})
}
