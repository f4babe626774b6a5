package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/sports-registration/internal/apperror"
	"github.com/sakif/sports-registration/internal/auth"
	"github.com/sakif/sports-registration/internal/service"
)

// SportsHandler serves the sport selection page and the registration JSON API.
type SportsHandler struct {
	registrations *service.RegistrationService
	templates     *Templates
	logger        *slog.Logger
}

// NewSportsHandler creates a SportsHandler.
func NewSportsHandler(
	registrations *service.RegistrationService,
	templates *Templates,
	logger *slog.Logger,
) *SportsHandler {
	return &SportsHandler{
		registrations: registrations,
		templates:     templates,
		logger:        logger,
	}
}

// sportRequest is the JSON body of register/deregister calls.
type sportRequest struct {
	SportName string `json:"sportName"`
}

// HandleSelectSports renders the sport selection page with every sport.
//
// HTTP: GET /select_sports (session required; anonymous users are redirected
// to /login by the RequirePage middleware)
func (h *SportsHandler) HandleSelectSports(w http.ResponseWriter, r *http.Request) {
	sports, err := h.registrations.ListSports(r.Context())
	if err != nil {
		h.logger.Error("listing sports failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.templates.Render(w, "select_sports.html", map[string]any{
		"Title":    "Select Sports",
		"Sports":   sports,
		"LoggedIn": true,
	})
}

// HandleSportIcon returns the static asset path for a sport's icon in the
// requested colour.
//
// HTTP: GET /get_sport_icon/{sport}/{colour}
//
// The sport segment is validated against the sports table so the response
// never reflects arbitrary path input back to the client.
func (h *SportsHandler) HandleSportIcon(w http.ResponseWriter, r *http.Request) {
	sport := r.PathValue("sport")
	colour := r.PathValue("colour")
	if sport == "" || colour == "" {
		writeError(w, apperror.ValidationFailed("sport", "Missing sport or colour"))
		return
	}

	sports, err := h.registrations.ListSports(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	known := false
	for _, s := range sports {
		if s.Name == sport {
			known = true
			break
		}
	}
	if !known {
		writeError(w, apperror.NotFound("sport", sport))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "/static/img/icons_%s/%s_icon.png", colour, sport)
}

// HandleRegisteredSports returns the sport names the logged-in student is
// registered for.
//
// HTTP: GET /get_registered_sports (session required)
// RESPONSE: ["Basketball","Swimming"]
func (h *SportsHandler) HandleRegisteredSports(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.Username(r.Context())
	if !ok {
		writeError(w, apperror.ValidationFailed("username", "Missing username"))
		return
	}

	names, err := h.registrations.RegisteredSportNames(r.Context(), username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Session names a user that no longer exists.
			writeError(w, apperror.NotFound("user", username))
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, names)
}

// HandleRegister signs the logged-in student up for a sport.
//
// HTTP: POST /register_for_sport
// REQUEST:  {"sportName": "Swimming"}
// RESPONSE: {"success": true, "message": "alice registered for Swimming"}
//
// Registering twice succeeds both times and leaves exactly one row.
func (h *SportsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.registrations.Register)
}

// HandleDeregister removes the logged-in student from a sport's roster.
//
// HTTP: POST /deregister_for_sport
// Symmetric with HandleRegister: deregistering an absent pair still succeeds.
func (h *SportsHandler) HandleDeregister(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.registrations.Deregister)
}

// toggle is the shared body of register/deregister: decode the sport name,
// resolve the session identity, delegate, map the result.
func (h *SportsHandler) toggle(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, username, sportName string) (*service.RegistrationResult, error),
) {
	var req sportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}

	username, _ := auth.Username(r.Context())

	result, err := op(r.Context(), username, req.SportName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
