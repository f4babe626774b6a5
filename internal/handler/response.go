package handler

// RESPONSE HELPERS:
// These functions standardise how the JSON routes respond.
//
// Every JSON response from the API has the same shape:
//
//	{"success": true,  "message": "alice registered for Swimming"}
//	{"success": false, "message": "Missing sport name"}
//
// This makes it easy for the frontend to parse — it always knows what fields
// to expect, regardless of whether it's a 200, 400, 404, or 500.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/sports-registration/internal/apperror"
)

// apiResponse is the standard envelope for all JSON endpoints.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status code must be set BEFORE writing the body. Once Encode
// calls w.Write(), the headers are sent and any later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and
// sends the standard failure envelope.
//
// The service layer returns apperror.ErrValidation, apperror.ErrNotFound,
// etc.; this is the single place those become 400, 404, and so on. Unknown
// errors become a generic 500 — the raw error might contain SQL or file
// paths, so it is logged upstream and never shown to the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError

	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, apiResponse{
			Success: false,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, apiResponse{
		Success: false,
		Message: "An internal error occurred",
	})
}
