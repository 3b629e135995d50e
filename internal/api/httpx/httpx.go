package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

// APIError is the error body every endpoint answers with.
type APIError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string, detail string) {
	WriteJSON(w, status, APIError{Message: msg, Error: detail})
}

// StatusOf maps an application error kind to its HTTP status. Conflicts
// answer 400 like other client errors.
func StatusOf(k services.Kind) int {
	switch k {
	case services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// WriteServiceError writes err as {message, error}. The cause of an
// internal error is included in the error field.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		slog.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "err", err)
		WriteError(w, http.StatusInternalServerError, "Erreur interne du serveur", err.Error())
		return
	}
	status := StatusOf(se.Kind)
	detail := ""
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		if se.Err != nil {
			detail = se.Err.Error()
		}
	}
	WriteError(w, status, se.Message, detail)
}

// DecodeJSON reads a JSON body into v. An empty body leaves v untouched.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return services.Validation("Corps de requête JSON invalide")
	}
	return nil
}
