package middleware

import (
	"log/slog"
	"net/http"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/httpx"
)

// Recover answers a panicking handler with a 500 JSON body.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "handler panic",
					"err", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", RequestIDFrom(r.Context()),
				)
				httpx.WriteError(w, http.StatusInternalServerError, "Erreur interne du serveur", "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
