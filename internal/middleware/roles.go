package middleware

import (
	"net/http"
	"slices"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/httpx"
	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
)

// RequireActor rejects anonymous requests.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.ActorFrom(r.Context()); !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Utilisateur non authentifié - user-id manquant", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows only identified callers holding one of roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := auth.ActorFrom(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "Utilisateur non authentifié - user-id manquant", "")
				return
			}
			if !slices.Contains(roles, a.Role) {
				httpx.WriteError(w, http.StatusForbidden, "Accès non autorisé", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
