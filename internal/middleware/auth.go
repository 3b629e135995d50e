package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/httpx"
	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
)

// UserIDHeader carries the caller id when bearer tokens are not used.
const UserIDHeader = "user-id"

// ActorResolver loads the stored role of a claimed user id.
type ActorResolver interface {
	ResolveActor(ctx context.Context, id string) (auth.Actor, error)
}

type AuthMiddleware struct {
	Resolver ActorResolver
	// TM is nil when bearer tokens are disabled.
	TM *auth.TokenManager
}

func NewAuthMiddleware(resolver ActorResolver, tm *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{Resolver: resolver, TM: tm}
}

// Identify attaches the caller to the request context. A bearer access token
// wins over the user-id header. Requests without either pass through
// anonymously; a claimed id that does not resolve is rejected with 401.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserIDHeader))

		if ah := r.Header.Get("Authorization"); m.TM != nil && strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			claims, err := m.TM.ParseAccess(strings.TrimSpace(ah[len("Bearer "):]))
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "Jeton d'accès invalide", "")
				return
			}
			id = claims.UserID
		}
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := m.Resolver.ResolveActor(r.Context(), id)
		if err != nil {
			httpx.WriteServiceError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
	})
}
