package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

// Middleware authenticates bearer tokens and enforces roles.
type Middleware struct {
	Tokens *TokenStore
	Logger *slog.Logger
}

// Authenticate resolves the Authorization header into an identity.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		identity, err := m.Tokens.Lookup(r.Context(), token)
		if err != nil {
			m.Logger.Warn("token lookup failed", slog.String("path", r.URL.Path))
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireRole allows only the listed roles through. Runs after Authenticate.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no identity")
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "role not permitted")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
