package http

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const accessTokenCookie = "access_token"

type contextKeySession struct{}

// SessionFrom returns the claims stored by RequireRole.
func SessionFrom(ctx context.Context) (*ports.SessionClaims, bool) {
	claims, ok := ctx.Value(contextKeySession{}).(*ports.SessionClaims)
	return claims, ok
}

// RequireRole accepts a bearer token or the access_token cookie and rejects
// sessions whose role is not listed.
func RequireRole(auth ports.AuthService, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}

			claims, err := auth.ParseToken(token)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !slices.Contains(roles, claims.Role) {
				writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden", Message: "insufficient role"})
				return
			}

			ctx := context.WithValue(r.Context(), contextKeySession{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
