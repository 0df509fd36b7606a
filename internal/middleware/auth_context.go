package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/httpjson"
	"pet-adoption/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	HeaderDebugUserID = "X-Debug-User-ID"
	HeaderDebugRole   = "X-Debug-Role"
)

// AuthContext:
//   - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
//   - Si devHeaders y no hay verifier => acepta X-Debug-User-ID / X-Debug-Role
//     (rol por defecto admin). Con verifier los headers de debug se ignoran.
//   - Si no hay claims, el request sigue igual; RequireRole decide 401/403.
func AuthContext(verifier auth.AuthVerifier, devHeaders bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier != nil {
				if token := bearerToken(r.Header.Get("Authorization")); token != "" {
					claims, err := verifier.Verify(r.Context(), token)
					if err == nil {
						next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
						return
					}
				}
			}

			if devHeaders && verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get(HeaderDebugUserID)); uid != "" {
					role := strings.TrimSpace(r.Header.Get(HeaderDebugRole))
					if role == "" {
						role = auth.RoleAdmin
					}
					claims := auth.Claims{UserID: uid, Role: role}
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole corta con 401 sin claims y 403 si el rol no alcanza.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				httpjson.Error(w, r, apperr.ErrUnauthorized)
				return
			}
			if !claims.HasRole(role) {
				httpjson.Error(w, r, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
