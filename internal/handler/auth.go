package handler

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/curza/testgen/internal/model"
)

// Claims are the token claims issued by the identity provider.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// requireAuth verifies the Bearer token on every request and attaches
// the caller identity to the context. Enforcement is uniform across all
// generation and scoring endpoints. When no auth secret is configured
// the check is disabled (local development).
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(h.authSecret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, kindUnauthenticated, "missing bearer token")
			return
		}

		claims, err := h.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, kindUnauthenticated, "invalid token")
			return
		}

		ctx := model.ContextWithCaller(r.Context(), &model.Caller{
			Subject: claims.Subject,
			Name:    claims.Name,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) parseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (any, error) { return h.authSecret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
