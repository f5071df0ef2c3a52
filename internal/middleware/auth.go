// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"net/http"
	"strings"

	"github.com/chatterbox-im/chatterbox/internal/auth"

	"github.com/gorilla/mux"
)

// Authenticate extracts a bearer token and attaches the verified identity
// to the request context. Requests without an Authorization header pass
// through anonymous — the resolver layer decides which operations require
// an identity. A presented-but-invalid token is rejected outright.
func Authenticate(jwtMgr *auth.JWTManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
			if token == "" {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := jwtMgr.VerifyToken(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), claims)))
		})
	}
}
