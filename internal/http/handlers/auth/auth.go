package auth

import (
	"context"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services/auth"
	"net/http"
	"strings"
)

const (
	AUTH_TOKEN_SCHEME  = "bearer"
	AUTH_TOKEN_MAX_LEN = 2048
)

// ParseToken reads a bearer token from the Authorization header. The scheme
// is matched case-insensitively.
func ParseToken(r *http.Request) (token user.SessionToken, ok bool) {
	scheme, value, found := strings.Cut(strings.TrimSpace(r.Header.Get("authorization")), " ")
	if !found || !strings.EqualFold(scheme, AUTH_TOKEN_SCHEME) {
		return token, false
	}
	value = strings.TrimSpace(value)
	if value == "" || len(value) > AUTH_TOKEN_MAX_LEN {
		return token, false
	}
	return user.SessionToken(value), true
}

func SetAuthTokenToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := ParseToken(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), auth.CONTEXT_AUTH_TOKEN_KEY, token))
		}
		next.ServeHTTP(w, r)
	})
}
