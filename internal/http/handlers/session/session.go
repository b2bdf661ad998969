package session

import (
	"context"
	"exzly/internal/core/domain/verification"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const COOKIE_NAME = "sid"

type contextSessionKey string

const contextSessionIDKey = contextSessionKey("session")

type Options struct {
	Secure bool
	MaxAge time.Duration
}

type contextSession struct {
	id     verification.SessionID
	opts   *Options
	issued bool
}

// WithSession attaches the session id from the sid cookie to the request
// context, issuing a new random id when the cookie is missing or malformed.
func WithSession(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := contextSession{opts: &opts}
			sid, ok := fromCookie(r)
			if !ok {
				sid = verification.SessionID(uuid.NewString())
				SetCookie(w, sid, opts)
				s.issued = true
			}
			s.id = sid
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextSessionIDKey, s)))
		})
	}
}

// SetCookie writes the sid cookie with a full MaxAge counted from now.
func SetCookie(w http.ResponseWriter, sid verification.SessionID, opts Options) {
	http.SetCookie(w, &http.Cookie{
		Name:     COOKIE_NAME,
		Value:    string(sid),
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Refresh re-issues the cookie of the session attached by WithSession so it
// lives at least as long as a marker stored now. A cookie issued during the
// same request is already fresh.
func Refresh(ctx context.Context, w http.ResponseWriter) {
	s, ok := ctx.Value(contextSessionIDKey).(contextSession)
	if !ok || s.opts == nil || s.issued || s.id == "" {
		return
	}
	SetCookie(w, s.id, *s.opts)
}

func fromCookie(r *http.Request) (verification.SessionID, bool) {
	cookie, err := r.Cookie(COOKIE_NAME)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", false
	}
	return verification.SessionID(cookie.Value), true
}

func WithSessionID(ctx context.Context, sid verification.SessionID) context.Context {
	return context.WithValue(ctx, contextSessionIDKey, contextSession{id: sid})
}

func FromContext(ctx context.Context) (verification.SessionID, bool) {
	s, ok := ctx.Value(contextSessionIDKey).(contextSession)
	return s.id, ok && s.id != ""
}

// FromRequestCookie returns the session id only when the client already
// carries one. Used by API routes which never issue cookies.
func FromRequestCookie(r *http.Request) (verification.SessionID, bool) {
	return fromCookie(r)
}
