package session

import (
	"context"
	"exzly/internal/core/domain/verification"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(r *http.Request) (*httptest.ResponseRecorder, verification.SessionID) {
	var sid verification.SessionID
	handler := WithSession(Options{MaxAge: time.Hour})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, _ = FromContext(r.Context())
	}))
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, r)
	return rw, sid
}

func TestNewSessionIsIssued(t *testing.T) {
	rw, sid := serve(httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, sid)
	cookies := rw.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, COOKIE_NAME, cookies[0].Name)
	assert.Equal(t, string(sid), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestExistingSessionIsKept(t *testing.T) {
	existing := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: COOKIE_NAME, Value: existing})

	rw, sid := serve(r)

	assert.Equal(t, verification.SessionID(existing), sid)
	assert.Empty(t, rw.Result().Cookies())
}

func TestMalformedSessionIsReplaced(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: COOKIE_NAME, Value: "../../etc"})

	rw, sid := serve(r)

	assert.NotEqual(t, verification.SessionID("../../etc"), sid)
	assert.Len(t, rw.Result().Cookies(), 1)
}

func TestFromRequestCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	_, ok := FromRequestCookie(r)
	assert.False(t, ok)

	existing := uuid.NewString()
	r.AddCookie(&http.Cookie{Name: COOKIE_NAME, Value: existing})
	sid, ok := FromRequestCookie(r)
	assert.True(t, ok)
	assert.Equal(t, verification.SessionID(existing), sid)
}

func TestRefreshReissuesExistingSession(t *testing.T) {
	existing := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: COOKIE_NAME, Value: existing})
	rw := httptest.NewRecorder()

	handler := WithSession(Options{MaxAge: 15 * time.Minute})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Refresh(r.Context(), w)
	}))
	handler.ServeHTTP(rw, r)

	cookies := rw.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, existing, cookies[0].Value)
	assert.Equal(t, 900, cookies[0].MaxAge)
}

func TestRefreshDoesNotDuplicateNewSession(t *testing.T) {
	rw := httptest.NewRecorder()

	handler := WithSession(Options{MaxAge: time.Hour})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Refresh(r.Context(), w)
	}))
	handler.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, rw.Result().Cookies(), 1)
}

func TestRefreshWithoutMiddleware(t *testing.T) {
	rw := httptest.NewRecorder()

	Refresh(WithSessionID(context.Background(), verification.SessionID(uuid.NewString())), rw)

	assert.Empty(t, rw.Result().Cookies())
}
