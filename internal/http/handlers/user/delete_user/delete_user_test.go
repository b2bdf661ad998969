package deleteuser

import (
	"context"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services/auth"
	deleteuser "exzly/internal/core/services/delete_user"
	handlerauth "exzly/internal/http/handlers/auth"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (http.Handler, *user.FakeUserRepository) {
	users := user.NewFakeUserRepository()
	for _, input := range []user.CreateUserInput{
		{Email: "jane@example.com", Username: "jane", Password: "password1"},
		{Email: "admin@example.com", Username: "admin", Password: "password1", IsAdmin: true},
	} {
		_, err := users.Create(context.Background(), input)
		require.Nil(t, err)
	}

	handler := New(auth.WithAuthentication[deleteuser.Input, deleteuser.Result](
		user.NewFakeSessionTokenIssuer(),
		users,
		deleteuser.New(logging.NewFakeLogger(), users, time.Now),
	))
	router := chi.NewRouter()
	router.Use(handlerauth.SetAuthTokenToContext)
	router.Method(http.MethodDelete, "/profile/{userId}", handler)
	return router, users
}

func TestDeleteUser(t *testing.T) {
	cases := []struct {
		id             string
		url            string
		token          string
		expectedStatus int
	}{
		{id: "soft", url: "/profile/1", token: "session-2", expectedStatus: http.StatusOK},
		{id: "non-admin", url: "/profile/2", token: "session-1", expectedStatus: http.StatusForbidden},
		{id: "self", url: "/profile/2", token: "session-2", expectedStatus: http.StatusBadRequest},
		{id: "unknown-user", url: "/profile/100500", token: "session-2", expectedStatus: http.StatusNotFound},
		{id: "anonymous", url: "/profile/1", expectedStatus: http.StatusUnauthorized},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			router, _ := newRouter(t)
			r := httptest.NewRequest(http.MethodDelete, testcase.url, nil)
			if testcase.token != "" {
				r.Header.Set("Authorization", "Bearer "+testcase.token)
			}
			rw := httptest.NewRecorder()

			router.ServeHTTP(rw, r)

			assert.Equal(t, testcase.expectedStatus, rw.Code)
		})
	}
}

func TestDeleteUserInTrash(t *testing.T) {
	router, users := newRouter(t)
	ctx := context.Background()

	send := func(url string) int {
		r := httptest.NewRequest(http.MethodDelete, url, nil)
		r.Header.Set("Authorization", "Bearer session-2")
		rw := httptest.NewRecorder()
		router.ServeHTTP(rw, r)
		return rw.Code
	}

	require.Equal(t, http.StatusOK, send("/profile/1"))
	deleted, err := users.GetByIDWithDeleted(ctx, 1)
	require.Nil(t, err)
	assert.True(t, deleted.IsDeleted())

	require.Equal(t, http.StatusNotFound, send("/profile/1"))
	require.Equal(t, http.StatusOK, send("/profile/1?in-trash=true"))
	_, err = users.GetByIDWithDeleted(ctx, 1)
	assert.ErrorIs(t, err, user.ErrUserDoesNotExist)
}
