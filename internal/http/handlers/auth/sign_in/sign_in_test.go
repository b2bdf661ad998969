package signin

import (
	"context"
	"encoding/json"
	ratelimiter "exzly/internal/core/domain/rate_limiter"
	"exzly/internal/core/domain/user"
	service "exzly/internal/core/services/sign_in"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	if s.err != nil {
		return result, s.err
	}
	return service.Result{
		User:  user.User{ID: 5, Email: "jane@example.com", Username: "jane"},
		Token: "session-5",
	}, nil
}

func TestSignInHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		err            error
		expectedStatus int
	}{
		{id: "success", body: `{"identity": "jane", "password": "password1"}`, expectedStatus: http.StatusOK},
		{id: "missing-password", body: `{"identity": "jane"}`, expectedStatus: http.StatusBadRequest},
		{id: "broken-json", body: `[`, expectedStatus: http.StatusBadRequest},
		{
			id:             "invalid-credentials",
			body:           `{"identity": "jane", "password": "wrong"}`,
			err:            user.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			id:             "rate-limited",
			body:           `{"identity": "jane", "password": "password1"}`,
			err:            &ratelimiter.LimitExceededError{RetryAfter: time.Minute},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			id:             "internal",
			body:           `{"identity": "jane", "password": "password1"}`,
			err:            context.DeadlineExceeded,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(testcase.body))
			rw := httptest.NewRecorder()

			New(&stubService{err: testcase.err}).ServeHTTP(rw, r)

			assert.Equal(t, testcase.expectedStatus, rw.Code)
		})
	}
}

func TestSignInHandlerRendersToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(`{"identity": "jane", "password": "p"}`))
	rw := httptest.NewRecorder()

	New(&stubService{}).ServeHTTP(rw, r)

	res := Result{}
	require.Nil(t, json.NewDecoder(rw.Body).Decode(&res))
	assert.Equal(t, "session-5", res.Token)
	assert.Equal(t, int64(5), res.User.ID)
}
