package resetpassword

import (
	"context"
	"encoding/json"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	service "exzly/internal/core/services/redeem_token"
	"exzly/internal/http/handlers/response"
	"exzly/internal/http/handlers/session"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	return result, s.err
}

func TestResetPasswordHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{id: "success", body: `{"token": "t", "newPassword": "password1"}`, expectedStatus: http.StatusOK},
		{id: "missing-token", body: `{"newPassword": "password1"}`, expectedStatus: http.StatusBadRequest},
		{id: "short-password", body: `{"token": "t", "newPassword": "p"}`, expectedStatus: http.StatusBadRequest},
		{
			id:             "not-found",
			body:           `{"token": "t", "newPassword": "password1"}`,
			err:            verification.ErrRecordDoesNotExist,
			expectedStatus: http.StatusBadRequest,
			expectedError:  response.MsgInvalidToken,
		},
		{
			id:             "used",
			body:           `{"token": "t", "newPassword": "password1"}`,
			err:            verification.ErrAlreadyUsed,
			expectedStatus: http.StatusBadRequest,
			expectedError:  response.MsgTokenIsUsed,
		},
		{
			id:             "expired",
			body:           `{"token": "t", "newPassword": "password1"}`,
			err:            verification.ErrExpired,
			expectedStatus: http.StatusBadRequest,
			expectedError:  response.MsgCodeExpired,
		},
		{
			id:             "user-gone",
			body:           `{"token": "t", "newPassword": "password1"}`,
			err:            user.ErrUserDoesNotExist,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/auth/reset-password", strings.NewReader(testcase.body))
			rw := httptest.NewRecorder()

			New(&stubService{err: testcase.err}).ServeHTTP(rw, r)

			assert.Equal(t, testcase.expectedStatus, rw.Code)
			if testcase.expectedError != "" {
				res := map[string]string{}
				require.Nil(t, json.NewDecoder(rw.Body).Decode(&res))
				assert.Equal(t, testcase.expectedError, res["error"])
			}
		})
	}
}

func TestResetPasswordHandlerPassesSession(t *testing.T) {
	s := &stubService{}
	sid := uuid.NewString()
	r := httptest.NewRequest(
		http.MethodPost,
		"/auth/reset-password",
		strings.NewReader(`{"token": "reset-token", "newPassword": "password1"}`),
	)
	r.AddCookie(&http.Cookie{Name: session.COOKIE_NAME, Value: sid})
	rw := httptest.NewRecorder()

	New(s).ServeHTTP(rw, r)

	require.Equal(t, http.StatusOK, rw.Code)
	assert.JSONEq(t, `{"success": true}`, rw.Body.String())
	assert.Equal(t, verification.Token("reset-token"), s.input.Token)
	assert.Equal(t, user.RawPassword("password1"), s.input.Password)
	assert.Equal(t, verification.SessionID(sid), s.input.SessionID.Value)
}
