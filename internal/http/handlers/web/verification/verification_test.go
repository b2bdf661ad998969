package verification

import (
	"context"
	"exzly/internal/core/domain/logging"
	uow "exzly/internal/core/domain/unit_of_work"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	activateaccount "exzly/internal/core/services/activate_account"
	confirmlink "exzly/internal/core/services/confirm_link"
	getresetmarker "exzly/internal/core/services/get_reset_marker"
	"exzly/internal/http/handlers/session"
	"exzly/internal/http/handlers/web"
	resetpassword "exzly/internal/http/handlers/web/reset_password"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

const CODE = verification.Code("482913")

var NOW time.Time = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	UnitOfWork    *uow.FakeUnitOfWork
	Verifications *verification.FakeRepository
	Markers       *verification.FakeMarkerStore
	Hash          verification.CodeHash
	User          user.User
	Router        http.Handler
}

func (suite *testSuite) SetupTest() {
	log := logging.NewFakeLogger()
	settings := verification.Settings{ResetWindow: 15 * time.Minute, Denylist: verification.DefaultDenylist}
	now := func() time.Time { return NOW }

	suite.UnitOfWork = uow.NewFakeUnitOfWork()
	suite.Verifications = suite.UnitOfWork.Context.VerificationRepository
	suite.Markers = verification.NewFakeMarkerStore()
	suite.Hash = verification.NewFakeCodeHasher().HashCode(CODE)

	u, err := suite.UnitOfWork.Context.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:    "jane@example.com",
		Username: "jane",
		Password: "password1",
	})
	suite.Require().Nil(err)
	suite.User = u

	renderer := web.MustNewRenderer()
	confirm := confirmlink.New(
		log,
		suite.Verifications,
		verification.NewFakeTokenIssuer(),
		suite.Markers,
		activateaccount.New(log, suite.UnitOfWork, settings, now),
		settings,
		now,
	)

	router := chi.NewRouter()
	router.Use(session.WithSession(session.Options{MaxAge: time.Hour}))
	router.Method(http.MethodGet, "/web/verification", New(confirm, renderer, "", "/web/reset-password"))
	router.Method(
		http.MethodGet,
		"/web/reset-password",
		resetpassword.New(getresetmarker.New(log, suite.Markers), renderer, ""),
	)
	suite.Router = router
}

func (suite *testSuite) createRecord(purpose verification.Purpose, expiresAt time.Time) verification.Record {
	record, err := suite.Verifications.Create(context.Background(), verification.CreateInput{
		UserID:    suite.User.ID,
		Purpose:   purpose,
		Code:      CODE,
		CodeHash:  suite.Hash,
		ExpiresAt: expiresAt,
		CreatedAt: NOW.Add(-time.Minute),
	})
	suite.Require().Nil(err)
	return record
}

func (suite *testSuite) get(url string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, url, nil)
	for _, cookie := range cookies {
		r.AddCookie(cookie)
	}
	rw := httptest.NewRecorder()
	suite.Router.ServeHTTP(rw, r)
	return rw
}

func (suite *testSuite) TestFormIsRenderedWithoutToken() {
	rw := suite.get("/web/verification")

	suite.Equal(http.StatusOK, rw.Code)
	suite.Contains(rw.Body.String(), "verification-form")
}

func (suite *testSuite) TestPasswordResetLinkRedirectsToResetPage() {
	suite.createRecord(verification.PurposePasswordReset, NOW.Add(10*time.Minute))

	rw := suite.get("/web/verification?token=" + string(suite.Hash))

	suite.Equal(http.StatusSeeOther, rw.Code)
	suite.Equal("/web/reset-password", rw.Header().Get("Location"))
	cookies := rw.Result().Cookies()
	suite.Require().Len(cookies, 1)

	record := suite.Verifications.Records[0]
	suite.True(record.CodeIsUsed)
	suite.NotEmpty(record.Token)
	suite.Equal(record.Token, suite.Markers.Markers[verification.SessionID(cookies[0].Value)])

	rw = suite.get("/web/reset-password", cookies[0])
	suite.Equal(http.StatusOK, rw.Code)
	suite.Contains(rw.Body.String(), string(record.Token))
}

func (suite *testSuite) TestPasswordResetLinkRefreshesExistingSession() {
	rw := suite.get("/web/verification")
	cookies := rw.Result().Cookies()
	suite.Require().Len(cookies, 1)
	sid := cookies[0]

	suite.createRecord(verification.PurposePasswordReset, NOW.Add(10*time.Minute))
	rw = suite.get("/web/verification?token="+string(suite.Hash), sid)

	suite.Equal(http.StatusSeeOther, rw.Code)
	refreshed := rw.Result().Cookies()
	suite.Require().Len(refreshed, 1)
	suite.Equal(sid.Value, refreshed[0].Value)
	suite.Equal(3600, refreshed[0].MaxAge)
	suite.NotEmpty(suite.Markers.Markers[verification.SessionID(sid.Value)])
}

func (suite *testSuite) TestResetPageWithoutMarker() {
	rw := suite.get("/web/reset-password")
	suite.Equal(http.StatusNotFound, rw.Code)
}

func (suite *testSuite) TestAccountVerificationLink() {
	suite.createRecord(verification.PurposeAccountVerification, NOW.Add(10*time.Minute))

	rw := suite.get("/web/verification?token=" + string(suite.Hash))

	suite.Equal(http.StatusOK, rw.Code)
	suite.Contains(rw.Body.String(), "Account verified")
	u, err := suite.UnitOfWork.Context.UserRepository.GetByID(context.Background(), suite.User.ID)
	suite.Require().Nil(err)
	suite.True(u.IsVerified())
}

func (suite *testSuite) TestExpiredLinkRendersExpiredPage() {
	suite.createRecord(verification.PurposePasswordReset, NOW.Add(-time.Second))

	rw := suite.get("/web/verification?token=" + string(suite.Hash))

	suite.Equal(http.StatusOK, rw.Code)
	suite.Contains(rw.Body.String(), "Link expired")
	suite.Empty(suite.Markers.Markers)
}

func (suite *testSuite) TestUsedLink() {
	suite.createRecord(verification.PurposePasswordReset, NOW.Add(10*time.Minute))
	suite.Equal(http.StatusSeeOther, suite.get("/web/verification?token="+string(suite.Hash)).Code)

	rw := suite.get("/web/verification?token=" + string(suite.Hash))

	suite.Equal(http.StatusBadRequest, rw.Code)
	suite.Contains(rw.Body.String(), "The requested link has been used")
}

func (suite *testSuite) TestUnknownLink() {
	rw := suite.get("/web/verification?token=unknown")
	suite.Equal(http.StatusBadRequest, rw.Code)

	rw = suite.get("/web/verification?token=" + strings.Repeat("a", MAX_TOKEN_LEN+1))
	suite.Equal(http.StatusBadRequest, rw.Code)
}

func TestWebVerification(t *testing.T) {
	suite.Run(t, new(testSuite))
}
