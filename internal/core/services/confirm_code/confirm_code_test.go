package confirmcode

import (
	"context"
	"errors"
	c "exzly/internal/core/domain/common"
	"exzly/internal/core/domain/logging"
	uow "exzly/internal/core/domain/unit_of_work"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	activateaccount "exzly/internal/core/services/activate_account"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	CODE = verification.Code("482913")
	SID  = verification.SessionID("5f0c9a5e-8a9d-4a53-a1b8-2f3c1f6f7a10")
)

var NOW time.Time = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

var SETTINGS = verification.Settings{ResetWindow: 15 * time.Minute, Denylist: verification.DefaultDenylist}

type testSuite struct {
	suite.Suite
	Logger        *logging.FakeLogger
	UnitOfWork    *uow.FakeUnitOfWork
	Verifications *verification.FakeRepository
	TokenIssuer   *verification.FakeTokenIssuer
	Markers       *verification.FakeMarkerStore
	Service       services.Service[Input, Result]
	User          user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UnitOfWork = uow.NewFakeUnitOfWork()
	suite.Verifications = suite.UnitOfWork.Context.VerificationRepository
	suite.TokenIssuer = verification.NewFakeTokenIssuer()
	suite.Markers = verification.NewFakeMarkerStore()
	now := func() time.Time { return NOW }
	suite.Service = NewWithAccountActivation(
		suite.Logger,
		activateaccount.New(suite.Logger, suite.UnitOfWork, SETTINGS, now),
		New(
			suite.Logger,
			suite.Verifications,
			suite.TokenIssuer,
			suite.Markers,
			SETTINGS,
			now,
		),
	)

	u, err := suite.UnitOfWork.Context.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:     "test@example.com",
		Username:  "test",
		Password:  "test-password",
		CreatedAt: NOW.Add(-time.Hour),
	})
	suite.Require().Nil(err)
	suite.User = u
}

func (suite *testSuite) createRecord(purpose verification.Purpose, expiresAt time.Time) verification.Record {
	record, err := suite.Verifications.Create(context.Background(), verification.CreateInput{
		UserID:    suite.User.ID,
		Purpose:   purpose,
		Code:      CODE,
		CodeHash:  verification.NewFakeCodeHasher().HashCode(CODE),
		ExpiresAt: expiresAt,
		CreatedAt: NOW.Add(-time.Minute),
	})
	suite.Require().Nil(err)
	return record
}

func TestConfirmCodeService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestPasswordResetSuccess() {
	created := suite.createRecord(verification.PurposePasswordReset, NOW.Add(time.Minute))

	result, err := suite.Service.Run(context.Background(), Input{
		Code:      CODE,
		SessionID: c.NewOptional(SID, true),
	})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(verification.PurposePasswordReset, result.Purpose)
	assert.NotEmpty(result.Token)
	assert.False(result.Continue)

	stored, ok := suite.Verifications.Get(created.ID)
	assert.True(ok)
	assert.True(stored.CodeIsUsed)
	assert.False(stored.TokenIsUsed)
	assert.Equal(result.Token, stored.Token)
	assert.True(stored.ExpiresAt.After(created.ExpiresAt))
	assert.Equal(NOW.Add(SETTINGS.ResetWindow), stored.ExpiresAt)

	assert.Equal(result.Token, suite.Markers.Markers[SID])
	assert.Equal(SETTINGS.ResetWindow, suite.Markers.TTLs[SID])
}

func (suite *testSuite) TestPasswordResetWithoutSession() {
	suite.createRecord(verification.PurposePasswordReset, NOW.Add(time.Minute))

	result, err := suite.Service.Run(context.Background(), Input{Code: CODE})

	assert := suite.Require()
	assert.Nil(err)
	assert.NotEmpty(result.Token)
	assert.Len(suite.Markers.Markers, 0)
}

func (suite *testSuite) TestMarkerFailureDoesNotFail() {
	suite.createRecord(verification.PurposePasswordReset, NOW.Add(time.Minute))
	suite.Markers.ReturnError = true

	result, err := suite.Service.Run(context.Background(), Input{
		Code:      CODE,
		SessionID: c.NewOptional(SID, true),
	})

	assert := suite.Require()
	assert.Nil(err)
	assert.NotEmpty(result.Token)
	assert.Equal(1, suite.Logger.CountByLevel(logging.WARNING))
}

func (suite *testSuite) TestNotFound() {
	_, err := suite.Service.Run(context.Background(), Input{Code: "555123"})
	suite.Require().ErrorIs(err, verification.ErrRecordDoesNotExist)
}

func (suite *testSuite) TestSecondConfirmIsAlreadyUsed() {
	suite.createRecord(verification.PurposePasswordReset, NOW.Add(time.Minute))

	first, err := suite.Service.Run(context.Background(), Input{Code: CODE})
	suite.Require().Nil(err)

	_, err = suite.Service.Run(context.Background(), Input{Code: CODE})

	assert := suite.Require()
	assert.ErrorIs(err, verification.ErrAlreadyUsed)
	assert.Equal(1, suite.TokenIssuer.Count())
	assert.Equal(first.Token, suite.Verifications.Records[0].Token)
}

func (suite *testSuite) TestUsedWinsOverExpired() {
	created := suite.createRecord(verification.PurposePasswordReset, NOW.Add(-time.Minute))
	suite.Verifications.Records[0].CodeIsUsed = true

	_, err := suite.Service.Run(context.Background(), Input{Code: CODE})

	assert := suite.Require()
	assert.ErrorIs(err, verification.ErrAlreadyUsed)
	assert.False(errors.Is(err, verification.ErrExpired))
	stored, _ := suite.Verifications.Get(created.ID)
	assert.Equal(created.ExpiresAt, stored.ExpiresAt)
}

func (suite *testSuite) TestExpired() {
	created := suite.createRecord(verification.PurposePasswordReset, NOW.Add(-time.Second))

	_, err := suite.Service.Run(context.Background(), Input{Code: CODE})

	assert := suite.Require()
	assert.ErrorIs(err, verification.ErrExpired)
	stored, _ := suite.Verifications.Get(created.ID)
	assert.Equal(created, stored)
	assert.Equal(0, suite.TokenIssuer.Count())
}

func (suite *testSuite) TestMostRecentRecordIsUsed() {
	suite.createRecord(verification.PurposePasswordReset, NOW.Add(-time.Hour))
	latest := suite.createRecord(verification.PurposePasswordReset, NOW.Add(time.Minute))

	_, err := suite.Service.Run(context.Background(), Input{Code: CODE})

	assert := suite.Require()
	assert.Nil(err)
	stored, _ := suite.Verifications.Get(latest.ID)
	assert.True(stored.CodeIsUsed)
}

func (suite *testSuite) TestConcurrentConfirm() {
	suite.createRecord(verification.PurposePasswordReset, NOW.Add(time.Minute))

	const attempts = 16
	var (
		wg        sync.WaitGroup
		lock      sync.Mutex
		succeeded []Result
		used      int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := suite.Service.Run(context.Background(), Input{Code: CODE})
			lock.Lock()
			defer lock.Unlock()
			if err == nil {
				succeeded = append(succeeded, result)
			} else if errors.Is(err, verification.ErrAlreadyUsed) {
				used++
			}
		}()
	}
	wg.Wait()

	assert := suite.Require()
	assert.Len(succeeded, 1)
	assert.Equal(attempts-1, used)
	assert.Equal(succeeded[0].Token, suite.Verifications.Records[0].Token)
}

func (suite *testSuite) TestAccountVerification() {
	created := suite.createRecord(verification.PurposeAccountVerification, NOW.Add(time.Minute))

	result, err := suite.Service.Run(context.Background(), Input{
		Code:      CODE,
		SessionID: c.NewOptional(SID, true),
	})

	assert := suite.Require()
	assert.Nil(err)
	assert.True(result.Verified)
	assert.False(result.Continue)
	assert.Empty(result.Token)
	assert.Len(suite.Markers.Markers, 0)

	stored, _ := suite.Verifications.Get(created.ID)
	assert.True(stored.CodeIsUsed)
	assert.True(stored.ExpiresAt.After(created.ExpiresAt))

	u, err := suite.UnitOfWork.Context.UserRepository.GetByID(context.Background(), suite.User.ID)
	assert.Nil(err)
	assert.True(u.IsVerified())
}

func (suite *testSuite) TestAccountVerificationWithoutActivation() {
	service := New(
		suite.Logger,
		suite.Verifications,
		suite.TokenIssuer,
		suite.Markers,
		SETTINGS,
		func() time.Time { return NOW },
	)
	created := suite.createRecord(verification.PurposeAccountVerification, NOW.Add(time.Minute))

	result, err := service.Run(context.Background(), Input{Code: CODE})

	assert := suite.Require()
	assert.Nil(err)
	assert.True(result.Continue)
	assert.Equal(created.ID, result.Record.ID)
	stored, _ := suite.Verifications.Get(created.ID)
	assert.False(stored.CodeIsUsed)
}
