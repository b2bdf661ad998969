package ratelimiting

import (
	"context"
	"errors"
	"exzly/internal/core/domain/logging"
	ratelimiter "exzly/internal/core/domain/rate_limiter"
	"exzly/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type input struct {
	Value string
}

func (i input) GetRateLimitKey() string {
	return "test-rate-limiting-key::" + i.Value
}

type result struct{}

type stubService struct {
	WasCalled bool
}

func (s *stubService) Run(ctx context.Context, input input) (result result, err error) {
	s.WasCalled = true
	return result, nil
}

type testRateLimitingSuite struct {
	suite.Suite
	Logger      *logging.FakeLogger
	RateLimiter *ratelimiter.FakeRateLimiter
	Inner       *stubService
	Service     services.Service[input, result]
}

func (suite *testRateLimitingSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.RateLimiter = ratelimiter.NewFakeRateLimiter(false)
	suite.Inner = &stubService{}
	suite.Service = WithRateLimiting[input, result](
		suite.Logger,
		suite.RateLimiter,
		ratelimiter.Limit{MaxAttempts: 10, Window: time.Minute},
		suite.Inner,
	)
}

func TestRateLimitingService(t *testing.T) {
	suite.Run(t, new(testRateLimitingSuite))
}

func (suite *testRateLimitingSuite) TestNotLimited() {
	ctx := context.Background()
	suite.RateLimiter.IsAllowed = true
	_, err := suite.Service.Run(ctx, input{Value: "test"})

	assert := suite.Require()
	assert.Nil(err)
	assert.True(suite.Inner.WasCalled)
	assert.Equal([]string{"test-rate-limiting-key::test"}, suite.RateLimiter.Keys)
}

func (suite *testRateLimitingSuite) TestLimited() {
	ctx := context.Background()
	suite.RateLimiter.IsAllowed = false
	suite.RateLimiter.RetryAfter = 90 * time.Second
	_, err := suite.Service.Run(ctx, input{Value: "test"})

	assert := suite.Require()
	assert.False(suite.Inner.WasCalled)
	assert.ErrorIs(err, ratelimiter.ErrRateLimitExceeded)

	var limitErr *ratelimiter.LimitExceededError
	assert.True(errors.As(err, &limitErr))
	assert.Equal(90*time.Second, limitErr.RetryAfter)
	assert.Equal("Too many requests. Please try again after 2 minutes", limitErr.Message())
	assert.Equal(1, suite.Logger.CountByLevel(logging.WARNING))
}
