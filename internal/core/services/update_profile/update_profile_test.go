package updateprofile

import (
	"context"
	c "exzly/internal/core/domain/common"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger  *logging.FakeLogger
	Users   *user.FakeUserRepository
	Service services.Service[Input, Result]
	Jane    user.User
	John    user.User
	Admin   user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Users = user.NewFakeUserRepository()
	suite.Jane = suite.create("jane@example.com", "jane", false)
	suite.John = suite.create("john@example.com", "john", false)
	suite.Admin = suite.create("admin@example.com", "admin", true)
	suite.Service = New(suite.Logger, suite.Users, func() time.Time { return NOW.Add(time.Hour) })
}

func (suite *testSuite) create(email c.Email, username user.Username, isAdmin bool) user.User {
	u, err := suite.Users.Create(context.Background(), user.CreateUserInput{
		Email:     email,
		Username:  username,
		Password:  "password1",
		IsAdmin:   isAdmin,
		CreatedAt: NOW,
	})
	suite.Require().Nil(err)
	return u
}

func TestUpdateProfileService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestOwnerUpdatesOwnProfile() {
	result, err := suite.Service.Run(context.Background(), Input{User: suite.Jane, FullName: "Jane Doe"})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(suite.Jane.ID, result.User.ID)
	assert.Equal("Jane Doe", result.User.FullName)
	assert.Equal(NOW.Add(time.Hour), result.User.UpdatedAt)
}

func (suite *testSuite) TestAdminUpdatesOtherProfile() {
	result, err := suite.Service.Run(context.Background(), Input{
		User:     suite.Admin,
		UserID:   c.NewOptional(suite.John.ID, true),
		FullName: "John Roe",
	})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(suite.John.ID, result.User.ID)
	assert.Equal("John Roe", result.User.FullName)
}

func (suite *testSuite) TestOtherProfileIsForbidden() {
	_, err := suite.Service.Run(context.Background(), Input{
		User:     suite.Jane,
		UserID:   c.NewOptional(suite.John.ID, true),
		FullName: "Hijacked",
	})

	assert := suite.Require()
	assert.ErrorIs(err, user.ErrPermissionDenied)
	john, err := suite.Users.GetByID(context.Background(), suite.John.ID)
	assert.Nil(err)
	assert.Equal("", john.FullName)
	assert.Equal(1, suite.Logger.CountByLevel(logging.WARNING))
}

func (suite *testSuite) TestUnknownUser() {
	_, err := suite.Service.Run(context.Background(), Input{
		User:     suite.Admin,
		UserID:   c.NewOptional(user.ID(100500), true),
		FullName: "Nobody",
	})

	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestRepositoryError() {
	suite.Users.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{User: suite.Jane, FullName: "Jane Doe"})

	suite.Require().NotNil(err)
	suite.Require().Equal(1, suite.Logger.CountByLevel(logging.ERROR))
}
