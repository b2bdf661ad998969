package uow

import (
	"context"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/db"
	dbuser "exzly/internal/db/user"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool   *pgxpool.Pool
	hasher *user.FakePasswordHasher
	uow    *PgxUnitOfWork
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.hasher = user.NewFakePasswordHasher()
	suite.uow = NewPgxUnitOfWork(suite.pool, suite.hasher)
}

func (suite *testSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUnitOfWork(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) createUser() user.User {
	u, err := dbuser.NewPgxRepository(s.pool, s.hasher).Create(context.Background(), user.CreateUserInput{
		Email:     "test@test.test",
		Username:  "tester",
		Password:  "old-password",
		CreatedAt: NOW,
	})
	s.Require().Nil(err)
	return u
}

func (s *testSuite) TestCommit() {
	ctx := context.Background()
	u := s.createUser()

	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	defer uow.Rollback(ctx)

	record, err := uow.Verifications().Create(ctx, verification.CreateInput{
		UserID:    u.ID,
		Purpose:   verification.PurposePasswordReset,
		Code:      "482913",
		CodeHash:  "hash",
		ExpiresAt: NOW.Add(time.Hour),
		CreatedAt: NOW,
	})
	s.Require().Nil(err)
	s.Require().Nil(uow.Users().UpdatePassword(ctx, u.ID, "new-password"))
	s.Require().Nil(uow.Commit(ctx))

	stored, err := dbuser.NewPgxRepository(s.pool, s.hasher).GetByID(ctx, u.ID)
	s.Require().Nil(err)
	s.True(s.hasher.ValidatePassword("new-password", stored.PasswordHash))

	check, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	defer check.Rollback(ctx)
	found, err := check.Verifications().GetByCode(ctx, "482913")
	s.Require().Nil(err)
	s.Equal(record.ID, found.ID)
}

func (s *testSuite) TestRollback() {
	ctx := context.Background()
	u := s.createUser()

	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	s.Require().Nil(uow.Users().UpdatePassword(ctx, u.ID, "new-password"))
	s.Require().Nil(uow.Rollback(ctx))

	stored, err := dbuser.NewPgxRepository(s.pool, s.hasher).GetByID(ctx, u.ID)
	s.Require().Nil(err)
	s.True(s.hasher.ValidatePassword("old-password", stored.PasswordHash))
}
