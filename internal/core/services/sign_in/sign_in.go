package signin

import (
	"context"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
)

type Input struct {
	Identity string
	Password user.RawPassword
	ClientIP string
}

func (i Input) GetRateLimitKey() string {
	return "sign-in::" + i.ClientIP
}

type Result struct {
	User  user.User
	Token user.SessionToken
}

type service struct {
	log            logging.Logger
	users          user.UserRepository
	passwordHasher user.PasswordHasher
	tokenIssuer    user.SessionTokenIssuer
}

func New(
	log logging.Logger,
	users user.UserRepository,
	passwordHasher user.PasswordHasher,
	tokenIssuer user.SessionTokenIssuer,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if users == nil {
		panic(e.NewNilArgumentError("users"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if tokenIssuer == nil {
		panic(e.NewNilArgumentError("tokenIssuer"))
	}
	return &service{
		log:            log,
		users:          users,
		passwordHasher: passwordHasher,
		tokenIssuer:    tokenIssuer,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.users.GetByIdentity(ctx, input.Identity)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User not found.")
		return result, user.ErrInvalidCredentials
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user by identity.", logging.Entry("err", err))
		return result, err
	}

	if !s.passwordHasher.ValidatePassword(input.Password, u.PasswordHash) {
		s.log.Info(ctx, "Invalid password.", logging.Entry("userId", u.ID))
		return result, user.ErrInvalidCredentials
	}

	token, err := s.tokenIssuer.IssueSessionToken(u.ID)
	if err != nil {
		s.log.Error(ctx, "Could not issue session token.", logging.Entry("err", err))
		return result, err
	}

	s.log.Info(ctx, "User has signed in.", logging.Entry("userId", u.ID))
	return Result{User: u, Token: token}, nil
}
