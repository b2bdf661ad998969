package restoreuser

import (
	"context"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	"exzly/internal/core/services/auth"
	"time"
)

type Input struct {
	User   user.User
	UserID user.ID
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

type Result struct {
	User user.User
}

type service struct {
	log   logging.Logger
	users user.UserRepository
	now   func() time.Time
}

func New(log logging.Logger, users user.UserRepository, now func() time.Time) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if users == nil {
		panic(e.NewNilArgumentError("users"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{log: log, users: users, now: now}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !input.User.IsAdmin {
		s.log.Warning(ctx, "Non-admin user tried to restore a user.", logging.Entry("userId", input.User.ID))
		return result, user.ErrPermissionDenied
	}

	restored, err := s.users.Restore(ctx, input.UserID, s.now())
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not restore user.", logging.Entry("userId", input.UserID), logging.Entry("err", err))
		return result, err
	}

	s.log.Info(ctx, "User has been restored.", logging.Entry("userId", restored.ID))
	return Result{User: restored}, nil
}
