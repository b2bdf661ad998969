package deleteuser

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

// Input.Force removes the row for good, together with its verification
// records. Without it the user is only marked as deleted.
type Input struct {
	User   user.User
	UserID user.ID
	Force  bool
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

type Result struct{}

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
		s.log.Warning(ctx, "Non-admin user tried to delete a user.", logging.Entry("userId", input.User.ID))
		return result, user.ErrPermissionDenied
	}

	var target user.User
	if input.Force {
		target, err = s.users.GetByIDWithDeleted(ctx, input.UserID)
	} else {
		target, err = s.users.GetByID(ctx, input.UserID)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user.", logging.Entry("userId", input.UserID), logging.Entry("err", err))
		return result, err
	}
	if target.ID == input.User.ID {
		return result, user.ErrCannotDeleteSelf
	}

	if input.Force {
		err = s.users.Delete(ctx, target.ID)
	} else {
		err = s.users.SoftDelete(ctx, target.ID, s.now())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not delete user.", logging.Entry("userId", target.ID), logging.Entry("err", err))
		return result, err
	}

	s.log.Info(
		ctx,
		"User has been deleted.",
		logging.Entry("userId", target.ID),
		logging.Entry("force", input.Force),
		logging.Entry("adminId", input.User.ID),
	)
	return result, nil
}
