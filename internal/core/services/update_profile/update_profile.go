package updateprofile

import (
	"context"
	"errors"
	c "exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	"exzly/internal/core/services/auth"
	"time"
)

type Input struct {
	User     user.User
	UserID   c.Optional[user.ID]
	FullName string
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
	target := input.User
	if input.UserID.IsPresent && input.UserID.Value != target.ID {
		target, err = s.users.GetByID(ctx, input.UserID.Value)
		if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
			return result, err
		}
		if err != nil {
			s.log.Error(ctx, "Could not get user.", logging.Entry("userId", input.UserID.Value), logging.Entry("err", err))
			return result, err
		}
	}

	if !input.User.CanManage(target) {
		s.log.Warning(
			ctx,
			"User is not allowed to update the profile.",
			logging.Entry("userId", input.User.ID),
			logging.Entry("targetUserId", target.ID),
		)
		return result, user.ErrPermissionDenied
	}

	updated, err := s.users.UpdateProfile(ctx, user.UpdateProfileInput{
		ID:       target.ID,
		FullName: input.FullName,
		At:       s.now(),
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not update user profile.", logging.Entry("userId", target.ID), logging.Entry("err", err))
		return result, err
	}

	s.log.Info(ctx, "User profile has been updated.", logging.Entry("userId", target.ID))
	return Result{User: updated}, nil
}
