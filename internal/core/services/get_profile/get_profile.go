package getprofile

import (
	"context"
	"errors"
	c "exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	"exzly/internal/core/services/auth"
)

type Input struct {
	User   user.User
	UserID c.Optional[user.ID]
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

// Result carries the visibility of private fields for the viewer.
// Only the owner and admins see the email, only admins see timestamps.
type Result struct {
	User           user.User
	ShowEmail      bool
	ShowTimestamps bool
}

type service struct {
	log   logging.Logger
	users user.UserRepository
}

func New(log logging.Logger, users user.UserRepository) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if users == nil {
		panic(e.NewNilArgumentError("users"))
	}
	return &service{log: log, users: users}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	viewer := input.User
	profile := viewer
	if input.UserID.IsPresent && input.UserID.Value != viewer.ID {
		profile, err = s.users.GetByID(ctx, input.UserID.Value)
		if errors.Is(err, context.Canceled) {
			return result, err
		}
		if errors.Is(err, user.ErrUserDoesNotExist) {
			return result, err
		}
		if err != nil {
			s.log.Error(
				ctx,
				"Could not get user profile.",
				logging.Entry("userId", input.UserID.Value),
				logging.Entry("err", err),
			)
			return result, err
		}
	}

	return Result{
		User:           profile,
		ShowEmail:      viewer.IsAdmin || viewer.ID == profile.ID,
		ShowTimestamps: viewer.IsAdmin,
	}, nil
}
