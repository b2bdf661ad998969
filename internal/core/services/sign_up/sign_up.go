package signup

import (
	"context"
	"errors"
	c "exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	uow "exzly/internal/core/domain/unit_of_work"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	"time"
)

type Input struct {
	Email    c.Email
	Username user.Username
	FullName string
	Password user.RawPassword
	ClientIP string
}

func (i Input) GetRateLimitKey() string {
	return "sign-up::" + i.ClientIP
}

type Result struct {
	User user.User
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	now        func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		now:        now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, err
	}
	defer uow.Rollback(ctx)

	createdUser, err := uow.Users().Create(ctx, user.CreateUserInput{
		Email:     input.Email,
		Username:  input.Username,
		FullName:  input.FullName,
		Password:  input.Password,
		CreatedAt: s.now(),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrEmailAlreadyExists) || errors.Is(err, user.ErrUsernameAlreadyExists) {
		s.log.Info(
			ctx,
			"User with the email or username already exists.",
			logging.Entry("email", input.Email),
			logging.Entry("username", input.Username),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create new user.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	err = uow.Commit(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not commit unit of work.", logging.Entry("err", err))
		return result, err
	}

	s.log.Info(ctx, "New user has been created.", logging.Entry("userId", createdUser.ID))
	return Result{User: createdUser}, nil
}
