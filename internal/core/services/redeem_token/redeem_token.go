package redeemtoken

import (
	"context"
	"errors"
	c "exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	uow "exzly/internal/core/domain/unit_of_work"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	"time"
)

type Input struct {
	Token     verification.Token
	Password  user.RawPassword
	SessionID c.Optional[verification.SessionID]
}

type Result struct{}

type service struct {
	log     logging.Logger
	uow     uow.UnitOfWork
	markers verification.MarkerStore
	now     func() time.Time
}

func New(
	log logging.Logger,
	uow uow.UnitOfWork,
	markers verification.MarkerStore,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if uow == nil {
		panic(e.NewNilArgumentError("uow"))
	}
	if markers == nil {
		panic(e.NewNilArgumentError("markers"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:     log,
		uow:     uow,
		markers: markers,
		now:     now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.uow.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, err
	}
	defer uow.Rollback(ctx)

	record, err := uow.Verifications().GetByToken(ctx, input.Token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, verification.ErrRecordDoesNotExist) {
		s.log.Info(ctx, "Password reset token not found.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get verification record by token.", logging.Entry("err", err))
		return result, err
	}

	now := s.now()
	if record.TokenIsUsed {
		s.log.Info(ctx, "Password reset token is already used.", logging.Entry("recordId", record.ID))
		return result, verification.ErrAlreadyUsed
	}
	if record.IsExpired(now) {
		s.log.Info(ctx, "Password reset token is expired.", logging.Entry("recordId", record.ID))
		return result, verification.ErrExpired
	}

	record, err = uow.Verifications().ConsumeToken(ctx, record.ID, now)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, verification.ErrAlreadyUsed) {
		s.log.Info(ctx, "Password reset token has been consumed concurrently.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not consume password reset token.", logging.Entry("err", err))
		return result, err
	}

	err = uow.Users().UpdatePassword(ctx, record.UserID, input.Password)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userId", record.UserID),
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

	s.log.Info(
		ctx,
		"User password has been reset.",
		logging.Entry("userId", record.UserID),
		logging.Entry("recordId", record.ID),
	)

	if input.SessionID.IsPresent {
		if err := s.markers.ClearMarker(ctx, input.SessionID.Value); err != nil {
			s.log.Warning(ctx, "Could not clear reset marker.", logging.Entry("err", err))
		}
	}
	return result, nil
}
