package activateaccount

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

// Input carries a record that has already passed the existence, usage and
// expiry checks.
type Input struct {
	Record verification.Record
}

type Result struct {
	User   user.User
	Record verification.Record
}

type service struct {
	log      logging.Logger
	uow      uow.UnitOfWork
	settings verification.Settings
	now      func() time.Time
}

func New(
	log logging.Logger,
	uow uow.UnitOfWork,
	settings verification.Settings,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if uow == nil {
		panic(e.NewNilArgumentError("uow"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:      log,
		uow:      uow,
		settings: settings,
		now:      now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Record.Purpose != verification.PurposeAccountVerification {
		return result, verification.ErrInvalidPurpose
	}

	uow, err := s.uow.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, err
	}
	defer uow.Rollback(ctx)

	now := s.now()
	record, err := uow.Verifications().ConsumeCode(ctx, verification.ConsumeCodeInput{
		ID:        input.Record.ID,
		Token:     c.NewOptional(verification.Token(""), false),
		ExpiresAt: now.Add(s.settings.ResetWindow),
		At:        now,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, verification.ErrAlreadyUsed) {
		s.log.Info(ctx, "Verification code is already used.", logging.Entry("recordId", input.Record.ID))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not consume verification code.",
			logging.Entry("recordId", input.Record.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	u, err := uow.Users().MarkVerified(ctx, record.UserID, now)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not mark user as verified.",
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
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("recordId", record.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"User account has been verified.",
		logging.Entry("userId", u.ID),
		logging.Entry("recordId", record.ID),
	)
	return Result{User: u, Record: record}, nil
}
