package issuecode

import (
	"context"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	"fmt"
)

type serviceWithCodeSending struct {
	log      logging.Logger
	notifier verification.Notifier
	inner    services.Service[Input, Result]
}

func NewWithCodeSending(
	log logging.Logger,
	notifier verification.Notifier,
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithCodeSending{
		log:      log,
		notifier: notifier,
		inner:    inner,
	}
}

func (s *serviceWithCodeSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Info(ctx, "Skip sending verification code.", logging.Entry("err", err))
		return result, err
	}

	err = s.notifier.NotifyCode(ctx, result.User, verification.Notification{
		Purpose:  result.Record.Purpose,
		Code:     result.Record.Code,
		CodeHash: result.Record.CodeHash,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send verification code.",
			logging.Entry("userId", result.User.ID),
			logging.Entry("recordId", result.Record.ID),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %v", verification.ErrNotificationNotSent, err)
	}

	s.log.Info(
		ctx,
		"Verification code has been sent to the user.",
		logging.Entry("userId", result.User.ID),
		logging.Entry("recordId", result.Record.ID),
	)
	return result, nil
}
