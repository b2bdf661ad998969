package confirmcode

import (
	"context"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/services"
	activateaccount "exzly/internal/core/services/activate_account"
)

type serviceWithAccountActivation struct {
	log      logging.Logger
	activate services.Service[activateaccount.Input, activateaccount.Result]
	inner    services.Service[Input, Result]
}

func NewWithAccountActivation(
	log logging.Logger,
	activate services.Service[activateaccount.Input, activateaccount.Result],
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if activate == nil {
		panic(e.NewNilArgumentError("activate"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithAccountActivation{
		log:      log,
		activate: activate,
		inner:    inner,
	}
}

func (s *serviceWithAccountActivation) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if err != nil || !result.Continue {
		return result, err
	}

	activated, err := s.activate.Run(ctx, activateaccount.Input{Record: result.Record})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Info(ctx, "Account is not activated.", logging.Entry("err", err))
		return result, err
	}

	return Result{
		Purpose:  activated.Record.Purpose,
		Verified: true,
		Record:   activated.Record,
	}, nil
}
