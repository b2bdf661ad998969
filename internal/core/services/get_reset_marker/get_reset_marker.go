package getresetmarker

import (
	"context"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
)

type Input struct {
	SessionID verification.SessionID
}

type Result struct {
	Token verification.Token
}

type service struct {
	log     logging.Logger
	markers verification.MarkerStore
}

func New(log logging.Logger, markers verification.MarkerStore) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if markers == nil {
		panic(e.NewNilArgumentError("markers"))
	}
	return &service{log: log, markers: markers}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.SessionID == "" {
		return result, verification.ErrMarkerDoesNotExist
	}
	token, err := s.markers.GetMarker(ctx, input.SessionID)
	if errors.Is(err, context.Canceled) || errors.Is(err, verification.ErrMarkerDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get reset marker.", logging.Entry("err", err))
		return result, err
	}
	return Result{Token: token}, nil
}
