package confirmcode

import (
	"context"
	"errors"
	c "exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	"time"
)

type Input struct {
	Code      verification.Code
	SessionID c.Optional[verification.SessionID]
	ClientIP  string
}

func (i Input) GetRateLimitKey() string {
	return "verification::" + i.ClientIP
}

type Result struct {
	Purpose verification.Purpose
	Token   verification.Token

	// Continue is set when the record passed the checks but its purpose
	// needs another stage to complete.
	Continue bool
	Verified bool
	Record   verification.Record
}

type service struct {
	log           logging.Logger
	verifications verification.Repository
	tokenIssuer   verification.TokenIssuer
	markers       verification.MarkerStore
	settings      verification.Settings
	now           func() time.Time
}

func New(
	log logging.Logger,
	verifications verification.Repository,
	tokenIssuer verification.TokenIssuer,
	markers verification.MarkerStore,
	settings verification.Settings,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if verifications == nil {
		panic(e.NewNilArgumentError("verifications"))
	}
	if tokenIssuer == nil {
		panic(e.NewNilArgumentError("tokenIssuer"))
	}
	if markers == nil {
		panic(e.NewNilArgumentError("markers"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:           log,
		verifications: verifications,
		tokenIssuer:   tokenIssuer,
		markers:       markers,
		settings:      settings,
		now:           now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	record, err := s.verifications.GetByCode(ctx, input.Code)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, verification.ErrRecordDoesNotExist) {
		s.log.Info(ctx, "Verification code not found.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get verification record by code.", logging.Entry("err", err))
		return result, err
	}

	now := s.now()
	if record.IsUsed() {
		s.log.Info(ctx, "Verification code is already used.", logging.Entry("recordId", record.ID))
		return result, verification.ErrAlreadyUsed
	}
	if record.IsExpired(now) {
		s.log.Info(ctx, "Verification code is expired.", logging.Entry("recordId", record.ID))
		return result, verification.ErrExpired
	}

	if record.Purpose != verification.PurposePasswordReset {
		return Result{Purpose: record.Purpose, Continue: true, Record: record}, nil
	}

	token, err := s.tokenIssuer.IssuePasswordResetToken(record.Code)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not issue password reset token.",
			logging.Entry("recordId", record.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	record, err = s.verifications.ConsumeCode(ctx, verification.ConsumeCodeInput{
		ID:        record.ID,
		Token:     c.NewOptional(token, true),
		ExpiresAt: now.Add(s.settings.ResetWindow),
		At:        now,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, verification.ErrAlreadyUsed) {
		s.log.Info(ctx, "Verification code has been consumed concurrently.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not consume verification code.", logging.Entry("err", err))
		return result, err
	}

	if input.SessionID.IsPresent {
		err = s.markers.SetMarker(ctx, input.SessionID.Value, token, s.settings.ResetWindow)
		if err != nil {
			s.log.Warning(
				ctx,
				"Could not set reset marker for the session.",
				logging.Entry("recordId", record.ID),
				logging.Entry("err", err),
			)
		}
	}

	s.log.Info(
		ctx,
		"Password reset token has been issued.",
		logging.Entry("recordId", record.ID),
		logging.Entry("userId", record.UserID),
	)
	return Result{Purpose: record.Purpose, Token: token, Record: record}, nil
}
