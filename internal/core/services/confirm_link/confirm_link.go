package confirmlink

import (
	"context"
	"errors"
	c "exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	activateaccount "exzly/internal/core/services/activate_account"
	"time"
)

type Input struct {
	CodeHash  verification.CodeHash
	SessionID verification.SessionID
}

type Result struct {
	Purpose verification.Purpose
	// Set for password reset, the same value is stored as the session marker.
	Token    verification.Token
	Verified bool
}

type service struct {
	log           logging.Logger
	verifications verification.Repository
	tokenIssuer   verification.TokenIssuer
	markers       verification.MarkerStore
	activate      services.Service[activateaccount.Input, activateaccount.Result]
	settings      verification.Settings
	now           func() time.Time
}

func New(
	log logging.Logger,
	verifications verification.Repository,
	tokenIssuer verification.TokenIssuer,
	markers verification.MarkerStore,
	activate services.Service[activateaccount.Input, activateaccount.Result],
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
	if activate == nil {
		panic(e.NewNilArgumentError("activate"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:           log,
		verifications: verifications,
		tokenIssuer:   tokenIssuer,
		markers:       markers,
		activate:      activate,
		settings:      settings,
		now:           now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.SessionID == "" {
		return result, e.NewEmptyArgumentError("SessionID")
	}

	record, err := s.verifications.GetByCodeHash(ctx, input.CodeHash)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, verification.ErrRecordDoesNotExist) {
		s.log.Info(ctx, "Verification link not found.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get verification record by code hash.", logging.Entry("err", err))
		return result, err
	}

	now := s.now()
	if record.IsUsed() {
		s.log.Info(ctx, "Verification link is already used.", logging.Entry("recordId", record.ID))
		return result, verification.ErrAlreadyUsed
	}
	if record.IsExpired(now) {
		s.log.Info(ctx, "Verification link is expired.", logging.Entry("recordId", record.ID))
		return Result{Purpose: record.Purpose}, verification.ErrExpired
	}

	if record.Purpose == verification.PurposeAccountVerification {
		_, err := s.activate.Run(ctx, activateaccount.Input{Record: record})
		if err != nil {
			return result, err
		}
		return Result{Purpose: record.Purpose, Verified: true}, nil
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
		s.log.Info(ctx, "Verification link has been consumed concurrently.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not consume verification code.", logging.Entry("err", err))
		return result, err
	}

	err = s.markers.SetMarker(ctx, input.SessionID, token, s.settings.ResetWindow)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not set reset marker for the session.",
			logging.Entry("recordId", record.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Password reset token has been issued by link.",
		logging.Entry("recordId", record.ID),
		logging.Entry("userId", record.UserID),
	)
	return Result{Purpose: record.Purpose, Token: token}, nil
}
