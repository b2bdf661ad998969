package issuecode

import (
	"context"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	"time"
)

type Input struct {
	Identity string
	Purpose  verification.Purpose
	ClientIP string
}

func (i Input) GetRateLimitKey() string {
	return "issue-code::" + string(i.Purpose) + "::" + i.ClientIP
}

type Result struct {
	Email   string
	IsAdmin bool

	// Not exposed to callers.
	User   user.User
	Record verification.Record
}

type service struct {
	log           logging.Logger
	users         user.UserRepository
	verifications verification.Repository
	codeGenerator verification.CodeGenerator
	codeHasher    verification.CodeHasher
	settings      verification.Settings
	now           func() time.Time
}

func New(
	log logging.Logger,
	users user.UserRepository,
	verifications verification.Repository,
	codeGenerator verification.CodeGenerator,
	codeHasher verification.CodeHasher,
	settings verification.Settings,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if users == nil {
		panic(e.NewNilArgumentError("users"))
	}
	if verifications == nil {
		panic(e.NewNilArgumentError("verifications"))
	}
	if codeGenerator == nil {
		panic(e.NewNilArgumentError("codeGenerator"))
	}
	if codeHasher == nil {
		panic(e.NewNilArgumentError("codeHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:           log,
		users:         users,
		verifications: verifications,
		codeGenerator: codeGenerator,
		codeHasher:    codeHasher,
		settings:      settings,
		now:           now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !input.Purpose.IsValid() {
		return result, verification.ErrInvalidPurpose
	}

	u, err := s.users.GetByIdentity(ctx, input.Identity)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User not found, code is not issued.", logging.Entry("purpose", input.Purpose))
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user by identity.", logging.Entry("err", err))
		return result, err
	}

	if input.Purpose == verification.PurposeAccountVerification && u.IsVerified() {
		s.log.Info(ctx, "User is already verified.", logging.Entry("userId", u.ID))
		return result, user.ErrUserAlreadyVerified
	}

	code, err := s.codeGenerator.GenerateCode()
	if err != nil {
		s.log.Error(ctx, "Could not generate verification code.", logging.Entry("err", err))
		return result, err
	}

	now := s.now()
	record, err := s.verifications.Create(ctx, verification.CreateInput{
		UserID:    u.ID,
		Purpose:   input.Purpose,
		Code:      code,
		CodeHash:  s.codeHasher.HashCode(code),
		ExpiresAt: now.Add(s.settings.ResetWindow),
		CreatedAt: now,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create verification record.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Verification code has been issued.",
		logging.Entry("userId", u.ID),
		logging.Entry("recordId", record.ID),
		logging.Entry("purpose", record.Purpose),
	)
	return Result{
		Email:   u.Email.Masked(),
		IsAdmin: u.IsAdmin,
		User:    u,
		Record:  record,
	}, nil
}
