package redeemtoken

import (
	"context"
	"exzly/internal/core/domain/logging"
	uow "exzly/internal/core/domain/unit_of_work"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	confirmcode "exzly/internal/core/services/confirm_code"
	issuecode "exzly/internal/core/services/issue_code"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	log := logging.NewFakeLogger()
	unitOfWork := uow.NewFakeUnitOfWork()
	users := unitOfWork.Context.UserRepository
	verifications := unitOfWork.Context.VerificationRepository
	settings := verification.Settings{ResetWindow: 15 * time.Minute, Denylist: verification.DefaultDenylist}
	clk := &clock{now: time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)}

	u, err := users.Create(ctx, user.CreateUserInput{
		Email:     "jane@example.com",
		Username:  "jane",
		Password:  "old-password",
		CreatedAt: clk.Now(),
	})
	require.Nil(t, err)

	issue := issuecode.New(
		log,
		users,
		verifications,
		verification.NewFakeCodeGenerator("482913"),
		verification.NewFakeCodeHasher(),
		settings,
		clk.Now,
	)
	confirm := confirmcode.New(
		log,
		verifications,
		verification.NewFakeTokenIssuer(),
		verification.NewFakeMarkerStore(),
		settings,
		clk.Now,
	)
	redeem := New(log, unitOfWork, verification.NewFakeMarkerStore(), clk.Now)

	issued, err := issue.Run(ctx, issuecode.Input{Identity: "jane", Purpose: verification.PurposePasswordReset})
	require.Nil(t, err)
	require.Equal(t, "j**e@example.com", issued.Email)

	clk.now = clk.now.Add(5 * time.Minute)
	confirmed, err := confirm.Run(ctx, confirmcode.Input{Code: "482913"})
	require.Nil(t, err)
	require.NotEmpty(t, confirmed.Token)

	_, err = redeem.Run(ctx, Input{Token: confirmed.Token, Password: "new-password"})
	require.Nil(t, err)

	record, ok := verifications.Get(issued.Record.ID)
	require.True(t, ok)
	require.True(t, record.CodeIsUsed)
	require.True(t, record.TokenIsUsed)

	stored, err := users.GetByID(ctx, u.ID)
	require.Nil(t, err)
	require.True(t, user.NewFakePasswordHasher().ValidatePassword("new-password", stored.PasswordHash))

	_, err = redeem.Run(ctx, Input{Token: confirmed.Token, Password: "third-password"})
	require.ErrorIs(t, err, verification.ErrAlreadyUsed)
	require.Equal(t, 1, users.PasswordUpdates)
}

func TestExpiredCodeFlow(t *testing.T) {
	ctx := context.Background()
	log := logging.NewFakeLogger()
	users := user.NewFakeUserRepository()
	verifications := verification.NewFakeRepository()
	settings := verification.Settings{ResetWindow: 15 * time.Minute, Denylist: verification.DefaultDenylist}
	clk := &clock{now: time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)}

	_, err := users.Create(ctx, user.CreateUserInput{
		Email:     "jane@example.com",
		Username:  "jane",
		Password:  "old-password",
		CreatedAt: clk.Now(),
	})
	require.Nil(t, err)

	issue := issuecode.New(
		log,
		users,
		verifications,
		verification.NewFakeCodeGenerator("482913"),
		verification.NewFakeCodeHasher(),
		settings,
		clk.Now,
	)
	tokenIssuer := verification.NewFakeTokenIssuer()
	confirm := confirmcode.New(
		log,
		verifications,
		tokenIssuer,
		verification.NewFakeMarkerStore(),
		settings,
		clk.Now,
	)

	issued, err := issue.Run(ctx, issuecode.Input{Identity: "jane@example.com", Purpose: verification.PurposePasswordReset})
	require.Nil(t, err)

	clk.now = clk.now.Add(settings.ResetWindow + time.Second)
	_, err = confirm.Run(ctx, confirmcode.Input{Code: "482913"})
	require.ErrorIs(t, err, verification.ErrExpired)

	record, ok := verifications.Get(issued.Record.ID)
	require.True(t, ok)
	require.Equal(t, issued.Record, record)
	require.Equal(t, 0, tokenIssuer.Count())
}
