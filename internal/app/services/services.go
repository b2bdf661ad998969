package services

import (
	"exzly/internal/app/deps"
	"exzly/internal/core/services"
	activateaccount "exzly/internal/core/services/activate_account"
	"exzly/internal/core/services/auth"
	confirmcode "exzly/internal/core/services/confirm_code"
	confirmlink "exzly/internal/core/services/confirm_link"
	deleteuser "exzly/internal/core/services/delete_user"
	getprofile "exzly/internal/core/services/get_profile"
	getresetmarker "exzly/internal/core/services/get_reset_marker"
	getuser "exzly/internal/core/services/get_user"
	issuecode "exzly/internal/core/services/issue_code"
	ratelimiting "exzly/internal/core/services/rate_limiting"
	redeemtoken "exzly/internal/core/services/redeem_token"
	restoreuser "exzly/internal/core/services/restore_user"
	signin "exzly/internal/core/services/sign_in"
	signup "exzly/internal/core/services/sign_up"
	updateprofile "exzly/internal/core/services/update_profile"
)

type Services struct {
	SignUp  services.Service[signup.Input, signup.Result]
	SignIn  services.Service[signin.Input, signin.Result]
	GetUser services.Service[getuser.Input, getuser.Result]

	GetProfile    services.Service[getprofile.Input, getprofile.Result]
	UpdateProfile services.Service[updateprofile.Input, updateprofile.Result]
	DeleteUser    services.Service[deleteuser.Input, deleteuser.Result]
	RestoreUser   services.Service[restoreuser.Input, restoreuser.Result]

	ForgotPassword      services.Service[issuecode.Input, issuecode.Result]
	RequestVerification services.Service[issuecode.Input, issuecode.Result]
	ConfirmCode         services.Service[confirmcode.Input, confirmcode.Result]
	ConfirmLink         services.Service[confirmlink.Input, confirmlink.Result]
	ActivateAccount     services.Service[activateaccount.Input, activateaccount.Result]
	RedeemToken         services.Service[redeemtoken.Input, redeemtoken.Result]
	GetResetMarker      services.Service[getresetmarker.Input, getresetmarker.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}
	cfg := deps.Config
	settings := deps.VerificationSettings

	s.SignUp = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		cfg.SignUpRateLimit().Limit(),
		signup.New(deps.Logger, deps.UnitOfWork, deps.Now),
	)
	s.SignIn = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		cfg.SignInRateLimit().Limit(),
		signin.New(deps.Logger, deps.UserRepository, deps.PasswordHasher, deps.TokenIssuer),
	)
	s.GetUser = auth.WithAuthentication[getuser.Input, getuser.Result](
		deps.TokenIssuer,
		deps.UserRepository,
		getuser.New(),
	)
	s.GetProfile = auth.WithAuthentication[getprofile.Input, getprofile.Result](
		deps.TokenIssuer,
		deps.UserRepository,
		getprofile.New(deps.Logger, deps.UserRepository),
	)
	s.UpdateProfile = auth.WithAuthentication[updateprofile.Input, updateprofile.Result](
		deps.TokenIssuer,
		deps.UserRepository,
		updateprofile.New(deps.Logger, deps.UserRepository, deps.Now),
	)
	s.DeleteUser = auth.WithAuthentication[deleteuser.Input, deleteuser.Result](
		deps.TokenIssuer,
		deps.UserRepository,
		deleteuser.New(deps.Logger, deps.UserRepository, deps.Now),
	)
	s.RestoreUser = auth.WithAuthentication[restoreuser.Input, restoreuser.Result](
		deps.TokenIssuer,
		deps.UserRepository,
		restoreuser.New(deps.Logger, deps.UserRepository, deps.Now),
	)

	issueCode := issuecode.NewWithCodeSending(
		deps.Logger,
		deps.Notifier,
		issuecode.New(
			deps.Logger,
			deps.UserRepository,
			deps.VerificationRepository,
			deps.CodeGenerator,
			deps.CodeHasher,
			settings,
			deps.Now,
		),
	)
	// Rate limit keys include the purpose, so both routes keep separate budgets.
	s.ForgotPassword = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		cfg.ForgotPasswordRateLimit().Limit(),
		issueCode,
	)
	s.RequestVerification = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		cfg.RequestVerificationRateLimit().Limit(),
		issueCode,
	)

	s.ActivateAccount = activateaccount.New(deps.Logger, deps.UnitOfWork, settings, deps.Now)
	s.ConfirmCode = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		cfg.VerificationRateLimit().Limit(),
		confirmcode.NewWithAccountActivation(
			deps.Logger,
			s.ActivateAccount,
			confirmcode.New(
				deps.Logger,
				deps.VerificationRepository,
				deps.TokenIssuer,
				deps.MarkerStore,
				settings,
				deps.Now,
			),
		),
	)
	s.ConfirmLink = confirmlink.New(
		deps.Logger,
		deps.VerificationRepository,
		deps.TokenIssuer,
		deps.MarkerStore,
		s.ActivateAccount,
		settings,
		deps.Now,
	)
	s.RedeemToken = redeemtoken.New(deps.Logger, deps.UnitOfWork, deps.MarkerStore, deps.Now)
	s.GetResetMarker = getresetmarker.New(deps.Logger, deps.MarkerStore)

	return s
}

