package app

import (
	"exzly/internal/app/deps"
	"exzly/internal/app/services"
	"exzly/internal/core/domain/verification"
	"exzly/internal/http/handlers/auth"
	confirmcode "exzly/internal/http/handlers/auth/confirm_code"
	issuecode "exzly/internal/http/handlers/auth/issue_code"
	resetpassword "exzly/internal/http/handlers/auth/reset_password"
	signin "exzly/internal/http/handlers/auth/sign_in"
	signup "exzly/internal/http/handlers/auth/sign_up"
	"exzly/internal/http/handlers/session"
	deleteuser "exzly/internal/http/handlers/user/delete_user"
	me "exzly/internal/http/handlers/user/me"
	"exzly/internal/http/handlers/user/profile"
	restoreuser "exzly/internal/http/handlers/user/restore_user"
	updateprofile "exzly/internal/http/handlers/user/update_profile"
	"exzly/internal/http/handlers/web"
	webresetpassword "exzly/internal/http/handlers/web/reset_password"
	webverification "exzly/internal/http/handlers/web/verification"
	"exzly/internal/implementations/logging"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const WEB_RESET_PASSWORD_PATH = "/web/reset-password"

func InitRouter(deps *deps.Deps, s *services.Services) http.Handler {
	isTestMode := deps.Config.IsTestMode
	sessionOptions := session.Options{
		Secure: deps.Config.SecureCookies,
		MaxAge: deps.VerificationSettings.ResetWindow,
	}

	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/sign-up", signup.New(s.SignUp))
	authRouter.Method(http.MethodPost, "/sign-in", signin.New(s.SignIn))
	authRouter.Method(
		http.MethodPost,
		"/forgot-password",
		issuecode.New(s.ForgotPassword, verification.PurposePasswordReset, isTestMode),
	)
	authRouter.Method(
		http.MethodPost,
		"/request-verification",
		issuecode.New(s.RequestVerification, verification.PurposeAccountVerification, isTestMode),
	)
	authRouter.Method(http.MethodPost, "/verification", confirmcode.New(s.ConfirmCode, sessionOptions))
	authRouter.Method(http.MethodPost, "/reset-password", resetpassword.New(s.RedeemToken))

	usersRouter := chi.NewRouter()
	usersRouter.Use(auth.SetAuthTokenToContext)
	usersRouter.Method(http.MethodGet, "/me", me.New(s.GetUser))
	profileHandler := profile.New(s.GetProfile)
	usersRouter.Method(http.MethodGet, "/profile", profileHandler)
	usersRouter.Method(http.MethodGet, "/profile/{userId}", profileHandler)
	updateProfileHandler := updateprofile.New(s.UpdateProfile)
	usersRouter.Method(http.MethodPut, "/profile", updateProfileHandler)
	usersRouter.Method(http.MethodPut, "/profile/{userId}", updateProfileHandler)
	usersRouter.Method(http.MethodDelete, "/profile/{userId}", deleteuser.New(s.DeleteUser))
	usersRouter.Method(http.MethodPatch, "/profile/{userId}", restoreuser.New(s.RestoreUser))

	renderer := web.MustNewRenderer()
	webRouter := chi.NewRouter()
	webRouter.Use(session.WithSession(sessionOptions))
	webRouter.Method(
		http.MethodGet,
		"/verification",
		webverification.New(s.ConfirmLink, renderer, "", WEB_RESET_PASSWORD_PATH),
	)
	webRouter.Method(http.MethodGet, "/reset-password", webresetpassword.New(s.GetResetMarker, renderer, ""))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(deps.Logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/users", usersRouter)
	router.Mount("/web", webRouter)

	return router
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler:           InitRouter(deps, s),
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
