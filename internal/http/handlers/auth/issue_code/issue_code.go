package issuecode

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	ratelimiter "exzly/internal/core/domain/rate_limiter"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	issuecode "exzly/internal/core/services/issue_code"
	"exzly/internal/http/handlers/request"
	"exzly/internal/http/handlers/response"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Handler serves both forgot-password and request-verification, the
// purpose is fixed per route.
type Handler struct {
	service    services.Service[issuecode.Input, issuecode.Result]
	purpose    verification.Purpose
	isTestMode bool
}

func New(
	service services.Service[issuecode.Input, issuecode.Result],
	purpose verification.Purpose,
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if !purpose.IsValid() {
		panic(verification.ErrInvalidPurpose)
	}
	return &Handler{service: service, purpose: purpose, isTestMode: isTestMode}
}

type Input struct {
	Identity string `json:"identity"`
}

type Result struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func (i *Input) FromJSON(r io.Reader) error {
	return request.DecodeJSON(r, i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Identity, validation.Required, validation.Length(0, 512)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		issuecode.Input{Identity: input.Identity, Purpose: h.purpose, ClientIP: request.ClientIP(r)},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw, err)
		return
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderError(rw, "User not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, user.ErrUserAlreadyVerified) {
		response.RenderError(rw, "User is already verified", http.StatusConflict)
		return
	}
	if errors.Is(err, verification.ErrNotificationNotSent) {
		response.RenderError(rw, "could not send verification code", http.StatusInternalServerError)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	if h.isTestMode {
		rw.Header().Set("x-test-verification-code", string(result.Record.Code))
	}
	response.Render(rw, Result{Email: result.Email, IsAdmin: result.IsAdmin}, http.StatusOK)
}
