package signin

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	ratelimiter "exzly/internal/core/domain/rate_limiter"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	signin "exzly/internal/core/services/sign_in"
	"exzly/internal/http/handlers/request"
	"exzly/internal/http/handlers/response"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[signin.Input, signin.Result]
}

func New(service services.Service[signin.Input, signin.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

type Result struct {
	User  response.User `json:"user"`
	Token string        `json:"token"`
}

func (i *Input) FromJSON(r io.Reader) error {
	return request.DecodeJSON(r, i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Identity, validation.Required, validation.Length(0, 512)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, 512)),
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
		signin.Input{
			Identity: input.Identity,
			Password: user.RawPassword(input.Password),
			ClientIP: request.ClientIP(r),
		},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw, err)
		return
	}
	if errors.Is(err, user.ErrInvalidCredentials) {
		response.RenderError(rw, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, Result{User: u, Token: string(result.Token)}, http.StatusOK)
}
