package signup

import (
	"errors"
	"exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	ratelimiter "exzly/internal/core/domain/rate_limiter"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	signup "exzly/internal/core/services/sign_up"
	"exzly/internal/http/handlers/request"
	"exzly/internal/http/handlers/response"
	"io"
	"net/http"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

type Handler struct {
	service services.Service[signup.Input, signup.Result]
}

func New(service services.Service[signup.Input, signup.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type Result struct {
	User response.User `json:"user"`
}

func (i *Input) FromJSON(r io.Reader) error {
	return request.DecodeJSON(r, i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
		validation.Field(
			&i.Username,
			validation.Required,
			validation.Length(3, 64),
			validation.Match(usernameRegexp).Error("must contain only letters, digits, dots and underscores"),
		),
		validation.Field(&i.FullName, validation.Length(0, 256)),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 512)),
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
		signup.Input{
			Email:    common.NewEmail(input.Email),
			Username: user.Username(input.Username),
			FullName: input.FullName,
			Password: user.RawPassword(input.Password),
			ClientIP: request.ClientIP(r),
		},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw, err)
		return
	}
	if errors.Is(err, user.ErrEmailAlreadyExists) {
		response.RenderError(rw, "email already exists", http.StatusUnprocessableEntity)
		return
	}
	if errors.Is(err, user.ErrUsernameAlreadyExists) {
		response.RenderError(rw, "username already exists", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, Result{User: u}, http.StatusCreated)
}
