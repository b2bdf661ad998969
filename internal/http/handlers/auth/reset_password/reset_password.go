package resetpassword

import (
	"exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	redeemtoken "exzly/internal/core/services/redeem_token"
	"exzly/internal/http/handlers/request"
	"exzly/internal/http/handlers/response"
	"exzly/internal/http/handlers/session"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[redeemtoken.Input, redeemtoken.Result]
}

func New(service services.Service[redeemtoken.Input, redeemtoken.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type Result struct {
	Success bool `json:"success"`
}

func (i *Input) FromJSON(r io.Reader) error {
	return request.DecodeJSON(r, i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 2048)),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(8, 512)),
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

	sid, hasSession := session.FromRequestCookie(r)
	_, err := h.service.Run(
		r.Context(),
		redeemtoken.Input{
			Token:     verification.Token(input.Token),
			Password:  user.RawPassword(input.NewPassword),
			SessionID: common.NewOptional(sid, hasSession),
		},
	)
	if response.RenderTokenError(rw, err) {
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, Result{Success: true}, http.StatusOK)
}
