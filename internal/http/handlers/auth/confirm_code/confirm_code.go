package confirmcode

import (
	"errors"
	"exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	ratelimiter "exzly/internal/core/domain/rate_limiter"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	confirmcode "exzly/internal/core/services/confirm_code"
	"exzly/internal/http/handlers/request"
	"exzly/internal/http/handlers/response"
	"exzly/internal/http/handlers/session"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service        services.Service[confirmcode.Input, confirmcode.Result]
	sessionOptions session.Options
}

func New(
	service services.Service[confirmcode.Input, confirmcode.Result],
	sessionOptions session.Options,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, sessionOptions: sessionOptions}
}

type Input struct {
	Code string `json:"code"`
}

type Result struct {
	Purpose  string `json:"purpose"`
	Token    string `json:"token,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

func (i *Input) FromJSON(r io.Reader) error {
	return request.DecodeJSON(r, i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(
			&i.Code,
			validation.Required,
			validation.Length(verification.CodeLength, verification.CodeLength),
			is.Digit,
		),
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
	result, err := h.service.Run(
		r.Context(),
		confirmcode.Input{
			Code:      verification.Code(input.Code),
			SessionID: common.NewOptional(sid, hasSession),
			ClientIP:  request.ClientIP(r),
		},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw, err)
		return
	}
	if response.RenderCodeError(rw, err) {
		return
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderError(rw, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	if hasSession && result.Purpose == verification.PurposePasswordReset {
		session.SetCookie(rw, sid, h.sessionOptions)
	}
	response.Render(
		rw,
		Result{Purpose: string(result.Purpose), Token: string(result.Token), Verified: result.Verified},
		http.StatusOK,
	)
}
