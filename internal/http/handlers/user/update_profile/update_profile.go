package updateprofile

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	updateprofile "exzly/internal/core/services/update_profile"
	"exzly/internal/http/handlers/request"
	"exzly/internal/http/handlers/response"
	"io"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[updateprofile.Input, updateprofile.Result]
}

func New(service services.Service[updateprofile.Input, updateprofile.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	FullName string `json:"fullName"`
}

func (i *Input) FromJSON(r io.Reader) error {
	if err := request.DecodeJSON(r, i); err != nil {
		return err
	}
	i.FullName = strings.TrimSpace(i.FullName)
	return nil
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.FullName, validation.Required, validation.Length(1, 255)),
	)
}

type Result struct {
	Data response.User `json:"data"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, ok := request.UserIDParam(r)
	if !ok {
		response.RenderUserNotFound(rw)
		return
	}

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
		updateprofile.Input{UserID: userID, FullName: input.FullName},
	)
	if errors.Is(err, user.ErrInvalidSessionToken) {
		response.RenderUnauthorized(rw)
		return
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderUserNotFound(rw)
		return
	}
	if errors.Is(err, user.ErrPermissionDenied) {
		response.RenderForbidden(rw)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, Result{Data: u}, http.StatusOK)
}
