package profile

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	getprofile "exzly/internal/core/services/get_profile"
	"exzly/internal/http/handlers/request"
	"exzly/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	service services.Service[getprofile.Input, getprofile.Result]
}

func New(service services.Service[getprofile.Input, getprofile.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	Data response.Profile `json:"data"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, ok := request.UserIDParam(r)
	if !ok {
		response.RenderUserNotFound(rw)
		return
	}

	result, err := h.service.Run(r.Context(), getprofile.Input{UserID: userID})
	if errors.Is(err, user.ErrInvalidSessionToken) {
		response.RenderUnauthorized(rw)
		return
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderUserNotFound(rw)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	p := response.Profile{}
	p.FromDomainUser(result.User, result.ShowEmail, result.ShowTimestamps)
	response.Render(rw, Result{Data: p}, http.StatusOK)
}
