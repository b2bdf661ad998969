package me

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	getuser "exzly/internal/core/services/get_user"
	"exzly/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	service services.Service[getuser.Input, getuser.Result]
}

func New(service services.Service[getuser.Input, getuser.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	User response.User `json:"user"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), getuser.Input{})
	if errors.Is(err, user.ErrInvalidSessionToken) || errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderUnauthorized(rw)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, Result{User: u}, http.StatusOK)
}
