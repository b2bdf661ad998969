package restoreuser

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	restoreuser "exzly/internal/core/services/restore_user"
	"exzly/internal/http/handlers/request"
	"exzly/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	service services.Service[restoreuser.Input, restoreuser.Result]
}

func New(service services.Service[restoreuser.Input, restoreuser.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	Success bool `json:"success"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, ok := request.UserIDParam(r)
	if !ok || !userID.IsPresent {
		response.RenderUserNotFound(rw)
		return
	}

	_, err := h.service.Run(r.Context(), restoreuser.Input{UserID: userID.Value})
	if errors.Is(err, user.ErrInvalidSessionToken) {
		response.RenderUnauthorized(rw)
		return
	}
	if errors.Is(err, user.ErrPermissionDenied) {
		response.RenderForbidden(rw)
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

	response.Render(rw, Result{Success: true}, http.StatusOK)
}
