package deleteuser

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
	deleteuser "exzly/internal/core/services/delete_user"
	"exzly/internal/http/handlers/request"
	"exzly/internal/http/handlers/response"
	"net/http"
)

// IN_TRASH_PARAM makes the deletion permanent.
const IN_TRASH_PARAM = "in-trash"

type Handler struct {
	service services.Service[deleteuser.Input, deleteuser.Result]
}

func New(service services.Service[deleteuser.Input, deleteuser.Result]) *Handler {
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

	_, err := h.service.Run(r.Context(), deleteuser.Input{
		UserID: userID.Value,
		Force:  r.URL.Query().Get(IN_TRASH_PARAM) == "true",
	})
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
	if errors.Is(err, user.ErrCannotDeleteSelf) {
		response.RenderError(rw, "Unable to delete", http.StatusBadRequest)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, Result{Success: true}, http.StatusOK)
}
