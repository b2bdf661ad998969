package resetpassword

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	getresetmarker "exzly/internal/core/services/get_reset_marker"
	"exzly/internal/http/handlers/session"
	"exzly/internal/http/handlers/web"
	"net/http"
)

type Handler struct {
	service   services.Service[getresetmarker.Input, getresetmarker.Result]
	renderer  *web.Renderer
	apiPrefix string
}

func New(
	service services.Service[getresetmarker.Input, getresetmarker.Result],
	renderer *web.Renderer,
	apiPrefix string,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if renderer == nil {
		panic(e.NewNilArgumentError("renderer"))
	}
	return &Handler{service: service, renderer: renderer, apiPrefix: apiPrefix}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	sid, ok := session.FromContext(r.Context())
	if !ok {
		h.renderer.RenderError(rw, http.StatusNotFound, "Page not found")
		return
	}

	result, err := h.service.Run(r.Context(), getresetmarker.Input{SessionID: sid})
	if errors.Is(err, verification.ErrMarkerDoesNotExist) {
		h.renderer.RenderError(rw, http.StatusNotFound, "Page not found")
		return
	}
	if err != nil {
		h.renderer.RenderError(rw, http.StatusInternalServerError, "internal error")
		return
	}

	h.renderer.Render(
		rw,
		web.PageResetPassword,
		web.Page{APIPrefix: h.apiPrefix, Token: string(result.Token)},
		http.StatusOK,
	)
}
