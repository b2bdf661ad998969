package verification

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/verification"
	"exzly/internal/core/services"
	confirmlink "exzly/internal/core/services/confirm_link"
	"exzly/internal/http/handlers/response"
	"exzly/internal/http/handlers/session"
	"exzly/internal/http/handlers/web"
	"net/http"
)

const MAX_TOKEN_LEN = 128

type Handler struct {
	service          services.Service[confirmlink.Input, confirmlink.Result]
	renderer         *web.Renderer
	apiPrefix        string
	resetPasswordURL string
}

func New(
	service services.Service[confirmlink.Input, confirmlink.Result],
	renderer *web.Renderer,
	apiPrefix string,
	resetPasswordURL string,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if renderer == nil {
		panic(e.NewNilArgumentError("renderer"))
	}
	return &Handler{
		service:          service,
		renderer:         renderer,
		apiPrefix:        apiPrefix,
		resetPasswordURL: resetPasswordURL,
	}
}

func (h *Handler) page() web.Page {
	return web.Page{APIPrefix: h.apiPrefix, ResetPasswordURL: h.resetPasswordURL}
}

// ServeHTTP renders the code form when no token is given, otherwise
// confirms the link. Must be mounted behind session.WithSession.
func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.renderer.Render(rw, web.PageVerification, h.page(), http.StatusOK)
		return
	}
	if len(token) > MAX_TOKEN_LEN {
		h.renderer.RenderError(rw, http.StatusBadRequest, response.MsgLinkExpired)
		return
	}

	sid, ok := session.FromContext(r.Context())
	if !ok {
		h.renderer.RenderError(rw, http.StatusInternalServerError, "internal error")
		return
	}

	result, err := h.service.Run(
		r.Context(),
		confirmlink.Input{CodeHash: verification.CodeHash(token), SessionID: sid},
	)
	if errors.Is(err, verification.ErrExpired) {
		page := h.page()
		page.IsExpired = true
		h.renderer.Render(rw, web.PageVerification, page, http.StatusOK)
		return
	}
	if errors.Is(err, verification.ErrRecordDoesNotExist) {
		h.renderer.RenderError(rw, http.StatusBadRequest, response.MsgLinkExpired)
		return
	}
	if errors.Is(err, verification.ErrAlreadyUsed) {
		h.renderer.RenderError(rw, http.StatusBadRequest, response.MsgLinkIsUsed)
		return
	}
	if err != nil {
		h.renderer.RenderError(rw, http.StatusInternalServerError, "internal error")
		return
	}

	if result.Purpose == verification.PurposePasswordReset {
		session.Refresh(r.Context(), rw)
		http.Redirect(rw, r, h.resetPasswordURL, http.StatusSeeOther)
		return
	}

	page := h.page()
	page.Verified = result.Verified
	h.renderer.Render(rw, web.PageVerification, page, http.StatusOK)
}
