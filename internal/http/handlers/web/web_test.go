package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPages(t *testing.T) {
	renderer, err := NewRenderer()
	require.Nil(t, err)

	rw := httptest.NewRecorder()
	renderer.Render(rw, PageResetPassword, Page{Token: `"><script>alert(1)</script>`}, http.StatusOK)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "text/html; charset=utf-8", rw.Header().Get("Content-Type"))
	assert.NotContains(t, rw.Body.String(), `"><script>alert(1)</script>`)
	assert.Contains(t, rw.Body.String(), "Reset password")
}

func TestRenderUnknownPage(t *testing.T) {
	rw := httptest.NewRecorder()
	MustNewRenderer().Render(rw, "missing.html", Page{}, http.StatusOK)
	assert.Equal(t, http.StatusInternalServerError, rw.Code)
}

func TestRenderError(t *testing.T) {
	rw := httptest.NewRecorder()
	MustNewRenderer().RenderError(rw, http.StatusBadRequest, "The requested link has been used")

	assert.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Contains(t, rw.Body.String(), "The requested link has been used")
	assert.Contains(t, rw.Body.String(), "Bad Request")
}
