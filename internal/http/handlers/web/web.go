package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageVerification  = "verification.html"
	PageResetPassword = "reset_password.html"
	PageError         = "error.html"
)

type Page struct {
	// APIPrefix is prepended to the API routes used by page scripts.
	APIPrefix        string
	ResetPasswordURL string

	IsExpired bool
	Verified  bool
	Token     string

	Title   string
	Message string
}

// Renderer executes one of the embedded pages inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := map[string]*template.Template{}
	for _, name := range []string{PageVerification, PageResetPassword, PageError} {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("could not parse page %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Render(rw http.ResponseWriter, name string, page Page, status int) {
	t, ok := r.pages[name]
	if !ok {
		http.Error(rw, "internal error", http.StatusInternalServerError)
		return
	}

	buf := bytes.Buffer{}
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		http.Error(rw, "internal error", http.StatusInternalServerError)
		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(status)
	rw.Write(buf.Bytes())
}

func (r *Renderer) RenderError(rw http.ResponseWriter, status int, message string) {
	r.Render(rw, PageError, Page{Title: http.StatusText(status), Message: message}, status)
}
