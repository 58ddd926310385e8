package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/clinicbook/internal/models"
	"github.com/vaughan-dsouza/clinicbook/internal/session"
	"github.com/vaughan-dsouza/clinicbook/internal/storage"
	"github.com/vaughan-dsouza/clinicbook/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = map[string]*template.Template{}

func init() {
	for _, page := range []string{
		"home", "register", "login", "booking",
		"admin_dashboard", "admin_doctors", "admin_doctor_form", "setup_required",
	} {
		views[page] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html"))
	}
}

type pageData struct {
	Session *utils.SessionClaims
	Flashes []models.Flash
	Data    any
}

// base carries what every handler group needs.
type base struct {
	store    *storage.Storage
	sessions *session.Manager
}

func (b *base) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	claims, _ := b.sessions.Current(r)
	pd := pageData{
		Session: claims,
		Flashes: b.sessions.Flashes(w, r),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := views[page].ExecuteTemplate(&buf, "layout", pd); err != nil {
		b.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// redirect flashes msg and sends the browser to path.
func (b *base) redirect(w http.ResponseWriter, r *http.Request, path string, level models.Level, msg string) {
	b.sessions.Flash(w, r, level, msg)
	http.Redirect(w, r, path, http.StatusFound)
}

// fail redirects to path with the message of a user-facing error; any
// other error fails the request.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error, path string) {
	if ue, ok := storage.UserError(err); ok {
		b.redirect(w, r, path, ue.Level, ue.Msg)
		return
	}
	b.serverError(w, r, err)
}

func (b *base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
