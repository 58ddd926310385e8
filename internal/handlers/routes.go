package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/clinicbook/internal/middleware"
)

type RouterConfig struct {
	SetupRequired bool
	StaticDir     string
	Logger        zerolog.Logger
}

// NewRouter wires every route. Setup guard and lazy bootstrap run before
// all routes; the auth gate runs before the admin gate.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SetupGuard(cfg.SetupRequired))
	if !cfg.SetupRequired {
		r.Use(middleware.Ready(h.store))
	}

	if cfg.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}
	r.Get(middleware.SetupPath, h.Pages.SetupRequired)

	// Public
	r.Get("/", h.Pages.Home)
	r.Get("/register", h.Auth.RegisterForm)
	r.Post("/register", h.Auth.Register)
	r.Get("/login", h.Auth.LoginForm)
	r.Post("/login", h.Auth.Login)
	r.Get("/logout", h.Auth.Logout)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.sessions))

		r.Get("/booking", h.Booking.Show)
		r.Post("/booking", h.Booking.Create)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.sessions))

			r.Get("/admin", h.Admin.Dashboard)
			r.Post("/admin/appointment/{id:[0-9]+}/status", h.Admin.UpdateStatus)

			r.Get("/admin/doctors", h.Doctors.List)
			r.Get("/admin/doctors/add", h.Doctors.AddForm)
			r.Post("/admin/doctors/add", h.Doctors.Add)
			r.Get("/admin/doctors/{id:[0-9]+}/edit", h.Doctors.EditForm)
			r.Post("/admin/doctors/{id:[0-9]+}/edit", h.Doctors.Edit)
			r.Post("/admin/doctors/{id:[0-9]+}/delete", h.Doctors.Delete)
		})
	})

	return r
}
