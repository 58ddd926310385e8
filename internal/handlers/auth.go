package handlers

import (
	"net/http"

	"github.com/vaughan-dsouza/clinicbook/internal/models"
	"github.com/vaughan-dsouza/clinicbook/internal/storage"
	"github.com/vaughan-dsouza/clinicbook/internal/utils"
)

type AuthHandler struct {
	*base
}

// -------------- REGISTER ----------------------

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	_, err := h.store.Register(r.Context(), storage.RegisterInput{
		FullName:        utils.FormValue(r, "full_name"),
		Email:           utils.FormValue(r, "email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	})
	if err != nil {
		h.fail(w, r, err, "/register")
		return
	}

	h.redirect(w, r, "/login", models.LevelSuccess, "Registration successful. You can now log in.")
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.Authenticate(r.Context(), utils.FormValue(r, "email"), r.FormValue("password"))
	if err != nil {
		h.fail(w, r, err, "/login")
		return
	}

	if err := h.sessions.Login(w, u); err != nil {
		h.serverError(w, r, err)
		return
	}

	dest := "/booking"
	if u.IsAdmin {
		dest = "/admin"
	}
	h.redirect(w, r, dest, models.LevelSuccess, "Welcome back!")
}

// -------------- LOGOUT -----------------------

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	h.redirect(w, r, "/", models.LevelSuccess, "You have been logged out.")
}
