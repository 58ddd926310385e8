package handlers

import (
	"github.com/vaughan-dsouza/clinicbook/internal/session"
	"github.com/vaughan-dsouza/clinicbook/internal/storage"
)

type Handler struct {
	*base

	Auth    *AuthHandler
	Booking *BookingHandler
	Admin   *AdminHandler
	Doctors *DoctorHandler
	Pages   *PageHandler
}

func NewHandler(store *storage.Storage, sessions *session.Manager) *Handler {
	b := &base{store: store, sessions: sessions}
	return &Handler{
		base:    b,
		Auth:    &AuthHandler{b},
		Booking: &BookingHandler{b},
		Admin:   &AdminHandler{b},
		Doctors: &DoctorHandler{b},
		Pages:   &PageHandler{b},
	}
}
