package handlers

import (
	"net/http"

	"github.com/vaughan-dsouza/clinicbook/internal/models"
	"github.com/vaughan-dsouza/clinicbook/internal/session"
	"github.com/vaughan-dsouza/clinicbook/internal/storage"
	"github.com/vaughan-dsouza/clinicbook/internal/utils"
)

type BookingHandler struct {
	*base
}

type bookingPage struct {
	Doctors      []models.Doctor
	Appointments []models.Appointment
	Today        string
}

func (h *BookingHandler) Show(w http.ResponseWriter, r *http.Request) {
	claims, _ := session.FromContext(r.Context())

	doctors, err := h.store.ListDoctors(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	appts, err := h.store.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "booking", bookingPage{
		Doctors:      doctors,
		Appointments: appts,
		Today:        h.store.Today(),
	})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := session.FromContext(r.Context())

	_, err := h.store.CreateAppointment(r.Context(), storage.AppointmentInput{
		UserID: claims.UserID,
		Doctor: utils.FormValue(r, "doctor_name"),
		Date:   utils.FormValue(r, "appointment_date"),
		Time:   utils.FormValue(r, "appointment_time"),
		Reason: utils.FormValue(r, "reason"),
	})
	if err != nil {
		h.fail(w, r, err, "/booking")
		return
	}

	h.redirect(w, r, "/booking", models.LevelSuccess, "Appointment request submitted.")
}
