package handlers

import (
	"net/http"

	"github.com/vaughan-dsouza/clinicbook/internal/models"
	"github.com/vaughan-dsouza/clinicbook/internal/utils"
)

type AdminHandler struct {
	*base
}

type dashboardPage struct {
	Appointments []models.AppointmentView
	Statuses     []models.Status
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	appts, err := h.store.ListAll(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "admin_dashboard", dashboardPage{Appointments: appts, Statuses: models.Statuses})
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.URLParamID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.store.UpdateStatus(r.Context(), id, r.FormValue("status")); err != nil {
		h.fail(w, r, err, "/admin")
		return
	}
	h.redirect(w, r, "/admin", models.LevelSuccess, "Appointment status updated.")
}
