package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vaughan-dsouza/clinicbook/internal/models"
	"github.com/vaughan-dsouza/clinicbook/internal/storage"
	"github.com/vaughan-dsouza/clinicbook/internal/utils"
)

type DoctorHandler struct {
	*base
}

// ---------------------- LIST ----------------------

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.store.ListDoctors(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "admin_doctors", doctors)
}

// ---------------------- CREATE ----------------------

func (h *DoctorHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin_doctor_form", nil)
}

func (h *DoctorHandler) Add(w http.ResponseWriter, r *http.Request) {
	_, err := h.store.AddDoctor(r.Context(), r.FormValue("name"), r.FormValue("specialty"))
	if err != nil {
		h.fail(w, r, err, "/admin/doctors/add")
		return
	}
	h.redirect(w, r, "/admin/doctors", models.LevelSuccess, "Doctor added successfully.")
}

// ---------------------- UPDATE ----------------------

func (h *DoctorHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.URLParamID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	doctor, err := h.store.GetDoctor(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/admin/doctors")
		return
	}
	h.render(w, r, "admin_doctor_form", doctor)
}

func (h *DoctorHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.URLParamID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := h.store.UpdateDoctor(r.Context(), id, r.FormValue("name"), r.FormValue("specialty"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.fail(w, r, err, "/admin/doctors")
		return
	case err != nil:
		h.fail(w, r, err, "/admin/doctors/"+strconv.FormatInt(id, 10)+"/edit")
		return
	}
	h.redirect(w, r, "/admin/doctors", models.LevelSuccess, "Doctor updated successfully.")
}

// ---------------------- DELETE ----------------------

func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.URLParamID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.store.DeleteDoctor(r.Context(), id); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.redirect(w, r, "/admin/doctors", models.LevelSuccess, "Doctor removed.")
}
