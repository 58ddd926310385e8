package handlers

import "net/http"

type PageHandler struct {
	*base
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "home", stats)
}

func (h *PageHandler) SetupRequired(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "setup_required", nil)
}
