package common

import "net/http"

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) EventStats(w http.ResponseWriter, r *http.Request) {
	if h.Events == nil {
		WriteError(w, http.StatusNotFound, "not_found", "event channel disabled")
		return
	}
	WriteJSON(w, http.StatusOK, h.Events.Stats())
}
