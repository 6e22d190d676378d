package http

import "net/http"

func (h *Handler) healthcheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, r, http.StatusOK, "OK", "Server is healthy")
}
