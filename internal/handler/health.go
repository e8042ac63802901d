package handler

import "net/http"

// Health handles GET /healthz and lists the channels the device drives.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	channels := h.dev.Channels()
	ids := make([]int, len(channels))
	for i, ch := range channels {
		ids[i] = int(ch)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"channels": ids,
	})
}
