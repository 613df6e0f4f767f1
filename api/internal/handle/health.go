package handle

import "net/http"

type HealthResponse struct {
	Status           string `json:"status"`
	GeminiConfigured bool   `json:"gemini_configured"`
}

// Health reports whether a Gemini credential was present at startup.
// Reachability of the provider is not checked.
func (h *Handle) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:           "OK",
		GeminiConfigured: h.opts.GeminiConfigured,
	})
}
