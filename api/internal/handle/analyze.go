package handle

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/util"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/vision"
)

// Analyze handles POST /api/analyze with the multipart field "image" and
// returns the labels the model found, most confident first.
// Nothing is written to the scratch directory.
func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	up, err := h.readFile(w, r, "image")
	switch {
	case errors.Is(err, errTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Image too large.")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "No image file provided.")
		return
	}

	labels, raw, err := h.analyzer.Labels(r.Context(), up.Data, util.PickImageMIME(up.ContentType, up.Data))
	switch {
	case errors.Is(err, vision.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "Failed to analyze image.",
			"details": vision.NotConfigured,
		})
	case errors.Is(err, vision.ErrBadLabels):
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Invalid response from Gemini.",
			"raw":   raw,
		})
	case err != nil:
		h.log.Error("label analysis failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to analyze image.",
			"details": err.Error(),
		})
	default:
		writeJSON(w, http.StatusOK, labels)
	}
}
