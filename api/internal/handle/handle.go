package handle

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/pipeline"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/vision"
)

// Options are fixed at process start.
type Options struct {
	GeminiConfigured bool
	MaxUploadBytes   int64
}

type Handle struct {
	pipeline *pipeline.Pipeline
	analyzer *vision.Analyzer
	opts     Options
	log      *zap.Logger
}

func New(p *pipeline.Pipeline, a *vision.Analyzer, opts Options, log *zap.Logger) *Handle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handle{
		pipeline: p,
		analyzer: a,
		opts:     opts,
		log:      log,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
