package commands

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/config"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/metrics"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/pipeline"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/scratch"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/vision"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/vision/gemini"
)

// app is everything the serving commands share.
type app struct {
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	analyzer *vision.Analyzer
	pipeline *pipeline.Pipeline
}

func newApp(cfg *config.Config, log *zap.Logger, engine vision.Engine) (*app, error) {
	dir, err := scratch.Open(cfg.UploadFolder)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if engine == nil {
		engine = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	if !cfg.GeminiConfigured() {
		log.Warn("GEMINI_API_KEY not found in environment; analysis is disabled")
	}

	a := vision.NewAnalyzer(engine, log, m)
	log.Info("analyzer ready",
		zap.String("engine", a.EngineName()),
		zap.String("upload_folder", dir.Path()),
		zap.Bool("gemini_configured", a.Configured()),
	)
	return &app{
		registry: reg,
		metrics:  m,
		analyzer: a,
		pipeline: pipeline.New(dir, a, log, m),
	}, nil
}
