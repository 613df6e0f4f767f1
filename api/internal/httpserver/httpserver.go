package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/handle"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/metrics"
)

type Deps struct {
	Handle       *handle.Handle
	Page         http.Handler
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer // nil disables /metrics
	MaxBodyBytes int64
	Log          *zap.Logger
}

// NewRouter wires the public routes:
//
//	GET  /             upload page
//	POST /upload       describe an image (field "file")
//	POST /api/analyze  label an image (field "image")
//	GET  /health       liveness + credential presence
//	GET  /metrics      Prometheus
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observe(log, d.Metrics))
	r.Use(recoverJSON(log))
	r.Use(limitBody(d.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	if d.Page != nil {
		r.Method(http.MethodGet, "/", d.Page)
	}
	r.Post("/upload", d.Handle.Upload)
	r.Post("/api/analyze", d.Handle.Analyze)
	r.Get("/health", d.Handle.Health)
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// Serve runs the server until ctx is cancelled, then drains for up to shutdownTimeout.
func Serve(ctx context.Context, addr string, h http.Handler, log *zap.Logger, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return nil
}
