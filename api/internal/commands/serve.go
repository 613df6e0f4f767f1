package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/handle"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/httpserver"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/web"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web application",
	Long: `Serve the upload page and the JSON API:

  GET  /             upload page
  POST /upload       multipart field "file" -> {success, image_data, analysis}
  POST /api/analyze  multipart field "image" -> [{label, confidence}]
  GET  /health       {status, gemini_configured}
  GET  /metrics      Prometheus metrics`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != "" {
		cfg.Port = servePort
	}

	a, err := newApp(cfg, log, nil)
	if err != nil {
		return err
	}

	page, err := web.NewPage(web.PageData{
		MaxUploadMB:      cfg.MaxContentLength >> 20,
		GeminiConfigured: cfg.GeminiConfigured(),
	})
	if err != nil {
		return err
	}

	h := handle.New(a.pipeline, a.analyzer, handle.Options{
		GeminiConfigured: cfg.GeminiConfigured(),
		MaxUploadBytes:   cfg.MaxContentLength,
	}, log)

	router := httpserver.NewRouter(httpserver.Deps{
		Handle:       h,
		Page:         page,
		Metrics:      a.metrics,
		Gatherer:     a.registry,
		MaxBodyBytes: cfg.MaxContentLength,
		Log:          log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("image-analyzer starting",
		zap.String("addr", cfg.Addr()),
		zap.String("model", cfg.GeminiModel),
		zap.Bool("gemini_configured", cfg.GeminiConfigured()),
		zap.String("upload_folder", cfg.UploadFolder))

	return httpserver.Serve(ctx, cfg.Addr(), router, log, cfg.ShutdownTimeout)
}
