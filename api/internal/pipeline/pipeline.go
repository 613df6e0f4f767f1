// Package pipeline is the upload-validate-analyze-cleanup flow shared by the
// HTTP handler, the Telegram bot and the CLI.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/metrics"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/scratch"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/util"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/vision"
)

const (
	MsgNoFile       = "No se seleccionó ningún archivo"
	MsgBadExtension = "Formato de archivo no permitido. Use: PNG, JPG, JPEG, GIF, BMP, WEBP"
)

// Upload is one received file. It lives for a single Process call.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result is serialized as the response body as-is.
type Result struct {
	Success   bool   `json:"success" yaml:"success"`
	ImageData string `json:"image_data" yaml:"image_data"`
	Analysis  string `json:"analysis" yaml:"analysis"`
}

// ValidationError rejects an upload before anything touches the disk.
type ValidationError struct {
	Reason  string // metrics label: missing_file, extension
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Pipeline struct {
	scratch  *scratch.Dir
	analyzer *vision.Analyzer
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func New(dir *scratch.Dir, analyzer *vision.Analyzer, log *zap.Logger, m *metrics.Metrics) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{scratch: dir, analyzer: analyzer, log: log, metrics: m}
}

// Process validates, stages, analyzes and removes the upload.
//
// Errors are either *ValidationError (nothing was written) or a failure of the
// pipeline's own I/O. Provider failures are never errors: they come back as
// text in Result.Analysis. The staged file is removed on every path after it
// was written. The provider call ignores cancellation of ctx.
func (p *Pipeline) Process(ctx context.Context, up Upload) (Result, error) {
	if up.Filename == "" {
		return Result{}, p.reject("missing_file", MsgNoFile)
	}
	if !scratch.Allowed(up.Filename) {
		return Result{}, p.reject("extension", MsgBadExtension)
	}

	f, err := p.scratch.Stage(up.Filename, up.Data)
	if err != nil {
		return Result{}, err
	}
	defer p.cleanup(f)

	data, err := f.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read staged upload: %w", err)
	}
	imageData := util.EncodeDataURL(util.DisplayMIME, data)

	out := p.analyzer.Analyze(context.WithoutCancel(ctx), data, util.PickImageMIME(up.ContentType, data))

	p.log.Info("upload analyzed",
		zap.String("filename", up.Filename),
		zap.Int("bytes", len(data)),
		zap.String("outcome", out.Kind.String()))

	return Result{
		Success:   true,
		ImageData: imageData,
		Analysis:  out.Text(),
	}, nil
}

func (p *Pipeline) reject(reason, msg string) error {
	p.metrics.Rejected(reason)
	return &ValidationError{Reason: reason, Message: msg}
}

// cleanup is best effort.
func (p *Pipeline) cleanup(f *scratch.File) {
	if err := f.Remove(); err != nil {
		p.log.Warn("scratch cleanup failed", zap.String("path", f.Path), zap.Error(err))
	}
}
