package vision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/metrics"
)

var (
	ErrNotConfigured = errors.New("vision: provider not configured")
	ErrBadLabels     = errors.New("vision: unparseable labels")
)

type Analyzer struct {
	engine  Engine
	log     *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func NewAnalyzer(engine Engine, log *zap.Logger, m *metrics.Metrics) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		engine:  engine,
		log:     log,
		metrics: m,
		tracer:  otel.Tracer("github.com/alexisbanda/AI-Image-Analyzer/api/internal/vision"),
	}
}

func (a *Analyzer) Configured() bool { return a.engine != nil && a.engine.Configured() }

func (a *Analyzer) EngineName() string {
	if a.engine == nil {
		return ""
	}
	return a.engine.Name()
}

// Analyze describes the image with DescribePrompt. It never returns an error:
// a missing credential or any provider failure is reported as an Unavailable outcome.
func (a *Analyzer) Analyze(ctx context.Context, image []byte, mime string) (out Outcome) {
	if !a.Configured() {
		a.metrics.ObserveAnalysis("not_configured", 0)
		return Unavailable(NotConfigured)
	}

	ctx, span := a.tracer.Start(ctx, "vision.Analyze", trace.WithAttributes(
		attribute.String("vision.engine", a.engine.Name()),
		attribute.String("vision.model", a.engine.GetModel()),
		attribute.String("vision.mime", mime),
		attribute.Int("vision.image_bytes", len(image)),
	))
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = Unavailable(FailurePrefix + fmt.Sprint(r))
		}
		a.metrics.ObserveAnalysis(out.Kind.String(), time.Since(start))
		if !out.IsOK() {
			span.SetStatus(codes.Error, out.Reason())
		}
		span.End()
	}()

	text, err := a.engine.Describe(ctx, image, mime, DescribePrompt)
	if err != nil {
		a.log.Warn("vision analyze failed",
			zap.String("engine", a.engine.Name()),
			zap.String("model", a.engine.GetModel()),
			zap.Error(err))
		span.RecordError(err)
		return Unavailable(FailurePrefix + err.Error())
	}
	return Ok(text)
}

// Labels runs LabelsPrompt. Unlike Analyze it reports failures as errors;
// raw holds the model text whenever one was received.
func (a *Analyzer) Labels(ctx context.Context, image []byte, mime string) (labels []Label, raw string, err error) {
	if !a.Configured() {
		return nil, "", ErrNotConfigured
	}

	ctx, span := a.tracer.Start(ctx, "vision.Labels", trace.WithAttributes(
		attribute.String("vision.engine", a.engine.Name()),
		attribute.String("vision.model", a.engine.GetModel()),
	))
	defer span.End()

	raw, err = a.engine.Labels(ctx, image, mime, LabelsPrompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}
	labels, err = ParseLabels(raw)
	if err != nil {
		a.log.Warn("vision labels unparseable", zap.String("raw", raw), zap.Error(err))
		span.SetStatus(codes.Error, "bad labels json")
		return nil, raw, fmt.Errorf("%w: %v", ErrBadLabels, err)
	}
	return labels, raw, nil
}
