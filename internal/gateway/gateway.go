package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sozercan/insight-mole/internal/llm"
	"github.com/sozercan/insight-mole/internal/telemetry"
)

// Gateway turns a task into one templated chat completion and post-processes
// the reply. It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	provider llm.Provider
	strict   bool
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
}

type Option func(*Gateway)

// WithStrictSchema makes JSON replies fail when required fields are missing
// or out of range instead of passing through as parsed.
func WithStrictSchema(strict bool) Option {
	return func(g *Gateway) { g.strict = strict }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(g *Gateway) { g.tracer = t }
}

func New(provider llm.Provider, opts ...Option) *Gateway {
	g := &Gateway{
		provider: provider,
		tracer:   telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AnalyzeQuery answers a free-text question with a structured result.
func (g *Gateway) AnalyzeQuery(ctx context.Context, query string) (*AnalysisResult, error) {
	var result *AnalysisResult
	err := g.run(ctx, KindAnalysis, "", query, func(text string) error {
		var err error
		result, err = decodeAnalysis(text, g.strict)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DetectAnomalies asks the model for outliers in a metric series. An empty
// list is a successful answer.
func (g *Gateway) DetectAnomalies(ctx context.Context, in AnomalyInput) ([]Anomaly, error) {
	var anomalies []Anomaly
	err := g.run(ctx, KindAnomalies, "", anomaliesUserMessage(in), func(text string) error {
		var err error
		anomalies, err = decodeAnomalies(text, g.strict)
		return err
	})
	if err != nil {
		return nil, err
	}
	return anomalies, nil
}

// GenerateQuery returns SQL or Python source for a natural-language prompt.
// An empty lang means SQL.
func (g *Gateway) GenerateQuery(ctx context.Context, prompt string, lang QueryLanguage) (string, error) {
	if lang == "" {
		lang = LanguageSQL
	}
	var code string
	err := g.run(ctx, KindCode, string(lang), prompt, func(text string) error {
		code = text
		return nil
	})
	return code, err
}

// GenerateSummary writes a narrative report for the chosen audience. An empty
// audience means executive.
func (g *Gateway) GenerateSummary(ctx context.Context, in SummaryInput) (string, error) {
	if in.Audience == "" {
		in.Audience = AudienceExecutive
	}
	var summary string
	err := g.run(ctx, KindSummary, string(in.Audience), summaryUserMessage(in), func(text string) error {
		summary = text
		return nil
	})
	return summary, err
}

// run performs one completion for kind and hands the fence-stripped text to
// accept. Template lookup errors are returned as-is; provider and accept
// errors become a *Failure.
func (g *Gateway) run(ctx context.Context, kind Kind, variant, user string, accept func(text string) error) error {
	p, err := profileFor(kind)
	if err != nil {
		return err
	}
	system, err := SystemPrompt(kind, variant)
	if err != nil {
		return err
	}

	ctx, span := g.tracer.Start(ctx, "gateway."+kind.String(), trace.WithAttributes(
		attribute.String("gateway.kind", kind.String()),
		attribute.String("gateway.variant", variant),
		attribute.Float64("gateway.temperature", p.temperature),
	))
	defer span.End()

	start := time.Now()
	resp, err := g.provider.Complete(ctx, system, user, llm.WithTemperature(p.temperature))
	if err == nil && resp == nil {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		return g.fail(span, kind, ClassTransport, start, err)
	}
	g.metrics.AddTokens(kind.String(), resp.Usage.TotalTokens)

	if err := accept(StripFences(resp.Content)); err != nil {
		return g.fail(span, kind, ClassShape, start, err)
	}

	g.metrics.ObserveRequest(kind.String(), telemetry.OutcomeSuccess, time.Since(start))
	span.SetStatus(codes.Ok, "")
	log.Debug().
		Str("kind", kind.String()).
		Str("variant", variant).
		Str("model", resp.Model).
		Int64("tokens", resp.Usage.TotalTokens).
		Dur("duration", time.Since(start)).
		Msg("completion succeeded")
	return nil
}

func (g *Gateway) fail(span trace.Span, kind Kind, class FailureClass, start time.Time, cause error) error {
	f := &Failure{
		Kind:  kind,
		Class: class,
		ID:    uuid.NewString(),
		cause: cause,
	}

	outcome := telemetry.OutcomeTransportError
	if class == ClassShape {
		outcome = telemetry.OutcomeShapeError
	}
	g.metrics.ObserveRequest(kind.String(), outcome, time.Since(start))

	span.RecordError(cause)
	span.SetStatus(codes.Error, string(class))
	span.SetAttributes(attribute.String("gateway.diagnostic_id", f.ID))

	level := zerolog.ErrorLevel
	if errors.Is(cause, context.Canceled) {
		level = zerolog.WarnLevel
	}
	log.WithLevel(level).Err(cause).
		Str("kind", kind.String()).
		Str("class", string(class)).
		Str("diagnostic_id", f.ID).
		Msg("gateway operation failed")
	return f
}
