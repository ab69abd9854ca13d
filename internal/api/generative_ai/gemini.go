package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Gateway = (*GeminiGateway)(nil)

var errNoContent = errors.New("response contained no text")

// GeminiGateway uses the genai SDK. The client is created once and reused.
type GeminiGateway struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

func NewGeminiGateway(ctx context.Context, apiKey, model string, temperature float32, logger *slog.Logger) (*GeminiGateway, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGateway{
		client:      client,
		model:       model,
		temperature: temperature,
		logger:      logger,
	}, nil
}

func (g *GeminiGateway) Model() string { return g.model }

func (g *GeminiGateway) generateConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](g.temperature),
		MaxOutputTokens: req.Mode.MaxTokens(),
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	return cfg
}

func (g *GeminiGateway) Complete(ctx context.Context, req Request) (text string, err error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GeminiGateway.Complete", trace.WithAttributes(
		attribute.String("llm.provider", ProviderGemini),
		attribute.String("llm.model", g.model),
		attribute.String("llm.mode", string(req.Mode)),
		attribute.Int("prompt.length", len(req.Prompt)),
	))
	defer span.End()
	start := time.Now()
	defer func() { recordCall(ctx, ProviderGemini, req.Mode, start, err) }()

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), g.generateConfig(req))
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini request failed", slog.String("mode", string(req.Mode)), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate content")
		return "", &types.GenerationError{Mode: string(req.Mode), Err: err}
	}

	text = result.Text()
	if text == "" {
		err = &types.GenerationError{Mode: string(req.Mode), Err: errNoContent}
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty completion")
		return "", err
	}

	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "content generated")
	return text, nil
}
