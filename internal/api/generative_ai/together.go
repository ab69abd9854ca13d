package generativeAI

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Gateway = (*TogetherGateway)(nil)

// TogetherGateway talks to an OpenAI-compatible chat completions endpoint.
type TogetherGateway struct {
	client      *openai.Client
	baseURL     string
	model       string
	temperature float32
	logger      *slog.Logger
}

func NewTogetherGateway(apiKey, baseURL, model string, temperature float32, httpClient *http.Client, logger *slog.Logger) *TogetherGateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	baseURL = strings.TrimRight(baseURL, "/")

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = httpClient

	return &TogetherGateway{
		client:      openai.NewClientWithConfig(cfg),
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

func (g *TogetherGateway) Model() string { return g.model }

func (g *TogetherGateway) Complete(ctx context.Context, req Request) (text string, err error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "TogetherGateway.Complete", trace.WithAttributes(
		attribute.String("llm.provider", ProviderTogether),
		attribute.String("llm.model", g.model),
		attribute.String("llm.mode", string(req.Mode)),
		attribute.Int("prompt.length", len(req.Prompt)),
	))
	defer span.End()
	start := time.Now()
	defer func() { recordCall(ctx, ProviderTogether, req.Mode, start, err) }()

	l := g.logger.With(slog.String("provider", ProviderTogether), slog.String("mode", string(req.Mode)))

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: g.temperature,
		MaxTokens:   int(req.Mode.MaxTokens()),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			l.ErrorContext(ctx, "Completion endpoint returned an error",
				slog.Int("status", apiErr.HTTPStatusCode),
				slog.String("message", apiErr.Message))
		} else {
			l.ErrorContext(ctx, "Completion request failed", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", &types.GenerationError{Mode: string(req.Mode), Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		l.WarnContext(ctx, "Completion response had no content")
		err = &types.GenerationError{Mode: string(req.Mode)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty completion")
		return "", err
	}

	text = resp.Choices[0].Message.Content
	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "completion generated")
	l.DebugContext(ctx, "Completion generated", slog.Int("response_length", len(text)), slog.Duration("latency", time.Since(start)))
	return text, nil
}
