package generativeAI

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Mode selects the token ceiling and labels metrics.
type Mode string

const (
	ModeRecommendations Mode = "recommendations"
	ModeItinerary       Mode = "itinerary"
	ModePlaces          Mode = "places"
)

// MaxTokens is the completion ceiling for the mode.
func (m Mode) MaxTokens() int32 {
	switch m {
	case ModeItinerary:
		return 3000
	case ModePlaces:
		return 1000
	default:
		return 800
	}
}

const (
	DefaultTemperature float32 = 0.7

	ProviderTogether = "together"
	ProviderGemini   = "gemini"

	defaultTogetherModel   = "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free"
	defaultTogetherBaseURL = "https://api.together.xyz/v1"
	defaultGeminiModel     = "gemini-2.0-flash"
)

// Request is a single-turn completion: one system instruction and one user prompt.
type Request struct {
	Mode   Mode
	System string
	Prompt string
}

// Gateway sends one completion request and returns the raw text. It never retries.
type Gateway interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

// NewGateway builds the configured backend. A missing credential is reported
// before any client is created.
func NewGateway(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (Gateway, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderTogether
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	switch provider {
	case ProviderTogether:
		if cfg.APIKey == "" {
			return nil, &types.ConfigurationError{Setting: "TOGETHER_API_KEY"}
		}
		return NewTogetherGateway(cfg.APIKey, orDefault(cfg.BaseURL, defaultTogetherBaseURL), orDefault(cfg.Model, defaultTogetherModel), temperature, nil, logger), nil
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, &types.ConfigurationError{Setting: "GOOGLE_GEMINI_API_KEY"}
		}
		return NewGeminiGateway(ctx, cfg.APIKey, orDefault(cfg.Model, defaultGeminiModel), temperature, logger)
	default:
		return nil, &types.ConfigurationError{Setting: "llm.provider (unknown provider " + provider + ")"}
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func recordCall(ctx context.Context, provider string, mode Mode, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m := metrics.Get()
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("mode", string(mode)),
		attribute.String("outcome", outcome),
	)
	m.LLMRequestsTotal.Add(ctx, 1, attrs)
	m.LLMRequestDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}

// Unavailable stands in when NewGateway failed so the rest of the API keeps
// serving. Every call returns err.
func Unavailable(err error) Gateway {
	return unavailableGateway{err: err}
}

type unavailableGateway struct{ err error }

func (g unavailableGateway) Complete(context.Context, Request) (string, error) { return "", g.err }

func (g unavailableGateway) Model() string { return "" }
