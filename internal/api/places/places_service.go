package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/extract"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const SystemPrompt = "You are a helpful travel guide that provides information in JSON format. Always provide information ONLY about the specific city that is asked for."

// ErrUnparseable is returned when the model's answer holds no JSON array of attractions.
var ErrUnparseable = errors.New("failed to parse attractions data")

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Attractions(ctx context.Context, destination string) ([]types.Attraction, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	gateway generativeAI.Gateway
	cache   *cache.Cache
}

func NewServiceImpl(gateway generativeAI.Gateway, ttl, cleanup time.Duration, logger *slog.Logger) *ServiceImpl {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &ServiceImpl{
		logger:  logger,
		gateway: gateway,
		cache:   cache.New(ttl, cleanup),
	}
}

// BuildPrompt asks for five attractions located in destination as a JSON array.
func BuildPrompt(destination string) string {
	return fmt.Sprintf(`List 5 must-visit tourist attractions that are specifically located in %[1]s. These must be actual attractions that exist in %[1]s. For each attraction, provide:
1. Name
2. A brief description
3. Type (e.g., museum, landmark, park)
4. Estimated time to spend there
5. Best time to visit

Format the response as a JSON array with the following structure:
[{
  "name": "Attraction name",
  "description": "Brief description",
  "type": "Type of attraction",
  "estimatedDuration": "Time to spend",
  "bestTimeToVisit": "Best time"
}]

Only return the JSON array, no other text. All attractions MUST be located in %[1]s.`, destination)
}

func cacheKey(destination string) string {
	return strings.ToLower(strings.Join(strings.Fields(destination), " "))
}

// Attractions returns the model's must-visit list for destination. Answers are
// cached per destination, ignoring case and extra whitespace.
func (s *ServiceImpl) Attractions(ctx context.Context, destination string) ([]types.Attraction, error) {
	destination = strings.TrimSpace(destination)
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "Attractions", trace.WithAttributes(
		attribute.String("destination", destination),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "Attractions"), slog.String("destination", destination))

	if destination == "" {
		return nil, fmt.Errorf("destination is required: %w", api.ErrValidation)
	}

	key := cacheKey(destination)
	span.SetAttributes(attribute.String("cache.key", key))
	if cached, found := s.cache.Get(key); found {
		l.DebugContext(ctx, "Serving attractions from cache")
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return slices.Clone(cached.([]types.Attraction)), nil
	}

	text, err := s.gateway.Complete(ctx, generativeAI.Request{
		Mode:   generativeAI.ModePlaces,
		System: SystemPrompt,
		Prompt: BuildPrompt(destination),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, err
	}

	res := extract.Array[types.Attraction](text)
	if !res.IsStructured() {
		l.WarnContext(ctx, "Attractions response had no JSON array", slog.Int("rawLength", len(text)), slog.Any("error", res.Err))
		metrics.Get().ParseDegradationsTotal.Add(ctx, 1)
		span.SetStatus(codes.Error, "Unparseable response")
		return nil, ErrUnparseable
	}

	places := res.Value
	if places == nil {
		places = []types.Attraction{}
	}
	s.cache.Set(key, slices.Clone(places), cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("places.count", len(places)))
	return places, nil
}
