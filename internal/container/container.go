package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	appMiddleware "github.com/FACorreiaa/go-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/api/planner"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trip"
	tripItem "github.com/FACorreiaa/go-trip-planner/internal/api/trip_item"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Pool            *pgxpool.Pool
	AuthHandler     *auth.AuthHandlerImpl
	TripHandler     *trip.HandlerImpl
	TripItemHandler *tripItem.HandlerImpl
	PlannerHandler  *planner.HandlerImpl
	PlacesHandler   *places.HandlerImpl
	LLMRateLimiter  *appMiddleware.RateLimiter
	OAuthEnabled    bool
}

// NewContainer initializes and returns a new dependency container. ctx bounds
// background work started here, such as the rate limiter's janitor.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*Container, error) {
	gateway, err := generativeAI.NewGateway(ctx, cfg.LLM, logger)
	if err != nil {
		// The rest of the API stays up; LLM routes answer with the configuration error.
		logger.Error("LLM provider unavailable", slog.Any("error", err))
		gateway = generativeAI.Unavailable(err)
	}

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg, logger)
	authHandler := auth.NewAuthHandlerImpl(authService, logger)
	oauthEnabled := auth.SetupProviders(cfg.OAuth, logger)

	tripRepo := trip.NewRepository(pool, logger)
	tripService := trip.NewServiceImpl(tripRepo, logger)
	tripHandler := trip.NewHandler(tripService, logger)

	tripItemRepo := tripItem.NewRepository(pool, logger)
	tripItemService := tripItem.NewServiceImpl(tripItemRepo, tripService, logger)
	tripItemHandler := tripItem.NewHandler(tripItemService, logger)

	plannerRepo := planner.NewPostgresPlannerRepo(pool, logger)
	plannerService := planner.NewServiceImpl(gateway, plannerRepo, tripService, tripItemService, logger)
	plannerHandler := planner.NewHandler(plannerService, logger)

	placesService := places.NewServiceImpl(gateway, cfg.Places.CacheTTL, cfg.Places.CleanupInterval, logger)
	placesHandler := places.NewHandler(placesService, logger)

	limiter := appMiddleware.NewRateLimiter(ctx,
		cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Pool:            pool,
		AuthHandler:     authHandler,
		TripHandler:     tripHandler,
		TripItemHandler: tripItemHandler,
		PlannerHandler:  plannerHandler,
		PlacesHandler:   placesHandler,
		LLMRateLimiter:  limiter,
		OAuthEnabled:    oauthEnabled,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
