package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appMiddleware "github.com/FACorreiaa/go-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/api/planner"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trip"
	tripItem "github.com/FACorreiaa/go-trip-planner/internal/api/trip_item"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            *auth.AuthHandlerImpl
	TripHandler            *trip.HandlerImpl
	TripItemHandler        *tripItem.HandlerImpl
	PlannerHandler         *planner.HandlerImpl
	PlacesHandler          *places.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
	LLMRateLimiter         *appMiddleware.RateLimiter
	OAuthEnabled           bool
}

// KeyByUserOrIP buckets authenticated callers by user id and everyone else by
// client address.
func KeyByUserOrIP(r *http.Request) string {
	if id, ok := auth.GetUserIDFromContext(r.Context()); ok && id != "" {
		return "user:" + id
	}
	return "ip:" + appMiddleware.KeyByIP(r)
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	llmLimit := func(next http.Handler) http.Handler { return next }
	if cfg.LLMRateLimiter != nil {
		llmLimit = cfg.LLMRateLimiter.Limit(KeyByUserOrIP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			if cfg.OAuthEnabled {
				r.Get("/auth/{provider}", cfg.AuthHandler.ProviderLogin)
				r.Get("/auth/{provider}/callback", cfg.AuthHandler.ProviderCallback)
			}

			r.With(llmLimit).Post("/places/recommendations", cfg.PlacesHandler.RecommendationsHandler)
		})

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Route("/trips", func(r chi.Router) {
				r.Get("/", cfg.TripHandler.ListTripsHandler)
				r.Post("/", cfg.TripHandler.CreateTripHandler)
				r.With(llmLimit).Post("/with-itinerary", cfg.PlannerHandler.CreateTripWithItineraryHandler)

				r.Route("/{tripID}", func(r chi.Router) {
					r.Get("/", cfg.TripHandler.GetTripHandler)
					r.Put("/", cfg.TripHandler.UpdateTripHandler)
					r.Delete("/", cfg.TripHandler.DeleteTripHandler)
					r.Post("/invite", cfg.TripHandler.InvitePartnerHandler)

					r.Get("/items", cfg.TripItemHandler.ListItemsHandler)
					r.Post("/items", cfg.TripItemHandler.CreateItemHandler)
					r.Get("/items/{itemID}", cfg.TripItemHandler.GetItemHandler)
					r.Put("/items/{itemID}", cfg.TripItemHandler.UpdateItemHandler)
					r.Delete("/items/{itemID}", cfg.TripItemHandler.DeleteItemHandler)
					r.Get("/schedule", cfg.TripItemHandler.ScheduleHandler)

					r.Post("/recommendations/promote", cfg.PlannerHandler.PromoteRecommendationHandler)
					r.Get("/itinerary", cfg.PlannerHandler.GetItineraryHandler)
					r.Post("/itinerary/materialize", cfg.PlannerHandler.MaterializeItineraryHandler)

					r.Group(func(r chi.Router) {
						r.Use(llmLimit)
						r.Get("/recommendations", cfg.PlannerHandler.RecommendationsHandler)
						r.Get("/recommendations/all", cfg.PlannerHandler.AllCategoryRecommendationsHandler)
						r.Get("/recommendations/{category}", cfg.PlannerHandler.CategoryRecommendationsHandler)
						r.Post("/itinerary", cfg.PlannerHandler.GenerateItineraryHandler)
					})
				})
			})
		})
	})

	return r
}
