package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type AuthHandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *AuthHandlerImpl {
	return &AuthHandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// SetupProviders registers the OAuth providers with goth. It reports whether any was configured.
func SetupProviders(cfg config.OAuthConfig, logger *slog.Logger) bool {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		logger.Info("Google OAuth not configured; provider login disabled")
		return false
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options.HttpOnly = true
	store.Options.Path = "/"
	gothic.Store = store

	goth.UseProviders(google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.CallbackURL, "email", "profile"))
	logger.Info("OAuth providers registered", slog.String("callback", cfg.CallbackURL))
	return true
}

func (h *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.Register(ctx, req.Username, req.Email, req.Password); err != nil {
		l.WarnContext(ctx, "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (h *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.WarnContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, api.ErrorStatus(err), "Invalid email or password")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (h *AuthHandlerImpl) RefreshSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "RefreshSession"))

	var req types.RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		l.WarnContext(ctx, "Refresh failed", slog.Any("error", err))
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (h *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.Logout(ctx, req.RefreshToken); err != nil {
		h.logger.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// ProviderLogin starts the OAuth dance for /auth/{provider}.
func (h *AuthHandlerImpl) ProviderLogin(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, withProviderParam(r))
}

// ProviderCallback completes the OAuth dance and issues our own token pair.
func (h *AuthHandlerImpl) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")
	l := h.logger.With(slog.String("handler", "ProviderCallback"), slog.String("provider", provider))

	gothUser, err := gothic.CompleteUserAuth(w, withProviderParam(r))
	if err != nil {
		l.WarnContext(ctx, "OAuth completion failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication with provider failed")
		return
	}

	user, err := h.authService.GetOrCreateUserFromProvider(ctx, provider, gothUser)
	if err != nil {
		l.ErrorContext(ctx, "Could not resolve provider user", slog.Any("error", err))
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}

	accessToken, refreshToken, err := h.authService.GenerateTokens(ctx, user)
	if err != nil {
		l.ErrorContext(ctx, "Token generation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Message:      "Signed in with " + provider,
	})
}

// gothic looks the provider up in the query string.
func withProviderParam(r *http.Request) *http.Request {
	provider := chi.URLParam(r, "provider")
	if provider == "" {
		return r
	}
	q := r.URL.Query()
	q.Set("provider", provider)
	r.URL.RawQuery = q.Encode()
	return r
}
