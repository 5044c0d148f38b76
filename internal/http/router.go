package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/devmartyn/go-auth-api/internal/auth"
	"github.com/devmartyn/go-auth-api/internal/config"
	"github.com/devmartyn/go-auth-api/internal/httputil"
	"github.com/devmartyn/go-auth-api/internal/logging"
	"github.com/devmartyn/go-auth-api/internal/user"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	userRepo *user.Repository,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first. Credentials are required for cookie auth, so the
	// origin list is an explicit allow-list, never a wildcard.
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(Metrics)                       // Prometheus request metrics
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		log.Println("Swagger UI disabled (production mode)")
	}

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/is-auth", authHandler.IsAuthenticated)
		r.Post("/send-reset-otp", authHandler.SendResetOtp)
		r.Post("/reset-password", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/send-verify-otp", authHandler.SendVerifyOtp)
			r.Post("/verify-email", authHandler.VerifyEmail)
		})
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/api/user/data", handleUserData(userRepo))
		r.Post("/api/user/data", handleUserData(userRepo))
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}

// userDataResponse is the payload for the profile endpoint.
type userDataResponse struct {
	Success  bool     `json:"success"`
	UserData userData `json:"userData"`
}

type userData struct {
	Name              string `json:"name"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

// handleUserData returns the profile of the authenticated user
// @Summary      Current user data
// @Description  Return the display name and verification state of the session user.
// @Tags         user
// @Produce      json
// @Success      200 {object} userDataResponse
// @Failure      400 {object} httputil.Response "Unknown user"
// @Failure      401 {object} httputil.Response
// @Router       /api/user/data [get]
func handleUserData(userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			httputil.RespondFailure(w, "Unauthorized. Login again", http.StatusUnauthorized)
			return
		}

		u, err := userRepo.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httputil.RespondFailure(w, "User not found", http.StatusBadRequest)
				return
			}
			logger.Error("failed to load user data", "error", err.Error())
			httputil.RespondFailure(w, "Something went wrong", http.StatusInternalServerError)
			return
		}

		httputil.RespondJSON(w, userDataResponse{
			Success: true,
			UserData: userData{
				Name:              u.Name,
				IsAccountVerified: u.IsAccountVerified,
			},
		}, http.StatusOK)
	}
}
