package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/devfolio/blog-api/internal/api/cookies"
	"github.com/devfolio/blog-api/internal/api/handlers"
	"github.com/devfolio/blog-api/internal/api/middleware"
	"github.com/devfolio/blog-api/internal/api/respond"
	"github.com/devfolio/blog-api/internal/config"
	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/ratelimit"
	"github.com/devfolio/blog-api/internal/service"
)

func NewRouter(services *service.Services, limiter ratelimit.Store, cfg *config.Config, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	wr := &respond.Writer{Log: log, Development: !cfg.IsProduction()}
	policy := cookies.Policy{Production: cfg.IsProduction()}
	ownerCfg := middleware.OwnerConfig{Email: cfg.OwnerEmail, UserID: cfg.OwnerUserID}

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	publicLimit := middleware.RateLimit(limiter, cfg.RateLimitMax, cfg.RateLimitWindow, "public", wr)
	authGate := middleware.NewAuth(services.Auth, policy, cfg.AccessTokenExpiry, wr, log).Handler

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, policy, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry, wr)
	aboutHandler := handlers.NewAboutHandler(services.About, cfg.ResumeMaxBytes, wr)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public auth routes
			r.Group(func(r chi.Router) {
				r.Use(publicLimit)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh-token", authHandler.Refresh)
			})

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(authGate)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		r.Route("/about", func(r chi.Router) {
			// Public reads
			r.Group(func(r chi.Router) {
				r.Use(publicLimit)
				r.Get("/", aboutHandler.Get)
				r.Get("/resume/preview", aboutHandler.PreviewResume)
				r.Get("/resume/download", aboutHandler.DownloadResume)
			})

			// Owner/admin mutations
			r.Group(func(r chi.Router) {
				r.Use(authGate)
				r.With(middleware.RequireOwnerOrAdmin(ownerCfg, wr)).Post("/", aboutHandler.Create)
				r.With(middleware.RequireOwnerOrAdmin(ownerCfg, wr)).Put("/", aboutHandler.Update)

				// Resume management is developer-only
				r.With(middleware.RequireDeveloper(ownerCfg, wr)).Post("/resume", aboutHandler.UploadResume)
				r.With(middleware.RequireDeveloper(ownerCfg, wr)).Put("/resume", aboutHandler.UploadResume)
				r.With(middleware.RequireDeveloper(ownerCfg, wr)).Delete("/resume", aboutHandler.DeleteResume)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		wr.Error(w, domain.NewNotFoundError("Route not found: "+req.Method+" "+req.URL.Path))
	})

	return r
}
