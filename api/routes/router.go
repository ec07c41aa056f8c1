package routes

import (
	"net/http"

	"github.com/chackchack-dev/chackchack-backend/api/controllers"
	"github.com/chackchack-dev/chackchack-backend/api/middleware"
	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
	"github.com/chackchack-dev/chackchack-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies carries everything the router wires together.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	RateLimiter middleware.RateLimiterStore
	Verifier    middleware.OwnerVerifier

	Health        *controllers.HealthController
	Auth          *controllers.AuthController
	Accounts      *controllers.AccountsController
	QrCodes       *controllers.QrCodesController
	Notifications *controllers.NotificationsController
}

// New assembles the full HTTP surface.
func New(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Metrics(deps.HTTPMetrics))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS())

	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/pay", controllers.PayRedirect)

	authRequired := middleware.Auth(deps.Config.JWT, deps.Verifier, deps.Logger)
	rlCfg := deps.Config.AuthRateLimit

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(deps.RateLimiter, middleware.GuestRateLimitPolicy(rlCfg), deps.Logger)).
				Post("/guest", deps.Auth.RegisterGuest)
			r.With(middleware.RateLimit(deps.RateLimiter, middleware.LoginRateLimitPolicy(rlCfg), deps.Logger)).
				Post("/login", deps.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(authRequired)
				r.Post("/logout", deps.Auth.Logout)
				r.Get("/privacy-consent", deps.Auth.PrivacyConsent)
				r.Post("/privacy-consent", deps.Auth.GivePrivacyConsent)
				r.Delete("/me", deps.Auth.DeleteAccount)
			})
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Use(authRequired)
			r.Post("/", deps.Accounts.Create)
			r.Get("/", deps.Accounts.List)
			r.Put("/{accountId}", deps.Accounts.Update)
			r.Delete("/{accountId}", deps.Accounts.Delete)
		})

		r.Route("/qrcodes", func(r chi.Router) {
			// Payer pages load a QR by id with no session.
			r.Get("/{qrId}", deps.QrCodes.Get)

			r.Group(func(r chi.Router) {
				r.Use(authRequired)
				r.Post("/", deps.QrCodes.Create)
				r.Get("/", deps.QrCodes.List)
				r.Post("/sync", deps.QrCodes.Sync)
				r.Put("/{qrId}", deps.QrCodes.Update)
				r.Delete("/{qrId}", deps.QrCodes.Delete)
			})
		})

		r.With(authRequired).Get("/notifications", deps.Notifications.List)

		r.With(middleware.RateLimit(deps.RateLimiter, middleware.NotifyRateLimitPolicy(rlCfg), deps.Logger)).
			Post("/notify/{qrId}", deps.Notifications.Notify)
	})

	return r
}
