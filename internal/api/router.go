package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/damiad/net-worth-tracker/internal/api/handlers"
	custommiddleware "github.com/damiad/net-worth-tracker/internal/api/middleware"
	"github.com/damiad/net-worth-tracker/internal/config"
	"github.com/damiad/net-worth-tracker/internal/service"
)

// Services groups the services the HTTP layer delegates to.
type Services struct {
	System   *service.SystemService
	Rates    *service.RateService
	NetWorth *service.NetWorthService
	Sources  *service.SourceService
	Interest *service.InterestService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	rateHandler := handlers.NewRateHandler(svc.Rates)
	netWorthHandler := handlers.NewNetWorthHandler(svc.NetWorth)
	sourceHandler := handlers.NewSourceHandler(svc.Sources, svc.Interest)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/rates", func(r chi.Router) {
			r.Get("/", rateHandler.Rates)
			r.Put("/{currency}", rateHandler.SetRate)
		})

		r.Route("/user/{userId}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDParams("userId"))

			r.Get("/overview", netWorthHandler.Overview)
			r.Get("/snapshots", netWorthHandler.Snapshots)

			r.Route("/sources", func(r chi.Router) {
				r.Get("/", sourceHandler.Sources)
				r.Post("/", sourceHandler.CreateSource)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", sourceHandler.GetSource)
					r.Put("/", sourceHandler.UpdateSource)
					r.Delete("/", sourceHandler.DeleteSource)
					r.With(custommiddleware.ValidateUUIDParams("debtId")).
						Post("/debts/{debtId}/accrue", sourceHandler.AccruePropertyDebt)
				})
			})

			r.With(custommiddleware.ValidateUUIDMiddleware).
				Post("/records/{uuid}/accrue", sourceHandler.AccrueRecord)
		})
	})

	return r
}
