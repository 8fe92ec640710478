package myhttp

import (
	"net/http"

	"taxi-booking/internal/common/jwtauth"
	"taxi-booking/internal/metrics"
	"taxi-booking/internal/web-service/adapters/driver/myhttp/handle"
	"taxi-booking/internal/web-service/adapters/driver/myhttp/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// NewRouter mounts the driver routes behind the token middleware.
func NewRouter(
	driverHandler *handle.DriverHandler,
	dispatcher *ws.Dispatcher,
	authMiddleware *jwtauth.AuthMiddleware,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Wrap)

		r.Get("/driver-status/{driver_id}", driverHandler.GetDriverStatus())
		r.Patch("/driver-status/{driver_id}", driverHandler.UpdateDriverStatus())
		r.Get("/list-drivers", driverHandler.ListAllDrivers())
		r.Post("/rate-driver", driverHandler.RateDriver())
		r.Get("/avg-rating-driver/{driver_id}", driverHandler.AverageRatingDriver())

		// websocket routes
		r.Get("/ws/drivers/{driver_id}", dispatcher.WsHandler())
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	return r
}
