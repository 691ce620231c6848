package router

import (
	"hall/internal/handlers/booking"
	"hall/internal/handlers/health"
	"hall/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Booking booking.Handler
	Health  health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Auth           middleware.Auth
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Health.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Group(func(authenticated chi.Router) {
			authenticated.Use(r.Auth.Auth)
			r.DomainHandlers.Booking.Router(authenticated)
		})
	})

	// Read-only surface for internal services (reporting, notifications),
	// authenticated by shared key instead of a user token.
	router.Route("/internal/v1", func(internal chi.Router) {
		internal.Use(r.Auth.APIKey)
		internal.Get("/bookings", r.DomainHandlers.Booking.GetBookings)
		internal.Get("/bookings/{id}", r.DomainHandlers.Booking.GetBookingByID)
	})
}

func New(domainHandlers DomainHandlers, auth middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Auth:           auth,
	}
}
