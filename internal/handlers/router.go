package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the /api surface. Process-wide middleware (request IDs,
// logging, CORS) is attached by the caller.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(h.RateLimit("register", 10, time.Minute)).Post("/register", h.Register)
			r.With(h.RateLimit("login", 10, time.Minute)).Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAuth)
				r.Get("/me", h.Me)
				r.Delete("/me", h.DeleteAccount)
			})
		})

		r.Route("/destinations", func(r chi.Router) {
			r.Get("/", h.ListDestinations)
			r.Get("/{id}", h.GetDestination)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAuth)
				r.Post("/", h.CreateDestination)
				r.Put("/{id}", h.UpdateDestination)
				r.Delete("/{id}", h.DeleteDestination)
			})
		})
	})

	return r
}
