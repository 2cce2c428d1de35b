package presence

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Route("/api/presence", func(r chi.Router) {
		r.Post("/online", handler.SetOnline)
		r.Post("/offline", handler.SetOffline)
	})

	r.Get("/api/status/{userId}", handler.GetStatus)
}
