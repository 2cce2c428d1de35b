package interaction

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Route("/api/interactions", func(r chi.Router) {
		r.Post("/like", handler.Like)
		r.Post("/super-like", handler.SuperLike)
		r.Post("/pass", handler.Pass)
	})

	r.Route("/api/likes", func(r chi.Router) {
		r.Get("/", handler.GetIncomingLikes)
		r.Post("/{id}/respond", handler.RespondToLike)
	})

	r.Route("/api/matches", func(r chi.Router) {
		r.Get("/", handler.GetMatches)
		r.Get("/{id}", handler.GetMatch)
		r.Delete("/{id}", handler.Unmatch)
	})
}
