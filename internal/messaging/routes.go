package messaging

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Route("/api/messages", func(r chi.Router) {
		r.Post("/read", handler.MarkRead)
		r.Get("/{matchId}", handler.GetMessages)
		r.Post("/{matchId}", handler.SendMessage)
	})
}
