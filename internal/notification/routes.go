package notification

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Post("/", handler.CreateNotification)
		r.Get("/{userId}", handler.GetNotifications)
		r.Put("/{id}/read", handler.MarkRead)
		r.Put("/read-all", handler.MarkAllRead)
	})
}
