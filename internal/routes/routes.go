package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/mindscribe/mindscribe-backend/internal/handlers"
	"github.com/mindscribe/mindscribe-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/register", handlers.Register)
	r.Post("/api/login", handlers.Login)

	// Journaling routes (everything below requires a valid Bearer token)
	r.Route("/api/journals", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/", handlers.CreateJournalEntry)
		r.Get("/", handlers.GetJournalEntries)
		r.Get("/recent", handlers.GetRecentJournalEntries)
		r.Get("/milestones", handlers.GetMilestones)
		r.Get("/mood-trends", handlers.GetMoodTrends)
		r.Get("/{id}", handlers.GetJournalEntry)
		r.Put("/{id}", handlers.UpdateJournalEntry)
		r.Delete("/{id}", handlers.DeleteJournalEntry)
	})
}
