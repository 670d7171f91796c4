package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sagehill-community/activities-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/register", handlers.Register)
	r.Post("/api/auth/login", handlers.Login)
	r.Post("/api/auth/logout", handlers.Logout)
	r.Get("/api/auth/me", handlers.Me)

	// Activity routes
	r.Get("/api/activities", handlers.ListActivities)
	r.Post("/api/activities", handlers.CreateActivity)
	r.Get("/api/activities/mine", handlers.MyActivities)
	r.Get("/api/activities/user/{userID}", handlers.UserActivities)
	r.Get("/api/activities/{id}", handlers.GetActivity)
	r.Put("/api/activities/{id}", handlers.UpdateActivity)
	r.Delete("/api/activities/{id}", handlers.DeleteActivity)

	// RSVP routes
	r.Get("/api/activities/{id}/rsvps", handlers.ListRSVPs)
	r.Post("/api/activities/{id}/rsvps", handlers.AddRSVP)
	r.Delete("/api/activities/{id}/rsvps", handlers.CancelRSVP)
	r.Post("/api/sign-up", handlers.BatchSignUp)

	// Sign-up cart routes
	r.Get("/api/cart", handlers.GetCart)
	r.Post("/api/cart", handlers.AddToCart)
	r.Delete("/api/cart", handlers.RemoveFromCart)

	// Admin review routes
	r.Get("/api/admin/activities/pending", handlers.PendingActivities)
	r.Put("/api/admin/activities/{id}/approve", handlers.ApproveActivity)
	r.Delete("/api/admin/activities/{id}/reject", handlers.RejectActivity)

	// Question routes (visitor -> admins, admin -> visitor)
	r.Post("/api/questions", handlers.SubmitQuestion)
	r.Post("/api/admin/questions/answer", handlers.AnswerQuestion)
}
