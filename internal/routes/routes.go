package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/roomgate/internal/handlers"
	"github.com/BradenHooton/roomgate/internal/middleware"
)

// RegisterRoutes registers all application routes.
// There is no session layer: privileged admin routes authenticate from the request body on every call.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	rateLimitConfig middleware.RateLimitConfig,
) {
	limitByIP := middleware.RateLimitByIP(rateLimitConfig)

	router.Route("/auth", func(r chi.Router) {
		r.With(limitByIP).Post("/login", authHandler.Login)
		r.With(limitByIP).Get("/email-exists", authHandler.EmailExists)
	})

	router.Route("/admins", func(r chi.Router) {
		// Every route here carries credentials, so all of them are flood-limited
		r.Use(limitByIP)

		r.Post("/", adminHandler.CreateAdministrator)
		r.Post("/apply", adminHandler.SubmitApplication)
		r.Post("/applications", adminHandler.ListPendingAdministrators)
		r.Post("/{applicantID}/approve", adminHandler.ApproveAdministrator)
		r.Post("/{applicantID}/reject", adminHandler.RejectAdministrator)
		r.Post("/landlords/{landlordID}/verification", adminHandler.VerifyLandlord)
		r.Post("/verifications/{verificationID}/status", adminHandler.VerifyListing)
	})
}
