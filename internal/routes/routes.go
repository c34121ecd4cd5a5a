package routes

import (
	"github.com/AnshRaj112/studio-backend/internal/handlers"
	"github.com/AnshRaj112/studio-backend/internal/middleware"
	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r chi.Router, tokens *services.ClientTokenManager) {
	r.Get("/health", handlers.Health)

	// Public site routes
	r.Get("/api/packages", handlers.GetPackages)
	r.Post("/api/checkout", handlers.Checkout)
	r.Post("/api/contact", handlers.SubmitContact)
	r.Post("/api/upload", handlers.UploadFile)

	// Trainer applications
	r.Post("/api/trainers/apply", handlers.ApplyTrainer)
	r.Get("/api/trainers/status", handlers.CheckTrainerStatus)

	// Sign in (no signup: admins come from `admin create-admin`, clients from the admin API)
	r.Post("/api/admin/signin", handlers.AdminSignin)
	r.Post("/api/client/signin", handlers.ClientSignin)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Post("/api/admin/signout", handlers.AdminSignout)
		r.Get("/api/admin/me", handlers.AdminMe)
		r.Get("/api/admin/blocked-ips", handlers.GetBlockedIPs)
		r.Put("/api/admin/unblock-ip", handlers.UnblockIP)

		r.Post("/api/admin/packages", handlers.UpsertPackage)
		r.Delete("/api/admin/packages", handlers.DeactivatePackage)

		r.Get("/api/admin/trainers/pending", handlers.GetPendingTrainers)
		r.Get("/api/admin/trainers/approved", handlers.GetApprovedTrainers)
		r.Put("/api/admin/trainers/approve", handlers.ApproveTrainer)
		r.Delete("/api/admin/trainers/reject", handlers.RejectTrainer)

		r.Get("/api/admin/contacts", handlers.GetContacts)
		r.Delete("/api/admin/contacts", handlers.DeleteContact)

		r.Post("/api/admin/clients", handlers.CreateClient)
		r.Get("/api/admin/clients", handlers.GetClients)
		r.Put("/api/admin/clients/tier", handlers.UpdateClientTier)
		r.With(middleware.CommitsRateLimit).Get("/api/admin/clients/commits", handlers.GetClientCommitsAdmin)

		r.Get("/api/admin/requests", handlers.GetAdminRequests)
		r.Get("/api/admin/requests/queue", handlers.GetRequestQueue)
		r.Put("/api/admin/requests/status", handlers.UpdateRequestStatus)
		r.Put("/api/admin/requests/estimate", handlers.SetEstimate)
		r.Get("/api/admin/requests/activity", handlers.GetRequestActivity)

		// Live request feed (session token via ?token= for browsers)
		r.Get("/ws/admin/requests", handlers.AdminRequestFeed)
	})

	// Client portal routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireClient(tokens))

		r.Post("/api/client/signout", handlers.ClientSignout)
		r.Get("/api/client/me", handlers.ClientMe)
		r.Get("/api/client/requests", handlers.GetClientRequests)
		r.Post("/api/client/requests", handlers.CreateRequest)
		r.Put("/api/client/requests/approve", handlers.ApproveEstimate)
		r.With(middleware.CommitsRateLimit).Get("/api/client/commits", handlers.GetClientCommits)
	})
}
