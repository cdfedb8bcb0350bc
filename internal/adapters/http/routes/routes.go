package routes

import (
	"qube-panel/internal/adapters/http/handlers"
	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/config"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, client *upstream.Client, store services.CredentialStore, cfg *config.Config) {
	// Initialize services
	sessionService := services.NewSessionService(store, client, cfg.Session.TTL)
	authzService := services.NewAuthzService()
	viewService := services.NewViewService(authzService)
	reportService := services.NewReportService()
	linkService := services.NewLinkService(client)

	// A sign-in or sign-out snaps the session back to its landing view
	sessionService.Subscribe(viewService.OnIdentityChange)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(client)
	authHandler := handlers.NewAuthHandler(client, sessionService, authzService, viewService, cfg)
	viewHandler := handlers.NewViewHandler(authzService, viewService)
	dashboardHandler := handlers.NewDashboardHandler(client, reportService, cfg)
	campaignHandler := handlers.NewCampaignHandler(client)
	reportHandler := handlers.NewReportHandler(client, reportService, cfg)
	linkHandler := handlers.NewLinkHandler(linkService)
	adminHandler := handlers.NewAdminHandler(client)
	profileHandler := handlers.NewProfileHandler(client)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Public auth routes
	auth := apiV1.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	auth.Post("/reset-password", middleware.StrictRateLimiter(), authHandler.ResetPassword)

	// Everything below requires a session with a resolvable identity
	gated := apiV1.Group("", middleware.SessionMiddleware(sessionService))

	gated.Get("/auth/me", authHandler.Me)
	gated.Get("/views", viewHandler.GetViews)
	gated.Post("/views/navigate", viewHandler.Navigate)

	dashboard := gated.Group("/dashboard", middleware.RequireView(authzService, domain.ViewDashboard))
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/activity", dashboardHandler.GetActivity)
	dashboard.Get("/chart", dashboardHandler.GetChart)

	campaigns := gated.Group("/campaigns", middleware.RequireView(authzService, domain.ViewCampaigns))
	campaigns.Get("/", campaignHandler.GetCampaigns)

	reports := gated.Group("/reports", middleware.RequireView(authzService, domain.ViewReports))
	reports.Get("/", reportHandler.GetReports)
	reports.Get("/export", reportHandler.ExportReports)

	links := gated.Group("/links", middleware.RequireView(authzService, domain.ViewGenerateLink))
	links.Post("/generate", linkHandler.GenerateLink)

	// Admin views. Companies and influencers are separate views with
	// separate gates; campaign creation and network sync live with the
	// companies view in the panel.
	companies := gated.Group("/admin/companies", middleware.RequireView(authzService, domain.ViewCompanies))
	companies.Get("/", adminHandler.GetCompanies)
	companies.Post("/", adminHandler.CreateCompany)
	companies.Get("/:id", adminHandler.GetCompany)
	companies.Put("/:id", adminHandler.UpdateCompany)
	companies.Post("/:id/users", adminHandler.AddCompanyUser)

	adminCampaigns := gated.Group("/admin/campaigns", middleware.RequireView(authzService, domain.ViewCompanies))
	adminCampaigns.Post("/", adminHandler.CreateCampaign)

	network := gated.Group("/admin/network", middleware.RequireView(authzService, domain.ViewCompanies))
	network.Post("/sync", adminHandler.SyncNetworkCampaigns)

	influencers := gated.Group("/admin/influencers", middleware.RequireView(authzService, domain.ViewInfluencers))
	influencers.Get("/", adminHandler.GetInfluencers)
	influencers.Post("/", adminHandler.CreateInfluencer)
	influencers.Get("/:id", adminHandler.GetInfluencer)
	influencers.Put("/:id", adminHandler.UpdateInfluencer)

	settings := gated.Group("/profile", middleware.RequireView(authzService, domain.ViewSettings))
	settings.Get("/", profileHandler.GetProfile)
	settings.Post("/", profileHandler.UpdateProfile)
}
