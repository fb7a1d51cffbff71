package http

import (
	nethttp "net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/client-portal/internal/api/http/handlers"
	"github.com/spec-kit/client-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Chatbot        *handlers.ChatbotHandler
	Account        *handlers.AccountHandler
	Billing        *handlers.BillingHandler
	Invoices       *handlers.InvoicesHandler
	Websites       *handlers.WebsitesHandler
	Tickets        *handlers.TicketsHandler
	Referrals      *handlers.ReferralsHandler
	AdminUsers     *handlers.AdminUsersHandler
	AdminBilling   *handlers.AdminBillingHandler
	AdminInvoices  *handlers.AdminInvoicesHandler
	AdminWebsites  *handlers.AdminWebsitesHandler
	AdminTickets   *handlers.AdminTicketsHandler
	AdminReferrals *handlers.AdminReferralsHandler
	AuthMiddleware *auth.AuthMiddleware
	MetricsHandler nethttp.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.MetricsHandler))
	}

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/auth/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	app.Post("/chatbot/ask", cfg.Chatbot.Message)
	app.Post("/account/recover", cfg.Account.Recover)

	client := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireUser())
	client.Get("/account", cfg.Account.Me)
	client.Post("/account/delete", cfg.Account.RequestDeletion)
	client.Get("/billing", cfg.Billing.ListBilling)
	client.Get("/billing/summary", cfg.Billing.Summary)
	client.Get("/invoices", cfg.Invoices.ListInvoices)
	client.Get("/invoices/summary", cfg.Invoices.Summary)
	client.Get("/websites", cfg.Websites.ListWebsites)
	client.Get("/websites/:id/updates", cfg.Websites.ListUpdates)
	client.Post("/tickets", cfg.Tickets.Create)
	client.Get("/tickets", cfg.Tickets.List)
	client.Post("/referrals", cfg.Referrals.Create)
	client.Get("/referrals", cfg.Referrals.List)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Post("/users", cfg.AdminUsers.Provision)
	admin.Get("/users", cfg.AdminUsers.List)
	admin.Patch("/users/:id/status", cfg.AdminUsers.UpdateStatus)
	admin.Post("/billing", cfg.AdminBilling.Create)
	admin.Get("/billing", cfg.AdminBilling.List)
	admin.Patch("/billing/:id", cfg.AdminBilling.UpdateStatus)
	admin.Post("/invoices", cfg.AdminInvoices.Create)
	admin.Get("/invoices", cfg.AdminInvoices.List)
	admin.Patch("/invoices/:id", cfg.AdminInvoices.UpdateStatus)
	admin.Post("/websites", cfg.AdminWebsites.Create)
	admin.Get("/websites", cfg.AdminWebsites.List)
	admin.Patch("/websites/:id", cfg.AdminWebsites.Update)
	admin.Post("/websites/:id/updates", cfg.AdminWebsites.PostUpdate)
	admin.Get("/tickets", cfg.AdminTickets.List)
	admin.Patch("/tickets/:id", cfg.AdminTickets.UpdateStatus)
	admin.Get("/referrals", cfg.AdminReferrals.List)
	admin.Patch("/referrals/:id", cfg.AdminReferrals.UpdateStatus)
}
