package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/client-portal/internal/api/http"
	"github.com/spec-kit/client-portal/internal/api/http/handlers"
	"github.com/spec-kit/client-portal/internal/auth"
	"github.com/spec-kit/client-portal/internal/chatbot"
	"github.com/spec-kit/client-portal/internal/config"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/notify"
	"github.com/spec-kit/client-portal/internal/observability"
	"github.com/spec-kit/client-portal/internal/persistence"
	"github.com/spec-kit/client-portal/internal/repository"
	"github.com/spec-kit/client-portal/internal/service"
	"github.com/spec-kit/client-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	billingRepo := repository.NewBillingRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	websiteRepo := repository.NewWebsiteRepository(pool)
	updateRepo := repository.NewProjectUpdateRepository(pool)
	ticketRepo := repository.NewSupportTicketRepository(pool)
	referralRepo := repository.NewReferralRepository(pool)

	sessions := auth.NewSessionStore(redis.Client, cfg.Auth.SessionTTLMinutes)
	dispatcher := events.NewInMemoryDispatcher()

	queue := notify.NewQueue(cfg.Notification.QueueSize, logger, metrics)
	queue.Start(ctx)
	defer queue.Close()

	notifier := notify.NewHTTPNotifier(cfg.Notification)
	notificationService := service.NewNotificationService(cfg.Notification, notifier, queue, userRepo, logger)
	notificationService.RegisterHandlers(dispatcher)

	authService := service.NewAuthService(cfg.Auth, userRepo, sessions)
	accountService := service.NewAccountService(service.AccountDependencies{
		UserRepo:       userRepo,
		Sessions:       sessions,
		Dispatcher:     dispatcher,
		BcryptCost:     cfg.Auth.BcryptCost,
		RecoveryWindow: cfg.Account.RecoveryWindow(),
	})
	billingService := service.NewBillingService(service.BillingDependencies{
		BillingRepo: billingRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
	})
	invoiceService := service.NewInvoiceService(service.InvoiceDependencies{
		InvoiceRepo: invoiceRepo,
		BillingRepo: billingRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
	})
	websiteService := service.NewWebsiteService(service.WebsiteDependencies{
		WebsiteRepo: websiteRepo,
		UpdateRepo:  updateRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
	})
	ticketService := service.NewTicketService(ticketRepo, userRepo)
	referralService := service.NewReferralService(referralRepo, userRepo)

	scheduler := worker.NewScheduler(cfg.Jobs, billingRepo, invoiceRepo, accountService, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("failed to start background jobs", zap.Error(err))
	}
	defer scheduler.Stop()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessions, userRepo)
	bot := chatbot.New(chatbot.DefaultEntries(), chatbot.DefaultFallback)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Chatbot:        handlers.NewChatbotHandler(bot),
		Account:        handlers.NewAccountHandler(accountService),
		Billing:        handlers.NewBillingHandler(billingService),
		Invoices:       handlers.NewInvoicesHandler(invoiceService),
		Websites:       handlers.NewWebsitesHandler(websiteService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Referrals:      handlers.NewReferralsHandler(referralService),
		AdminUsers:     handlers.NewAdminUsersHandler(accountService),
		AdminBilling:   handlers.NewAdminBillingHandler(billingService),
		AdminInvoices:  handlers.NewAdminInvoicesHandler(invoiceService),
		AdminWebsites:  handlers.NewAdminWebsitesHandler(websiteService),
		AdminTickets:   handlers.NewAdminTicketsHandler(ticketService),
		AdminReferrals: handlers.NewAdminReferralsHandler(referralService),
		AuthMiddleware: authMiddleware,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
