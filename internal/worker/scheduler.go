package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/client-portal/internal/config"
	"github.com/spec-kit/client-portal/internal/repository"
	"github.com/spec-kit/client-portal/internal/service"
)

// Scheduler runs the periodic maintenance jobs: the overdue sweep and
// the expired-deletion purge.
type Scheduler struct {
	cfg      config.JobsConfig
	cron     *cron.Cron
	billing  repository.BillingRepository
	invoices repository.InvoiceRepository
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewScheduler builds the scheduler. Jobs are registered on Start.
func NewScheduler(cfg config.JobsConfig, billing repository.BillingRepository, invoices repository.InvoiceRepository, accounts *service.AccountService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		cron:     cron.New(),
		billing:  billing,
		invoices: invoices,
		accounts: accounts,
		logger:   logger,
	}
}

// Start registers the cron entries and launches the scheduler. A bad
// cron expression is returned rather than silently skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("background jobs disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.OverdueSweep, func() { s.runOverdueSweep(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.DeletionPurge, func() { s.runDeletionPurge(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("background jobs started",
		zap.String("overdue_sweep", s.cfg.OverdueSweep),
		zap.String("deletion_purge", s.cfg.DeletionPurge))
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runOverdueSweep flips past-due pending billing records and sent
// invoices to overdue. The sweep emits no notifications.
func (s *Scheduler) runOverdueSweep(ctx context.Context) {
	now := time.Now()

	swept, err := s.billing.MarkOverdue(ctx, now)
	if err != nil {
		s.logger.Error("overdue sweep failed for billing records", zap.Error(err))
	} else if swept > 0 {
		s.logger.Info("billing records marked overdue", zap.Int64("count", swept))
	}

	swept, err = s.invoices.MarkOverdue(ctx, now)
	if err != nil {
		s.logger.Error("overdue sweep failed for invoices", zap.Error(err))
	} else if swept > 0 {
		s.logger.Info("invoices marked overdue", zap.Int64("count", swept))
	}
}

// runDeletionPurge removes accounts whose recovery window has lapsed.
func (s *Scheduler) runDeletionPurge(ctx context.Context) {
	purged, err := s.accounts.PurgeExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("deletion purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		s.logger.Info("expired accounts purged", zap.Int64("count", purged))
	}
}
