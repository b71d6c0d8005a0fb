package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/config"
	"github.com/mamadbah2/ricemill/internal/repository/mongodb"
	"github.com/mamadbah2/ricemill/internal/service/reporting"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	repo         mongodb.Repository
	cfg          config.DigestConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. The cron runs in the
// configured mill timezone so the digest closes the local business day.
func NewScheduler(cfg config.DigestConfig, reportingSvc *reporting.Service, repo mongodb.Repository, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		reportingSvc: reportingSvc,
		repo:         repo,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.writeDailyDigest); err != nil {
		s.logger.Error("failed to schedule daily digest", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) writeDailyDigest() {
	s.logger.Info("generating daily digest")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	digest, err := s.reportingSvc.BuildDailyDigest(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to build daily digest", zap.Error(err))
		return
	}

	digest.CreatedAt = time.Now().UTC()
	if err := s.repo.SaveDigest(ctx, *digest); err != nil {
		s.logger.Error("failed to save daily digest", zap.Error(err))
		return
	}

	s.logger.Info("daily digest saved",
		zap.Time("date", digest.Date),
		zap.Int("records", digest.Records),
		zap.Float64("gross_cost", digest.GrossCost))
}
