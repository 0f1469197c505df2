package service

import (
	"context"
	"time"

	"golang-chart-predictor/internal/predictor/config"
	"golang-chart-predictor/internal/predictor/repository"
	"golang-chart-predictor/pkg/logger"
	"golang-chart-predictor/pkg/telegram"
	"golang-chart-predictor/pkg/utils"

	"github.com/robfig/cron/v3"
)

// OutcomeSweepService periodically finds predictions that are past their
// validation horizon and nudges the operator to attach outcomes, so the
// validated history keeps growing.
type OutcomeSweepService interface {
	Start() error
	Stop()
	Sweep(ctx context.Context)
}

type outcomeSweepService struct {
	cfg          *config.Config
	log          *logger.Logger
	feedbackRepo repository.PredictionFeedbackRepository
	telegramBot  telegram.Notifier
	cron         *cron.Cron
}

// NewOutcomeSweepService creates a new OutcomeSweepService.
func NewOutcomeSweepService(cfg *config.Config, log *logger.Logger,
	feedbackRepo repository.PredictionFeedbackRepository,
	telegramBot telegram.Notifier) OutcomeSweepService {
	return &outcomeSweepService{
		cfg:          cfg,
		log:          log,
		feedbackRepo: feedbackRepo,
		telegramBot:  telegramBot,
		cron:         cron.New(),
	}
}

// Start schedules the sweep on the configured cron expression.
func (s *outcomeSweepService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Predictor.OutcomeSweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Outcome sweep scheduled", logger.StringField("schedule", s.cfg.Predictor.OutcomeSweepSchedule))
	return nil
}

// Stop stops the cron scheduler and waits for a running sweep to finish.
func (s *outcomeSweepService) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep sends a digest of predictions waiting for outcome validation.
func (s *outcomeSweepService) Sweep(ctx context.Context) {
	pending, err := s.feedbackRepo.ListPendingValidation(ctx, utils.TimeNowET())
	if err != nil {
		s.log.Error("Failed to list predictions pending validation", logger.ErrorField(err))
		return
	}

	if len(pending) == 0 {
		s.log.Debug("No predictions pending validation")
		return
	}

	s.log.Info("Predictions pending outcome validation", logger.IntField("count", len(pending)))

	if s.telegramBot == nil {
		return
	}
	message := telegram.FormatPendingValidationMessage(pending)
	if err := s.telegramBot.SendMessage(message); err != nil {
		s.log.Error("Failed to send pending validation digest", logger.ErrorField(err))
	}
}
