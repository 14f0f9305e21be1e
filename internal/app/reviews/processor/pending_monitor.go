package processor

import (
	"context"

	"reviewdesk/internal/app/reviews/entity"
	"reviewdesk/internal/app/reviews/repository"
	"reviewdesk/pkg/logger"
	"reviewdesk/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// PendingMonitor периодически снимает размер очереди модерации
// и публикует его в gauge reviews_pending_backlog
type PendingMonitor struct {
	cron       *cron.Cron
	reviewRepo repository.ReviewRepository
}

func NewPendingMonitor(reviewRepo repository.ReviewRepository) *PendingMonitor {
	return &PendingMonitor{
		cron:       cron.New(),
		reviewRepo: reviewRepo,
	}
}

func (m *PendingMonitor) Start(ctx context.Context, schedule string) error {
	_, err := m.cron.AddFunc(schedule, func() {
		m.report(ctx)
	})
	if err != nil {
		return err
	}

	m.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("Pending reviews monitor started")

	// Первый замер сразу, не дожидаясь расписания
	m.report(ctx)

	return nil
}

func (m *PendingMonitor) Stop() {
	stopCtx := m.cron.Stop()
	<-stopCtx.Done()
	logger.Info().Msg("Pending reviews monitor stopped")
}

func (m *PendingMonitor) report(ctx context.Context) {
	count, err := m.reviewRepo.CountByStatus(ctx, entity.StatusPending)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count pending reviews")
		return
	}

	metrics.ReviewsPendingBacklog.Set(float64(count))
	logger.Info().Int64("pending", count).Msg("Moderation queue size")
}
