package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reviewdesk/internal/app/reviews/entity"
	"reviewdesk/internal/app/reviews/infrastructure"
	"reviewdesk/internal/app/reviews/repository"
	"reviewdesk/pkg/logger"
	"reviewdesk/pkg/metrics"
)

// ModerationService обрабатывает операции модератора над статусами отзывов
// Машина состояний: PENDING -> APPROVED / REJECTED, решение можно менять,
// терминальных статусов нет
type ModerationService struct {
	reviewRepo    repository.ReviewRepository
	auditRepo     repository.AuditRepository
	cache         infrastructure.ReviewCache
	kafkaProducer infrastructure.MessagePublisher
}

// NewModerationService создает новый сервис модерации с внедрением зависимостей
func NewModerationService(
	reviewRepo repository.ReviewRepository,
	auditRepo repository.AuditRepository,
	cache infrastructure.ReviewCache,
	kafkaProducer infrastructure.MessagePublisher,
) *ModerationService {
	return &ModerationService{
		reviewRepo:    reviewRepo,
		auditRepo:     auditRepo,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// ListReviews получает все отзывы, опционально отфильтрованные по статусу
// Неизвестное значение фильтра игнорируется: возвращается полный список
func (s *ModerationService) ListReviews(ctx context.Context, statusFilter string) ([]entity.Review, error) {
	var status entity.ReviewStatus
	if statusFilter != "" {
		if parsed, ok := entity.ParseStatus(statusFilter); ok {
			status = parsed
		}
	}

	reviews, err := s.reviewRepo.GetAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}

// ApproveReview устанавливает статус APPROVED независимо от текущего
func (s *ModerationService) ApproveReview(ctx context.Context, reviewID, moderatorID string) (*entity.Review, error) {
	return s.setStatus(ctx, reviewID, moderatorID, entity.StatusApproved, "REVIEW_APPROVED")
}

// RejectReview устанавливает статус REJECTED независимо от текущего
func (s *ModerationService) RejectReview(ctx context.Context, reviewID, moderatorID string) (*entity.Review, error) {
	return s.setStatus(ctx, reviewID, moderatorID, entity.StatusRejected, "REVIEW_REJECTED")
}

// GetReviewHistory возвращает журнал решений модераторов по отзыву
func (s *ModerationService) GetReviewHistory(ctx context.Context, reviewID string) ([]entity.ModerationAudit, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	records, err := s.auditRepo.GetByReviewID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review history: %w", err)
	}

	return records, nil
}

// setStatus общий путь approve/reject
// Смена статуса в MongoDB: единственная авторитетная запись; журнал аудита,
// событие Kafka и инвалидация кеша выполняются best-effort
func (s *ModerationService) setStatus(ctx context.Context, reviewID, moderatorID string, status entity.ReviewStatus, eventType string) (*entity.Review, error) {
	review, err := s.reviewRepo.UpdateStatus(ctx, reviewID, status)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to set review status: %w", err)
	}

	metrics.ModerationDecisions.WithLabelValues(string(status)).Inc()

	audit := &entity.ModerationAudit{
		ReviewID:    reviewID,
		ModeratorID: moderatorID,
		Action:      status,
	}
	if err := s.auditRepo.Create(ctx, audit); err != nil {
		logger.Warn().Err(err).Str("review_id", reviewID).Msg("Failed to write moderation audit record")
	}

	event := entity.ReviewEvent{
		EventType: eventType,
		ReviewID:  reviewID,
		UserID:    review.UserID,
		ItemID:    review.ItemID,
		Rating:    review.Rating,
		Status:    review.Status,
		Timestamp: time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err == nil {
		if err := s.kafkaProducer.PublishMessage(ctx, reviewID, eventData); err != nil {
			logger.Warn().Err(err).Str("review_id", reviewID).Msg("Failed to publish moderation event")
		}
	}

	if err := s.cache.InvalidateItem(ctx, review.ItemID); err != nil {
		logger.Warn().Err(err).Str("item_id", review.ItemID).Msg("Failed to invalidate item reviews cache")
	}

	return review, nil
}
