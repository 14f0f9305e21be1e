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

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("review already exists for this user and item")
)

// ReviewService обрабатывает операции автора отзывов
// Координирует репозиторий, Redis-кеш и отправку событий в Kafka
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	cache         infrastructure.ReviewCache
	kafkaProducer infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	cache infrastructure.ReviewCache,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// CreateReview создает новый отзыв со статусом PENDING
// Дубликат проверяется дважды: явная проверка здесь дает чистое сообщение
// пользователю, уникальный индекс в MongoDB закрывает гонку двух
// одновременных запросов: обе ветки возвращают ErrDuplicateReview
func (s *ReviewService) CreateReview(ctx context.Context, userID, username string, req *entity.CreateReviewRequest) (*entity.Review, error) {
	_, err := s.reviewRepo.GetByUserAndItem(ctx, userID, req.ItemID)
	if err == nil {
		return nil, ErrDuplicateReview
	}
	if !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	review := &entity.Review{
		UserID:     userID,
		Username:   username,
		ItemID:     req.ItemID,
		ItemName:   req.ItemName,
		ReviewText: req.ReviewText,
		Rating:     req.Rating,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	if review.Rating != nil {
		metrics.ReviewsRating.Observe(float64(*review.Rating))
	}

	event := entity.ReviewEvent{
		EventType: "REVIEW_CREATED",
		ReviewID:  review.ID.Hex(),
		UserID:    review.UserID,
		ItemID:    review.ItemID,
		Rating:    review.Rating,
		Status:    review.Status,
		Timestamp: time.Now(),
	}

	if err := s.publishReviewEvent(ctx, event); err != nil {
		// Отзыв уже создан, проблемы с Kafka не критичны
		logger.Warn().Err(err).Str("review_id", event.ReviewID).Msg("Failed to publish review created event")
	}

	return review, nil
}

// GetMyReviews получает все отзывы пользователя, новые первыми
func (s *ReviewService) GetMyReviews(ctx context.Context, userID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reviews: %w", err)
	}

	return reviews, nil
}

// GetItemReviews получает одобренные отзывы по товару
// Read-through кеш: ошибки Redis не останавливают запрос, идем в MongoDB
func (s *ReviewService) GetItemReviews(ctx context.Context, itemID string) ([]entity.Review, error) {
	cached, err := s.cache.GetItemReviews(ctx, itemID)
	if err != nil {
		logger.Warn().Err(err).Str("item_id", itemID).Msg("Failed to read item reviews cache")
	}
	if cached != nil {
		return cached, nil
	}

	reviews, err := s.reviewRepo.GetByItemID(ctx, itemID, entity.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to get item reviews: %w", err)
	}

	if err := s.cache.SetItemReviews(ctx, itemID, reviews); err != nil {
		logger.Warn().Err(err).Str("item_id", itemID).Msg("Failed to cache item reviews")
	}

	return reviews, nil
}

// publishReviewEvent отправляет событие об отзыве в Kafka
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	// Ключ = ReviewID для сохранения порядка событий одного отзыва
	if err := s.kafkaProducer.PublishMessage(ctx, event.ReviewID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
