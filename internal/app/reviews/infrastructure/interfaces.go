package infrastructure

import (
	"context"

	"reviewdesk/internal/app/reviews/entity"
)

// MessagePublisher интерфейс для отправки событий в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ReviewCache кеш одобренных отзывов по товару (Redis)
// Инвалидируется при каждом решении модератора по товару
type ReviewCache interface {
	GetItemReviews(ctx context.Context, itemID string) ([]entity.Review, error)
	SetItemReviews(ctx context.Context, itemID string, reviews []entity.Review) error
	InvalidateItem(ctx context.Context, itemID string) error
	Close() error
}
