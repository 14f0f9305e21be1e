package repository

import (
	"context"

	"reviewdesk/internal/app/reviews/entity"
)

// ReviewRepository определяет методы для работы с отзывами в MongoDB
// Единственный источник истины по инварианту "один отзыв на пару (user, item)"
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByUserAndItem(ctx context.Context, userID, itemID string) (*entity.Review, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Review, error)
	GetByItemID(ctx context.Context, itemID string, status entity.ReviewStatus) ([]entity.Review, error)
	GetAll(ctx context.Context, status entity.ReviewStatus) ([]entity.Review, error)
	UpdateStatus(ctx context.Context, id string, status entity.ReviewStatus) (*entity.Review, error)
	CountByStatus(ctx context.Context, status entity.ReviewStatus) (int64, error)
}

// AuditRepository определяет методы для журнала решений модераторов в PostgreSQL
type AuditRepository interface {
	Create(ctx context.Context, record *entity.ModerationAudit) error
	GetByReviewID(ctx context.Context, reviewID string) ([]entity.ModerationAudit, error)
}
