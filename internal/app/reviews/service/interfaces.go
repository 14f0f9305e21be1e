package service

import (
	"context"

	"reviewdesk/internal/app/reviews/entity"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, userID, username string, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetMyReviews(ctx context.Context, userID string) ([]entity.Review, error)
	GetItemReviews(ctx context.Context, itemID string) ([]entity.Review, error)
}

type ModerationServiceInterface interface {
	ListReviews(ctx context.Context, statusFilter string) ([]entity.Review, error)
	ApproveReview(ctx context.Context, reviewID, moderatorID string) (*entity.Review, error)
	RejectReview(ctx context.Context, reviewID, moderatorID string) (*entity.Review, error)
	GetReviewHistory(ctx context.Context, reviewID string) ([]entity.ModerationAudit, error)
}
