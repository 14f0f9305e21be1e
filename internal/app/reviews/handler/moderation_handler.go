package handler

import (
	"context"
	"errors"
	"net/http"

	"reviewdesk/internal/app/reviews/entity"
	"reviewdesk/internal/app/reviews/service"
	"reviewdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ModerationServiceInterface interface {
	ListReviews(ctx context.Context, statusFilter string) ([]entity.Review, error)
	ApproveReview(ctx context.Context, reviewID, moderatorID string) (*entity.Review, error)
	RejectReview(ctx context.Context, reviewID, moderatorID string) (*entity.Review, error)
	GetReviewHistory(ctx context.Context, reviewID string) ([]entity.ModerationAudit, error)
}

type ModerationHandler struct {
	moderationService ModerationServiceInterface
}

func NewModerationHandler(moderationService ModerationServiceInterface) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
	}
}

// ListReviews обрабатывает GET /api/reviews?status=...
// Неизвестное значение фильтра не ошибка: возвращается полный список
func (h *ModerationHandler) ListReviews(c *gin.Context) {
	reviews, err := h.moderationService.ListReviews(c.Request.Context(), c.Query("status"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list reviews")
		c.JSON(http.StatusInternalServerError, entity.APIResponse{
			Success: false,
			Message: "Server error while fetching reviews",
		})
		return
	}

	c.JSON(http.StatusOK, entity.APIResponse{
		Success: true,
		Data:    entity.ReviewListData{Count: len(reviews), Reviews: reviews},
	})
}

// ApproveReview обрабатывает PUT /api/reviews/:id/approve
func (h *ModerationHandler) ApproveReview(c *gin.Context) {
	h.decide(c, h.moderationService.ApproveReview, "Review approved successfully")
}

// RejectReview обрабатывает PUT /api/reviews/:id/reject
func (h *ModerationHandler) RejectReview(c *gin.Context) {
	h.decide(c, h.moderationService.RejectReview, "Review rejected")
}

// GetReviewHistory обрабатывает GET /api/reviews/:id/history
func (h *ModerationHandler) GetReviewHistory(c *gin.Context) {
	reviewID := c.Param("id")

	history, err := h.moderationService.GetReviewHistory(c.Request.Context(), reviewID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, entity.APIResponse{Success: false, Message: "Review not found"})
			return
		}
		logger.Error().Err(err).Str("review_id", reviewID).Msg("Failed to get review history")
		c.JSON(http.StatusInternalServerError, entity.APIResponse{
			Success: false,
			Message: "Server error while fetching review history",
		})
		return
	}

	c.JSON(http.StatusOK, entity.APIResponse{
		Success: true,
		Data:    entity.AuditListData{Count: len(history), History: history},
	})
}

func (h *ModerationHandler) decide(c *gin.Context, op func(ctx context.Context, reviewID, moderatorID string) (*entity.Review, error), successMessage string) {
	reviewID := c.Param("id")

	moderatorID, _ := c.Get("user_id")
	moderatorIDStr, ok := moderatorID.(string)
	if !ok || moderatorIDStr == "" {
		c.JSON(http.StatusUnauthorized, entity.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	review, err := op(c.Request.Context(), reviewID, moderatorIDStr)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, entity.APIResponse{Success: false, Message: "Review not found"})
			return
		}
		logger.Error().Err(err).Str("review_id", reviewID).Msg("Failed to moderate review")
		c.JSON(http.StatusInternalServerError, entity.APIResponse{
			Success: false,
			Message: "Server error while moderating review",
		})
		return
	}

	c.JSON(http.StatusOK, entity.APIResponse{
		Success: true,
		Message: successMessage,
		Data:    entity.ReviewData{Review: review},
	})
}
