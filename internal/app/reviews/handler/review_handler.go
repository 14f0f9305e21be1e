package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"reviewdesk/internal/app/reviews/entity"
	"reviewdesk/internal/app/reviews/service"
	"reviewdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, userID, username string, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetMyReviews(ctx context.Context, userID string) ([]entity.Review, error)
	GetItemReviews(ctx context.Context, itemID string) ([]entity.Review, error)
}

type ReviewHandler struct {
	reviewService ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// CreateReview обрабатывает POST /api/reviews
// 201: отзыв создан в статусе PENDING, 400: ошибка валидации, 409: дубликат
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, username, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.APIResponse{
			Success: false,
			Message: "Please provide itemId, itemName, and reviewText",
		})
		return
	}

	// Длина текста и непустота полей проверяются после trim
	req.ItemID = strings.TrimSpace(req.ItemID)
	req.ItemName = strings.TrimSpace(req.ItemName)
	req.ReviewText = strings.TrimSpace(req.ReviewText)

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.APIResponse{
			Success: false,
			Message: formatValidationError(err),
		})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, username, &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateReview) {
			c.JSON(http.StatusConflict, entity.APIResponse{
				Success: false,
				Message: "You have already submitted a review for this item. Duplicate reviews are not allowed.",
			})
			return
		}
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create review")
		c.JSON(http.StatusInternalServerError, entity.APIResponse{
			Success: false,
			Message: "Server error while submitting review",
		})
		return
	}

	c.JSON(http.StatusCreated, entity.APIResponse{
		Success: true,
		Message: "Review submitted successfully. Awaiting moderator approval.",
		Data:    entity.ReviewData{Review: review},
	})
}

// GetMyReviews обрабатывает GET /api/reviews/my
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetMyReviews(c.Request.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to get user reviews")
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

// GetItemReviews обрабатывает GET /api/reviews/item/:item_id
// Публичный эндпоинт, возвращает только одобренные отзывы
func (h *ReviewHandler) GetItemReviews(c *gin.Context) {
	itemID := strings.TrimSpace(c.Param("item_id"))
	if itemID == "" {
		c.JSON(http.StatusBadRequest, entity.APIResponse{
			Success: false,
			Message: "Item ID is required",
		})
		return
	}

	reviews, err := h.reviewService.GetItemReviews(c.Request.Context(), itemID)
	if err != nil {
		logger.Error().Err(err).Str("item_id", itemID).Msg("Failed to get item reviews")
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

// callerIdentity достает идентичность автора из контекста, установленную AuthMiddleware
func callerIdentity(c *gin.Context) (userID, username string, ok bool) {
	id, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, entity.APIResponse{Success: false, Message: "Unauthorized"})
		return "", "", false
	}

	userID, ok = id.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusInternalServerError, entity.APIResponse{Success: false, Message: "Invalid user ID"})
		return "", "", false
	}

	if name, exists := c.Get("username"); exists {
		username, _ = name.(string)
	}

	return userID, username, true
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Field() {
			case "ReviewText":
				return "Review must be between 10 and 1000 characters"
			case "Rating":
				return "Rating must be between 1 and 5"
			}
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
