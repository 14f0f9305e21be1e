package service

import (
	"context"
	"errors"
	"testing"

	"reviewdesk/internal/app/reviews/entity"
	"reviewdesk/internal/app/reviews/repository"
	"reviewdesk/internal/app/reviews/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newModerationServiceForTest() (*ModerationService, *mocks.MockReviewRepository, *mocks.MockAuditRepository, *mocks.MockReviewCache, *mocks.MockMessagePublisher) {
	reviewRepo := new(mocks.MockReviewRepository)
	auditRepo := new(mocks.MockAuditRepository)
	reviewCache := new(mocks.MockReviewCache)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	return NewModerationService(reviewRepo, auditRepo, reviewCache, kafkaProducer), reviewRepo, auditRepo, reviewCache, kafkaProducer
}

func TestListReviews_NoFilter(t *testing.T) {
	service, reviewRepo, _, _, _ := newModerationServiceForTest()

	ctx := context.Background()
	reviews := []entity.Review{
		{ID: primitive.NewObjectID(), Status: entity.StatusPending},
		{ID: primitive.NewObjectID(), Status: entity.StatusApproved},
	}

	reviewRepo.On("GetAll", ctx, entity.ReviewStatus("")).Return(reviews, nil)

	result, err := service.ListReviews(ctx, "")

	assert.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestListReviews_StatusFilterCaseInsensitive(t *testing.T) {
	service, reviewRepo, _, _, _ := newModerationServiceForTest()

	ctx := context.Background()
	reviews := []entity.Review{{ID: primitive.NewObjectID(), Status: entity.StatusPending}}

	reviewRepo.On("GetAll", ctx, entity.StatusPending).Return(reviews, nil)

	result, err := service.ListReviews(ctx, "pending")

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	reviewRepo.AssertCalled(t, "GetAll", ctx, entity.StatusPending)
}

func TestListReviews_InvalidFilterIgnored(t *testing.T) {
	// Неизвестное значение статуса: не ошибка, фильтр не применяется
	service, reviewRepo, _, _, _ := newModerationServiceForTest()

	ctx := context.Background()
	reviewRepo.On("GetAll", ctx, entity.ReviewStatus("")).Return([]entity.Review{}, nil)

	result, err := service.ListReviews(ctx, "SHADOWBANNED")

	assert.NoError(t, err)
	assert.Empty(t, result)
	reviewRepo.AssertCalled(t, "GetAll", ctx, entity.ReviewStatus(""))
}

func TestApproveReview_Success(t *testing.T) {
	service, reviewRepo, auditRepo, reviewCache, kafkaProducer := newModerationServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	approved := &entity.Review{ID: reviewID, UserID: "user-123", ItemID: "book-1", Status: entity.StatusApproved}

	reviewRepo.On("UpdateStatus", ctx, reviewID.Hex(), entity.StatusApproved).Return(approved, nil)
	auditRepo.On("Create", ctx, mock.AnythingOfType("*entity.ModerationAudit")).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, reviewID.Hex(), mock.Anything).Return(nil)
	reviewCache.On("InvalidateItem", ctx, "book-1").Return(nil)

	result, err := service.ApproveReview(ctx, reviewID.Hex(), "moderator-1")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, result.Status)

	auditRepo.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(record *entity.ModerationAudit) bool {
		return record.ReviewID == reviewID.Hex() &&
			record.ModeratorID == "moderator-1" &&
			record.Action == entity.StatusApproved
	}))
	reviewCache.AssertCalled(t, "InvalidateItem", ctx, "book-1")
	assert.Len(t, kafkaProducer.Messages, 1)
}

func TestApproveReview_NotFound(t *testing.T) {
	service, reviewRepo, auditRepo, _, _ := newModerationServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID().Hex()

	reviewRepo.On("UpdateStatus", ctx, reviewID, entity.StatusApproved).Return(nil, repository.ErrReviewNotFound)

	result, err := service.ApproveReview(ctx, reviewID, "moderator-1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRejectReview_Success(t *testing.T) {
	service, reviewRepo, auditRepo, reviewCache, kafkaProducer := newModerationServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	rejected := &entity.Review{ID: reviewID, UserID: "user-123", ItemID: "book-1", Status: entity.StatusRejected}

	reviewRepo.On("UpdateStatus", ctx, reviewID.Hex(), entity.StatusRejected).Return(rejected, nil)
	auditRepo.On("Create", ctx, mock.Anything).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, reviewID.Hex(), mock.Anything).Return(nil)
	reviewCache.On("InvalidateItem", ctx, "book-1").Return(nil)

	result, err := service.RejectReview(ctx, reviewID.Hex(), "moderator-1")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, result.Status)
}

func TestApproveThenReject_NoTerminalState(t *testing.T) {
	// Решение модератора можно менять: APPROVED -> REJECTED допустим
	service, reviewRepo, auditRepo, reviewCache, kafkaProducer := newModerationServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	approved := &entity.Review{ID: reviewID, ItemID: "book-1", Status: entity.StatusApproved}
	rejected := &entity.Review{ID: reviewID, ItemID: "book-1", Status: entity.StatusRejected}

	reviewRepo.On("UpdateStatus", ctx, reviewID.Hex(), entity.StatusApproved).Return(approved, nil)
	reviewRepo.On("UpdateStatus", ctx, reviewID.Hex(), entity.StatusRejected).Return(rejected, nil)
	auditRepo.On("Create", ctx, mock.Anything).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, reviewID.Hex(), mock.Anything).Return(nil)
	reviewCache.On("InvalidateItem", ctx, "book-1").Return(nil)

	first, err := service.ApproveReview(ctx, reviewID.Hex(), "moderator-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, first.Status)

	second, err := service.RejectReview(ctx, reviewID.Hex(), "moderator-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, second.Status)
}

func TestModeration_AuditErrorIgnored(t *testing.T) {
	// Смена статуса в MongoDB авторитетна, сбой журнала не валит запрос
	service, reviewRepo, auditRepo, reviewCache, kafkaProducer := newModerationServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	approved := &entity.Review{ID: reviewID, ItemID: "book-1", Status: entity.StatusApproved}

	reviewRepo.On("UpdateStatus", ctx, reviewID.Hex(), entity.StatusApproved).Return(approved, nil)
	auditRepo.On("Create", ctx, mock.Anything).Return(errors.New("postgres down"))
	kafkaProducer.On("PublishMessage", ctx, reviewID.Hex(), mock.Anything).Return(nil)
	reviewCache.On("InvalidateItem", ctx, "book-1").Return(nil)

	result, err := service.ApproveReview(ctx, reviewID.Hex(), "moderator-1")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, result.Status)
}

func TestGetReviewHistory_Success(t *testing.T) {
	service, reviewRepo, auditRepo, _, _ := newModerationServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	review := &entity.Review{ID: reviewID, Status: entity.StatusApproved}
	history := []entity.ModerationAudit{
		{ID: "audit-2", ReviewID: reviewID.Hex(), Action: entity.StatusRejected},
		{ID: "audit-1", ReviewID: reviewID.Hex(), Action: entity.StatusApproved},
	}

	reviewRepo.On("GetByID", ctx, reviewID.Hex()).Return(review, nil)
	auditRepo.On("GetByReviewID", ctx, reviewID.Hex()).Return(history, nil)

	result, err := service.GetReviewHistory(ctx, reviewID.Hex())

	assert.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestGetReviewHistory_NotFound(t *testing.T) {
	service, reviewRepo, auditRepo, _, _ := newModerationServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID().Hex()

	reviewRepo.On("GetByID", ctx, reviewID).Return(nil, repository.ErrReviewNotFound)

	result, err := service.GetReviewHistory(ctx, reviewID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	auditRepo.AssertNotCalled(t, "GetByReviewID", mock.Anything, mock.Anything)
}
