package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reviewdesk/internal/app/reviews/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, userID, username string, req *entity.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, userID, username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) GetMyReviews(ctx context.Context, userID string) ([]entity.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewService) GetItemReviews(ctx context.Context, itemID string) ([]entity.Review, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) ListReviews(ctx context.Context, statusFilter string) ([]entity.Review, error) {
	args := m.Called(ctx, statusFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockModerationService) ApproveReview(ctx context.Context, reviewID, moderatorID string) (*entity.Review, error) {
	args := m.Called(ctx, reviewID, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockModerationService) RejectReview(ctx context.Context, reviewID, moderatorID string) (*entity.Review, error) {
	args := m.Called(ctx, reviewID, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockModerationService) GetReviewHistory(ctx context.Context, reviewID string) ([]entity.ModerationAudit, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ModerationAudit), args.Error(1)
}

// setupRouter поднимает полный роутер с реальным auth middleware
func setupRouter(reviewService ReviewServiceInterface, moderationService ModerationServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRoutes(
		NewReviewHandler(reviewService),
		NewModerationHandler(moderationService),
		NewAuthMiddleware(testJWTSecret),
	)
}

// makeToken выпускает тестовый JWT так, как это делает внешний Auth Service
func makeToken(t *testing.T, userID, username, role string) string {
	t.Helper()

	claims := &JWTClaims{
		UserID:   userID,
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) entity.APIResponse {
	t.Helper()

	var resp entity.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
