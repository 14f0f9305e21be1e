package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reviewdesk/pkg/logger"
	"reviewdesk/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(reviewHandler *ReviewHandler, moderationHandler *ModerationHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("reviewdesk"))

	// CORS для браузерного фронтенда
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "reviewdesk",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reviews := router.Group("/api/reviews")
	{
		// Публичный список одобренных отзывов по товару
		reviews.GET("/item/:item_id", reviewHandler.GetItemReviews)

		authenticated := reviews.Group("")
		authenticated.Use(authMiddleware.Authenticate())
		{
			// Операции автора отзывов
			authenticated.POST("", authMiddleware.RequireRole(RoleUser), reviewHandler.CreateReview)
			authenticated.GET("/my", authMiddleware.RequireRole(RoleUser), reviewHandler.GetMyReviews)

			// Операции модератора
			moderator := authenticated.Group("")
			moderator.Use(authMiddleware.RequireRole(RoleModerator))
			{
				moderator.GET("", moderationHandler.ListReviews)
				moderator.PUT("/:id/approve", moderationHandler.ApproveReview)
				moderator.PUT("/:id/reject", moderationHandler.RejectReview)
				moderator.GET("/:id/history", moderationHandler.GetReviewHistory)
			}
		}
	}

	return router
}
