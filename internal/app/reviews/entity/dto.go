package entity

// CreateReviewRequest - запрос на создание отзыва
// Текстовые поля проходят TrimSpace до валидации
type CreateReviewRequest struct {
	ItemID     string `json:"itemId" validate:"required"`
	ItemName   string `json:"itemName" validate:"required"`
	ReviewText string `json:"reviewText" validate:"required,min=10,max=1000"`
	Rating     *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// APIResponse - единый конверт всех ответов API
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ReviewData - тело успешного ответа с одним отзывом
type ReviewData struct {
	Review *Review `json:"review"`
}

// ReviewListData - тело успешного ответа со списком отзывов
type ReviewListData struct {
	Count   int      `json:"count"`
	Reviews []Review `json:"reviews"`
}

// AuditListData - тело ответа с историей модерации отзыва
type AuditListData struct {
	Count   int               `json:"count"`
	History []ModerationAudit `json:"history"`
}
