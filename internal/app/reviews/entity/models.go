package entity

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewStatus статус модерации отзыва
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "PENDING"
	StatusApproved ReviewStatus = "APPROVED"
	StatusRejected ReviewStatus = "REJECTED"
)

// ParseStatus нормализует статус из пользовательского ввода (регистронезависимо)
// Возвращает false для неизвестных значений: фильтр в этом случае игнорируется
func ParseStatus(s string) (ReviewStatus, bool) {
	switch ReviewStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

type Review struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID   string             `json:"userId" bson:"user_id"`     // UUID пользователя из Auth Service
	Username string             `json:"username" bson:"username"`  // Имя автора, фиксируется при создании из JWT claims
	ItemID   string             `json:"itemId" bson:"item_id"`     // Идентификатор товара (свободный текст)
	ItemName string             `json:"itemName" bson:"item_name"` // Отображаемое имя товара
	// Текст отзыва, 10..1000 символов после trim
	ReviewText string `json:"reviewText" bson:"review_text"`
	// Оценка 1..5, nil = оценка не выставлена
	Rating    *int         `json:"rating,omitempty" bson:"rating,omitempty"`
	Status    ReviewStatus `json:"status" bson:"status"`
	CreatedAt time.Time    `json:"createdAt" bson:"created_at"`
}

// ModerationAudit запись аудита решения модератора (PostgreSQL)
type ModerationAudit struct {
	ID          string       `json:"id" gorm:"type:uuid;primaryKey"`
	ReviewID    string       `json:"reviewId" gorm:"index;not null"`
	ModeratorID string       `json:"moderatorId" gorm:"not null"`
	Action      ReviewStatus `json:"action" gorm:"not null"` // APPROVED или REJECTED
	CreatedAt   time.Time    `json:"createdAt"`
}

func (ModerationAudit) TableName() string {
	return "moderation_audit"
}

// ReviewEvent событие жизненного цикла отзыва для Kafka
// EventType: REVIEW_CREATED, REVIEW_APPROVED, REVIEW_REJECTED
type ReviewEvent struct {
	EventType string       `json:"event_type"`
	ReviewID  string       `json:"review_id"`
	UserID    string       `json:"user_id"`
	ItemID    string       `json:"item_id"`
	Rating    *int         `json:"rating,omitempty"`
	Status    ReviewStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
}
