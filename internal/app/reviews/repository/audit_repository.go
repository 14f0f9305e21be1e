package repository

import (
	"context"
	"fmt"
	"time"

	"reviewdesk/internal/app/reviews/entity"
	"reviewdesk/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository создает репозиторий журнала модерации
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Create записывает решение модератора в журнал
func (r *auditRepository) Create(ctx context.Context, record *entity.ModerationAudit) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	timer := metrics.NewDbTimer("reviewdesk", metrics.DbOpInsert, "moderation_audit")
	defer timer.ObserveDuration()

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		metrics.RecordDbError("reviewdesk", metrics.DbOpInsert)
		return fmt.Errorf("failed to create audit record: %w", err)
	}

	return nil
}

// GetByReviewID возвращает историю решений по отзыву, новые первыми
func (r *auditRepository) GetByReviewID(ctx context.Context, reviewID string) ([]entity.ModerationAudit, error) {
	timer := metrics.NewDbTimer("reviewdesk", metrics.DbOpSelect, "moderation_audit")
	defer timer.ObserveDuration()

	var records []entity.ModerationAudit
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		metrics.RecordDbError("reviewdesk", metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get audit records: %w", err)
	}

	return records, nil
}
