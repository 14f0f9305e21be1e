package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewdesk/internal/app/reviews/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview нарушение инварианта "один отзыв на пару (user, item)"
	// Возвращается и предварительной проверкой в сервисе, и при нарушении
	// уникального индекса: обе ветки дают одинаковый ответ пользователю
	ErrDuplicateReview = errors.New("duplicate review for user and item")
)

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает новый репозиторий отзывов
// Уникальный составной индекс (user_id, item_id): единственный механизм,
// закрывающий гонку двух одновременных create; без него репозиторий не создается
func NewReviewRepository(db *mongo.Database) (ReviewRepository, error) {
	collection := db.Collection("reviews")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uniqueIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "item_id", Value: 1},
		},
		Options: options.Index().SetName("user_item_unique_idx").SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, uniqueIndex); err != nil {
		return nil, fmt.Errorf("failed to create unique index on (user_id, item_id): %w", err)
	}

	// Вспомогательные индексы для выборок; их отсутствие не ломает корректность
	secondaryIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("status_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "item_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("item_status_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, secondaryIndexes); err != nil {
		fmt.Printf("Warning: failed to create secondary indexes: %v\n", err)
	}

	return &reviewRepository{
		collection: collection,
	}, nil
}

// Create сохраняет новый отзыв со статусом PENDING
// Нарушение уникального индекса транслируется в ErrDuplicateReview
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	review.Status = entity.StatusPending
	review.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// GetByID получает отзыв по ID
func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	var review entity.Review
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

// GetByUserAndItem ищет существующий отзыв пары (user, item)
// Используется сервисом как предварительная проверка дубликата
func (r *reviewRepository) GetByUserAndItem(ctx context.Context, userID, itemID string) (*entity.Review, error) {
	filter := bson.M{"user_id": userID, "item_id": itemID}

	var review entity.Review
	err := r.collection.FindOne(ctx, filter).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review by user and item: %w", err)
	}

	return &review, nil
}

// GetByUserID получает все отзывы пользователя, новые первыми
func (r *reviewRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Review, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// GetByItemID получает отзывы по товару, опционально отфильтрованные по статусу
func (r *reviewRepository) GetByItemID(ctx context.Context, itemID string, status entity.ReviewStatus) ([]entity.Review, error) {
	filter := bson.M{"item_id": itemID}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter)
}

// GetAll получает все отзывы, новые первыми
// Пустой status означает отсутствие фильтра
func (r *reviewRepository) GetAll(ctx context.Context, status entity.ReviewStatus) ([]entity.Review, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter)
}

// UpdateStatus перезаписывает статус отзыва и возвращает обновленный документ
// Повторная установка того же статуса допустима (идемпотентный no-op)
func (r *reviewRepository) UpdateStatus(ctx context.Context, id string, status entity.ReviewStatus) (*entity.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{"$set": bson.M{"status": status}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review entity.Review
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review status: %w", err)
	}

	return &review, nil
}

// CountByStatus считает отзывы в заданном статусе
// Используется фоновым монитором очереди модерации
func (r *reviewRepository) CountByStatus(ctx context.Context, status entity.ReviewStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

func (r *reviewRepository) find(ctx context.Context, filter bson.M) ([]entity.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}
