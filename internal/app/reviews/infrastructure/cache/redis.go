package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reviewdesk/internal/app/reviews/entity"
	"reviewdesk/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const itemReviewsKeyPrefix = "item_reviews:"

// RedisCache кеширует списки одобренных отзывов по товару
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// NewRedisCacheWithClient используется в тестах с miniredis
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// GetItemReviews возвращает закешированный список или nil при промахе
func (r *RedisCache) GetItemReviews(ctx context.Context, itemID string) ([]entity.Review, error) {
	timer := metrics.NewRedisTimer("reviewdesk", metrics.RedisOpGet)
	data, err := r.client.Get(ctx, itemReviewsKeyPrefix+itemID).Bytes()
	timer.ObserveDuration()

	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("reviewdesk", itemReviewsKeyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError("reviewdesk", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get item reviews from cache: %w", err)
	}

	var reviews []entity.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached reviews: %w", err)
	}

	metrics.RecordCacheHit("reviewdesk", itemReviewsKeyPrefix)
	return reviews, nil
}

func (r *RedisCache) SetItemReviews(ctx context.Context, itemID string, reviews []entity.Review) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("failed to marshal reviews: %w", err)
	}

	timer := metrics.NewRedisTimer("reviewdesk", metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, itemReviewsKeyPrefix+itemID, data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError("reviewdesk", metrics.RedisOpSet)
		return fmt.Errorf("failed to set item reviews in cache: %w", err)
	}

	return nil
}

// InvalidateItem сбрасывает кеш товара после решения модератора
func (r *RedisCache) InvalidateItem(ctx context.Context, itemID string) error {
	timer := metrics.NewRedisTimer("reviewdesk", metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, itemReviewsKeyPrefix+itemID).Err(); err != nil {
		metrics.RecordRedisError("reviewdesk", metrics.RedisOpDel)
		return fmt.Errorf("failed to invalidate item reviews cache: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
