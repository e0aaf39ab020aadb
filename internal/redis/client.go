package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"time"

	"ecommerce_api/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent; callers fall through to
// the database.
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func Initialize(redisURL string, ttl time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

const (
	productListKey      = "products:all"
	productCategoryKeyF = "products:category:%d"
)

// Product catalog caching

func (c *Client) GetProductList(key string) ([]models.Product, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached products: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached products: %w", err)
	}
	return products, nil
}

func (c *Client) SetProductList(key string, products []models.Product) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}
	return c.rdb.Set(ctx, key, jsonData, c.ttl).Err()
}

func (c *Client) ProductListKey() string {
	return productListKey
}

func (c *Client) CategoryProductsKey(categoryID uint) string {
	return fmt.Sprintf(productCategoryKeyF, categoryID)
}

// InvalidateProducts drops the full product list and the given category's
// list after a catalog write.
func (c *Client) InvalidateProducts(categoryIDs ...uint) error {
	ctx := context.Background()
	keys := []string{productListKey}
	for _, id := range categoryIDs {
		keys = append(keys, c.CategoryProductsKey(id))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
