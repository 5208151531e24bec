package idempotency

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

// IStore records which gateway transactions have already been processed so
// that re-delivered webhook notifications do not trigger downstream effects
// twice. The gateway delivers at-least-once and in arbitrary order.
type IStore interface {
	MarkProcessed(ctx context.Context, transactionID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, transactionID string) (bool, error)
}

type redisStore struct {
	client *redis.Client
}

func New() IStore {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisStore{client: client}
}

func NewWithClient(client *redis.Client) IStore {
	return &redisStore{client: client}
}

func key(transactionID string) string {
	return "donation:webhook:processed:" + transactionID
}

// MarkProcessed returns true when this is the first time the transaction is
// seen. SETNX makes the check-and-set atomic under concurrent deliveries.
func (r *redisStore) MarkProcessed(ctx context.Context, transactionID string, ttl time.Duration) (bool, error) {
	first, err := r.client.SetNX(ctx, key(transactionID), "1", ttl).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error marking transaction %s as processed: %v", transactionID, err))
		return false, err
	}
	return first, nil
}

func (r *redisStore) IsProcessed(ctx context.Context, transactionID string) (bool, error) {
	count, err := r.client.Exists(ctx, key(transactionID)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error checking transaction %s: %v", transactionID, err))
		return false, err
	}
	return count > 0, nil
}
