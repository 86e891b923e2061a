package xredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client only exposes the lock primitives. Ledger state is never cached in
// redis; every balance and bid read goes to the database.
type Client interface {
	// TryLock sets key to owner if the key does not exist yet.
	TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)

	// Unlock deletes key only if it is still held by owner.
	Unlock(ctx context.Context, key, owner string) error
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context, addr string) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return c.redisClient.SetNX(ctx, key, owner, ttl).Result()
}

func (c *client) Unlock(ctx context.Context, key, owner string) error {
	err := unlockScript.Run(ctx, c.redisClient, []string{key}, owner).Err()
	if err == nil || err == redis.Nil {
		return nil
	}

	return err
}
