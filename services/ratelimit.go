package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"chirp/config"

	"github.com/go-redis/redis/v8"
)

const RATE_LIMIT_KEY_PREFIX = "ratelimit:" // Префикс для ключей лимитера в Redis

// Скрипт скользящего окна: выбрасываем устаревшие записи, считаем остаток
// и резервируем слот одним атомарным шагом. Отказ не занимает слот.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return 1
end
return 0
`)

// RateLimiter - адаптер распределенного лимитера. Все состояние живет
// в Redis, поэтому лимит соблюдается и при нескольких инстансах сервера.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	limit := 3
	window := 60 * time.Second
	if config.AppConfig != nil {
		limit = config.AppConfig.RateLimit.Limit
		window = time.Duration(config.AppConfig.RateLimit.WindowSeconds) * time.Second
	}
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Check возвращает true, если вызов разрешен. Разрешенный вызов расходует
// один слот окна, отклоненный - нет.
func (rl *RateLimiter) Check(ctx context.Context, subjectKey string) (bool, error) {
	if rl.client == nil {
		return false, fmt.Errorf("redis not available")
	}

	key := RATE_LIMIT_KEY_PREFIX + subjectKey
	now := time.Now().UnixMilli()
	member := fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63())

	res, err := slidingWindowScript.Run(ctx, rl.client,
		[]string{key}, now, rl.window.Milliseconds(), rl.limit, member).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return res == 1, nil
}
