package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ только если он всё ещё принадлежит нашему токену
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Client подмножество команд Redis, нужное блокировке
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// ReleaseFunc освобождает захваченную блокировку
type ReleaseFunc func(ctx context.Context) error

// RedisLocker распределённая блокировка на одном ключе Redis (SET NX PX)
// Используется, чтобы sweep выполняла только одна реплика сервиса
type RedisLocker struct {
	client Client
	key    string
}

// NewRedisLocker создает блокировку на ключе key
func NewRedisLocker(client Client, key string) *RedisLocker {
	return &RedisLocker{client: client, key: key}
}

// TryLock пытается захватить блокировку на ttl
// Если блокировку держит другой процесс, возвращает acquired = false без ошибки
func (l *RedisLocker) TryLock(ctx context.Context, ttl time.Duration) (ReleaseFunc, bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: key %s: %v", ErrAcquire, l.key, err)
	}
	if !acquired {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("%w: key %s: %v", ErrRelease, l.key, err)
		}
		return nil
	}

	return release, true, nil
}
