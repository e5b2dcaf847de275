package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient хранит ключи в памяти и повторяет семантику SETNX и скрипта освобождения
type fakeClient struct {
	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	setErr  error
	evalErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.evalErr != nil {
		return redis.NewCmdResult(nil, f.evalErr)
	}
	if f.values[keys[0]] == args[0].(string) {
		delete(f.values, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	client := newFakeClient()
	locker := NewRedisLocker(client, "desk-booking:sweeper")
	ctx := context.Background()

	release, acquired, err := locker.TryLock(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
	assert.Equal(t, time.Minute, client.ttls["desk-booking:sweeper"])

	_, acquired, err = locker.TryLock(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired, "second holder must not acquire")

	require.NoError(t, release(ctx))

	_, acquired, err = locker.TryLock(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	client := newFakeClient()
	locker := NewRedisLocker(client, "k")
	ctx := context.Background()

	release, acquired, err := locker.TryLock(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	// ключ истёк и его захватил другой процесс
	client.values["k"] = "someone-else"

	require.NoError(t, release(ctx))
	assert.Equal(t, "someone-else", client.values["k"])
}

func TestRedisLocker_Errors(t *testing.T) {
	client := newFakeClient()
	locker := NewRedisLocker(client, "k")
	ctx := context.Background()

	client.setErr = errors.New("connection refused")
	_, _, err := locker.TryLock(ctx, time.Second)
	assert.ErrorIs(t, err, ErrAcquire)

	client.setErr = nil
	release, _, err := locker.TryLock(ctx, time.Second)
	require.NoError(t, err)

	client.evalErr = errors.New("connection reset")
	assert.ErrorIs(t, release(ctx), ErrRelease)
}
