package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStream(t *testing.T) (*RedisStream, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	rs := NewRedisStream(client, StreamConfig{
		Stream:   "fileQueue",
		Group:    "thumbnails",
		Consumer: "test",
		Block:    50 * time.Millisecond,
	}, log.NewDiscardLogger())
	return rs, mr
}

func TestRedisStreamPublishConsume(t *testing.T) {
	rs, _ := newTestStream(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, rs.EnsureGroup(ctx))
	require.NoError(t, rs.Publish(ctx, Job{UserID: 3, FileID: 7}))
	require.NoError(t, rs.Publish(ctx, Job{UserID: 3, FileID: 8}))

	var (
		mutex sync.Mutex
		got   []Job
	)
	errc := make(chan error, 1)
	go func() {
		errc <- rs.Consume(ctx, func(_ context.Context, job Job) error {
			mutex.Lock()
			defer mutex.Unlock()
			got = append(got, job)
			if len(got) == 2 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}

	assert.Equal(t, []Job{{UserID: 3, FileID: 7}, {UserID: 3, FileID: 8}}, got)

	pending, err := rs.Pending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func consumeUntil(t *testing.T, rs *RedisStream, ctx context.Context, handler Handler) {
	t.Helper()

	errc := make(chan error, 1)
	go func() {
		errc <- rs.Consume(ctx, handler)
	}()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestRedisStreamAcksFailedJobs(t *testing.T) {
	rs, _ := newTestStream(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, rs.EnsureGroup(ctx))
	require.NoError(t, rs.Publish(ctx, Job{UserID: 1, FileID: 1}))
	require.NoError(t, rs.Publish(ctx, Job{UserID: 1, FileID: 2}))

	consumeUntil(t, rs, ctx, func(_ context.Context, job Job) error {
		if job.FileID == 1 {
			return errors.New("File not found")
		}
		cancel()
		return nil
	})

	pending, err := rs.Pending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestRedisStreamShutdownLeavesJobsPending(t *testing.T) {
	rs, _ := newTestStream(t)
	rs.cfg.ClaimIdle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, rs.EnsureGroup(ctx))
	require.NoError(t, rs.Publish(ctx, Job{UserID: 4, FileID: 1}))
	require.NoError(t, rs.Publish(ctx, Job{UserID: 4, FileID: 2}))
	require.NoError(t, rs.Publish(ctx, Job{UserID: 4, FileID: 3}))

	var handled []uint
	consumeUntil(t, rs, ctx, func(ctx context.Context, job Job) error {
		handled = append(handled, job.FileID)
		switch job.FileID {
		case 1:
			return nil
		case 2:
			// Shutdown arrives while the job runs.
			cancel()
			return ctx.Err()
		}
		return nil
	})
	assert.Equal(t, []uint{1, 2}, handled)

	pending, err := rs.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending, "interrupted and unstarted jobs stay pending")

	time.Sleep(50 * time.Millisecond)

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	var resumed []uint
	consumeUntil(t, rs, ctx, func(_ context.Context, job Job) error {
		resumed = append(resumed, job.FileID)
		if len(resumed) == 2 {
			cancel()
		}
		return nil
	})
	assert.Equal(t, []uint{2, 3}, resumed)

	pending, err = rs.Pending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestRedisStreamStopsBetweenJobs(t *testing.T) {
	rs, _ := newTestStream(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, rs.EnsureGroup(ctx))
	require.NoError(t, rs.Publish(ctx, Job{UserID: 5, FileID: 1}))
	require.NoError(t, rs.Publish(ctx, Job{UserID: 5, FileID: 2}))

	calls := 0
	consumeUntil(t, rs, ctx, func(context.Context, Job) error {
		calls++
		cancel()
		return nil
	})
	assert.Equal(t, 1, calls)

	pending, err := rs.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestEnsureGroupIsIdempotent(t *testing.T) {
	rs, _ := newTestStream(t)
	require.NoError(t, rs.EnsureGroup(context.Background()))
	require.NoError(t, rs.EnsureGroup(context.Background()))
}

func TestJobFromValues(t *testing.T) {
	assert.Equal(t, Job{UserID: 2, FileID: 5}, jobFromValues(map[string]any{"userId": "2", "fileId": "5"}))
	assert.Equal(t, Job{UserID: 2}, jobFromValues(map[string]any{"userId": "2", "fileId": "x"}))
	assert.Equal(t, Job{}, jobFromValues(map[string]any{}))
}
