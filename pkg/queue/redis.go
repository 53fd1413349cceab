package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/redis/go-redis/v9"
)

// StreamConfig names the redis stream and consumer group used as transport.
type StreamConfig struct {
	Stream   string
	Group    string
	Consumer string
	Block    time.Duration
	Batch    int64
	// ClaimIdle is how long a delivered job may stay unacknowledged before
	// another consumer takes it over.
	ClaimIdle time.Duration
}

// RedisStream publishes jobs with XADD and consumes them through a consumer
// group so several workers can share the load.
type RedisStream struct {
	client *redis.Client
	cfg    StreamConfig
	logger log.LoggerService
}

func NewRedisStream(client *redis.Client, cfg StreamConfig, logger log.LoggerService) *RedisStream {
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 10
	}
	if cfg.ClaimIdle <= 0 {
		cfg.ClaimIdle = time.Minute
	}
	return &RedisStream{client: client, cfg: cfg, logger: logger}
}

func (rs *RedisStream) Publish(ctx context.Context, job Job) error {
	err := rs.client.XAdd(ctx, &redis.XAddArgs{
		Stream: rs.cfg.Stream,
		Values: job.values(),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to add job to stream %s: %w", rs.cfg.Stream, err)
	}
	return nil
}

// EnsureGroup creates the stream and consumer group if they are missing.
func (rs *RedisStream) EnsureGroup(ctx context.Context) error {
	err := rs.client.XGroupCreateMkStream(ctx, rs.cfg.Stream, rs.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", rs.cfg.Group, err)
	}
	return nil
}

// Consume delivers jobs to handler until ctx is cancelled. It first takes
// over jobs left unacknowledged for longer than ClaimIdle, then reads new
// ones. A job is acknowledged once its handler returns, failures included,
// unless ctx was cancelled before or while it ran: such jobs stay pending for
// the next consumer.
func (rs *RedisStream) Consume(ctx context.Context, handler Handler) error {
	if err := rs.EnsureGroup(ctx); err != nil {
		return err
	}

	if err := rs.reclaim(ctx, handler); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	for ctx.Err() == nil {
		streams, err := rs.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    rs.cfg.Group,
			Consumer: rs.cfg.Consumer,
			Streams:  []string{rs.cfg.Stream, ">"},
			Count:    rs.cfg.Batch,
			Block:    rs.cfg.Block,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read from stream %s: %w", rs.cfg.Stream, err)
		}

		for _, stream := range streams {
			if !rs.deliver(ctx, handler, stream.Messages) {
				return nil
			}
		}
	}

	return nil
}

// reclaim claims stale pending jobs, this consumer's own included, and runs
// them before any new job.
func (rs *RedisStream) reclaim(ctx context.Context, handler Handler) error {
	start := "0-0"
	for {
		msgs, next, err := rs.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   rs.cfg.Stream,
			Group:    rs.cfg.Group,
			Consumer: rs.cfg.Consumer,
			MinIdle:  rs.cfg.ClaimIdle,
			Start:    start,
			Count:    rs.cfg.Batch,
		}).Result()
		if err != nil {
			return fmt.Errorf("failed to claim pending jobs on %s: %w", rs.cfg.Stream, err)
		}

		if len(msgs) > 0 {
			rs.logger.Info("Claimed %d pending jobs", len(msgs))
		}
		if !rs.deliver(ctx, handler, msgs) {
			return ctx.Err()
		}
		if next == "" || next == "0-0" {
			return nil
		}
		start = next
	}
}

// deliver runs handler for each message and acknowledges it. It returns false
// once ctx is cancelled, leaving the remaining messages pending.
func (rs *RedisStream) deliver(ctx context.Context, handler Handler, msgs []redis.XMessage) bool {
	ackCtx := context.WithoutCancel(ctx)
	for _, msg := range msgs {
		if ctx.Err() != nil {
			return false
		}

		job := jobFromValues(msg.Values)
		if err := handler(ctx, job); err != nil {
			if ctx.Err() != nil {
				rs.logger.Debug("Job %s interrupted by shutdown, leaving it pending", msg.ID)
				return false
			}
			rs.logger.Warn("Job %s for file %d failed: %v", msg.ID, job.FileID, err)
		}

		if err := rs.client.XAck(ackCtx, rs.cfg.Stream, rs.cfg.Group, msg.ID).Err(); err != nil {
			rs.logger.Error("Failed to ack job %s: %v", msg.ID, err)
		}
	}
	return true
}

// Pending reports how many delivered jobs are still unacknowledged.
func (rs *RedisStream) Pending(ctx context.Context) (int64, error) {
	res, err := rs.client.XPending(ctx, rs.cfg.Stream, rs.cfg.Group).Result()
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}
