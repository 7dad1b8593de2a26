package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const popTimeout = 5 * time.Second

// RedisQueue is a reliable-queue implementation on Redis lists: pending
// jobs are pushed onto the queue list, a consumer atomically moves a job
// onto a processing list, and acknowledges by removing it there. A job
// left on the processing list by a crashed consumer is moved back to
// pending on the next start, which gives at-least-once delivery. A job
// whose handler returns an error goes to a dead-letter list instead of
// being retried (single attempt, matching the broker defaults the
// original system ran with).
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, name string, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, pendingKey(name), raw).Err()
}

func (q *RedisQueue) Consume(ctx context.Context, name string, handler Handler) error {
	if err := q.requeueOrphans(ctx, name); err != nil {
		return err
	}

	slog.Info("queue consumer started", "queue", name)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw, err := q.client.BRPopLPush(ctx, pendingKey(name), processingKey(name), popTimeout).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("queue pop failed", "queue", name, "error", err)
			time.Sleep(time.Second)
			continue
		}

		q.process(ctx, name, raw, handler)
	}
}

func (q *RedisQueue) process(ctx context.Context, name, raw string, handler Handler) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		slog.Error("queue job malformed", "queue", name, "error", err)
		q.reject(ctx, name, raw)
		return
	}

	if err := handler(ctx, job); err != nil {
		slog.Error("queue job failed", "queue", name, "kind", job.Kind, "error", err)
		q.reject(ctx, name, raw)
		return
	}

	// Ack: the attempt finished, drop the in-flight copy.
	q.client.LRem(ctx, processingKey(name), 1, raw)
}

// reject moves the in-flight copy to the dead-letter list so a failed
// job is never silently dropped.
func (q *RedisQueue) reject(ctx context.Context, name, raw string) {
	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, failedKey(name), raw)
	pipe.LRem(ctx, processingKey(name), 1, raw)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("queue dead-letter failed", "queue", name, "error", err)
	}
}

// requeueOrphans moves jobs a previous consumer left in-flight back to
// the pending list so they are redelivered.
func (q *RedisQueue) requeueOrphans(ctx context.Context, name string) error {
	for {
		raw, err := q.client.RPopLPush(ctx, processingKey(name), pendingKey(name)).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		slog.Warn("requeued in-flight job from previous run", "queue", name, "job", raw)
	}
}

func pendingKey(name string) string    { return "queue:" + name }
func processingKey(name string) string { return "queue:" + name + ":processing" }
func failedKey(name string) string     { return "queue:" + name + ":failed" }
