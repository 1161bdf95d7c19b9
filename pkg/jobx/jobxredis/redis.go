package jobxredis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rohit9625/natively-backend/pkg/jobx"
)

const jobKeyPrefix = "jobx:job:"

// RedisQueue implements jobx.Queue backed by Redis.
//
// A job lives in a hash. Its id moves between the ready list, a claimed list
// (popped but not yet leased), the leased sorted set scored by lease deadline
// and the scheduled sorted set scored by due time. Dead-lettered jobs are
// copied as JSON onto a capped list.
type RedisQueue struct {
	rdb          *redis.Client
	leaseTimeout time.Duration
	deadMaxLen   int64
	now          func() time.Time

	mu      sync.Mutex
	claimed map[string][]string
}

// Option configures a RedisQueue.
type Option func(*RedisQueue)

// WithLeaseTimeout sets how long a dequeued job stays exclusive to its worker.
func WithLeaseTimeout(d time.Duration) Option {
	return func(q *RedisQueue) {
		if d > 0 {
			q.leaseTimeout = d
		}
	}
}

// WithDeadLetterMaxLen caps the dead-letter list of every queue.
func WithDeadLetterMaxLen(n int) Option {
	return func(q *RedisQueue) {
		if n > 0 {
			q.deadMaxLen = int64(n)
		}
	}
}

// WithClock overrides the time source used for leases and schedules.
func WithClock(now func() time.Time) Option {
	return func(q *RedisQueue) {
		q.now = now
	}
}

// NewRedisQueue creates a new Redis-backed queue.
func NewRedisQueue(rdb *redis.Client, opts ...Option) *RedisQueue {
	q := &RedisQueue{
		rdb:          rdb,
		leaseTimeout: 2 * time.Minute,
		deadMaxLen:   1000,
		now:          time.Now,
		claimed:      make(map[string][]string),
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Key helpers
func queueKey(name string) string     { return fmt.Sprintf("jobx:queue:%s", name) }
func claimedKey(name string) string   { return fmt.Sprintf("jobx:claimed:%s", name) }
func leasedKey(name string) string    { return fmt.Sprintf("jobx:leased:%s", name) }
func scheduledKey(name string) string { return fmt.Sprintf("jobx:scheduled:%s", name) }
func deadKey(name string) string      { return fmt.Sprintf("jobx:dead:%s", name) }
func jobKey(id string) string         { return jobKeyPrefix + id }

func millis(t time.Time) string { return strconv.FormatInt(t.UnixMilli(), 10) }

// Enqueue stores the job and pushes it onto the ready list in one transaction.
func (q *RedisQueue) Enqueue(ctx context.Context, job jobx.Job) (string, error) {
	if err := jobx.ValidateJob(job); err != nil {
		return "", err
	}

	id := uuid.New().String()
	now := millis(q.now())

	_, err := q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, jobKey(id), map[string]any{
			"id":           id,
			"type":         job.Type,
			"queue":        job.Queue,
			"payload":      string(job.Payload),
			"status":       string(jobx.JobStatusPending),
			"attempts":     0,
			"max_attempts": job.MaxAttempts,
			"lease":        "",
			"error":        "",
			"created_at":   now,
			"updated_at":   now,
		})
		pipe.LPush(ctx, queueKey(job.Queue), id)
		return nil
	})
	if err != nil {
		return "", jobx.NewError(jobx.ErrEnqueueFailed, err).WithDetail("queue", job.Queue)
	}

	return id, nil
}

// Dequeue leases the next ready job. Queues are tried in order without
// blocking first, then the call blocks on the first queue up to timeout.
func (q *RedisQueue) Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*jobx.Delivery, error) {
	if len(queues) == 0 {
		return nil, nil
	}

	if len(queues) > 1 {
		for _, name := range queues {
			id, err := q.rdb.LMove(ctx, queueKey(name), claimedKey(name), "RIGHT", "LEFT").Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return nil, nil
				}
				return nil, jobx.NewError(jobx.ErrDequeueFailed, err).WithDetail("queue", name)
			}
			return q.lease(ctx, name, id)
		}
	}

	name := queues[0]
	id, err := q.rdb.BLMove(ctx, queueKey(name), claimedKey(name), "RIGHT", "LEFT", timeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return nil, nil
		}
		return nil, jobx.NewError(jobx.ErrDequeueFailed, err).WithDetail("queue", name)
	}
	return q.lease(ctx, name, id)
}

func (q *RedisQueue) lease(ctx context.Context, queue, id string) (*jobx.Delivery, error) {
	now := q.now()
	expires := now.Add(q.leaseTimeout)
	token := uuid.New().String()

	ok, err := leaseScript.Run(ctx, q.rdb,
		[]string{claimedKey(queue), leasedKey(queue), jobKey(id)},
		id, millis(expires), token, millis(now),
	).Int()
	if err != nil {
		return nil, jobx.NewError(jobx.ErrDequeueFailed, err).WithDetail("job_id", id)
	}
	if ok == 0 {
		return nil, nil
	}

	info, err := q.getJob(ctx, id)
	if err != nil {
		return nil, err
	}

	return &jobx.Delivery{
		Job: info,
		Lease: jobx.Lease{
			JobID:     id,
			Queue:     queue,
			Token:     token,
			ExpiresAt: expires,
		},
	}, nil
}

// Ack removes a finished job.
func (q *RedisQueue) Ack(ctx context.Context, lease jobx.Lease) error {
	ok, err := ackScript.Run(ctx, q.rdb,
		[]string{jobKey(lease.JobID), leasedKey(lease.Queue)},
		lease.JobID, lease.Token,
	).Int()
	if err != nil {
		return jobx.NewError(jobx.ErrAckFailed, err).WithDetail("job_id", lease.JobID)
	}
	if ok == 0 {
		return jobx.NewError(jobx.ErrLeaseLost, nil).WithDetail("job_id", lease.JobID)
	}
	return nil
}

// Retry schedules the job after delay, or dead-letters it once exhausted.
func (q *RedisQueue) Retry(ctx context.Context, lease jobx.Lease, delay time.Duration, reason string) (bool, error) {
	return q.release(ctx, lease, delay, reason, false)
}

// Bury dead-letters the job regardless of its remaining attempts.
func (q *RedisQueue) Bury(ctx context.Context, lease jobx.Lease, reason string) error {
	_, err := q.release(ctx, lease, 0, reason, true)
	return err
}

func (q *RedisQueue) release(ctx context.Context, lease jobx.Lease, delay time.Duration, reason string, force bool) (bool, error) {
	info, err := q.getJob(ctx, lease.JobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, jobx.NewError(jobx.ErrLeaseLost, nil).WithDetail("job_id", lease.JobID)
		}
		return false, err
	}

	now := q.now()
	dead, err := deadLetterJSON(info, reason, now)
	if err != nil {
		return false, err
	}

	forceArg := "0"
	if force {
		forceArg = "1"
	}

	res, err := retryScript.Run(ctx, q.rdb,
		[]string{jobKey(lease.JobID), leasedKey(lease.Queue), scheduledKey(lease.Queue), deadKey(lease.Queue)},
		lease.JobID, lease.Token, millis(now.Add(delay)), millis(now), reason, dead, q.deadMaxLen, forceArg,
	).Int()
	if err != nil {
		return false, jobx.NewError(jobx.ErrRetryFailed, err).WithDetail("job_id", lease.JobID)
	}

	switch res {
	case -1:
		return false, jobx.NewError(jobx.ErrLeaseLost, nil).WithDetail("job_id", lease.JobID)
	case 1:
		return true, nil
	default:
		return false, nil
	}
}

// PromoteScheduled moves jobs whose scheduled time has passed from the sorted set to the ready queue.
func (q *RedisQueue) PromoteScheduled(ctx context.Context, queues []string) error {
	now := millis(q.now())

	for _, name := range queues {
		err := promoteScript.Run(ctx, q.rdb,
			[]string{scheduledKey(name), queueKey(name)},
			now, jobKeyPrefix,
		).Err()

		if err != nil && !errors.Is(err, redis.Nil) {
			return jobx.NewError(jobx.ErrPromoteFailed, err).WithDetail("queue", name)
		}
	}

	return nil
}

// ReclaimExpired requeues jobs whose lease deadline passed and hands back the
// ones that have no attempts left, leased to the caller.
func (q *RedisQueue) ReclaimExpired(ctx context.Context, queues []string) ([]*jobx.Delivery, error) {
	now := q.now()
	expires := now.Add(q.leaseTimeout)
	tokenPrefix := uuid.New().String() + ":"

	var out []*jobx.Delivery
	for _, name := range queues {
		raw, err := reclaimScript.Run(ctx, q.rdb,
			[]string{leasedKey(name), queueKey(name)},
			millis(now), jobKeyPrefix, millis(expires), tokenPrefix,
		).StringSlice()
		if err != nil && !errors.Is(err, redis.Nil) {
			return out, jobx.NewError(jobx.ErrReclaimFailed, err).WithDetail("queue", name)
		}

		for i := 0; i+2 < len(raw); i += 3 {
			id, token, alreadyDead := raw[i], raw[i+1], raw[i+2] == "1"
			info, err := q.getJob(ctx, id)
			if err != nil {
				return out, err
			}
			if !alreadyDead {
				if err := q.pushDead(ctx, info, "lease expired", now); err != nil {
					return out, err
				}
			}
			out = append(out, &jobx.Delivery{
				Job:   info,
				Lease: jobx.Lease{JobID: id, Queue: name, Token: token, ExpiresAt: expires},
			})
		}

		if err := q.requeueOrphans(ctx, name); err != nil {
			return out, err
		}
	}

	return out, nil
}

// requeueOrphans handles workers that died between popping an id and
// leasing it. Only ids seen on two consecutive sweeps are moved.
func (q *RedisQueue) requeueOrphans(ctx context.Context, queue string) error {
	current, err := q.rdb.LRange(ctx, claimedKey(queue), 0, -1).Result()
	if err != nil {
		return jobx.NewError(jobx.ErrReclaimFailed, err).WithDetail("queue", queue)
	}

	q.mu.Lock()
	previous := q.claimed[queue]
	q.claimed[queue] = current
	q.mu.Unlock()

	seen := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}
	var candidates []any
	for _, id := range current {
		if _, ok := seen[id]; ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if err := orphanScript.Run(ctx, q.rdb,
		[]string{claimedKey(queue), leasedKey(queue), queueKey(queue)},
		candidates...,
	).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return jobx.NewError(jobx.ErrReclaimFailed, err).WithDetail("queue", queue)
	}
	return nil
}

// ListDead returns up to limit dead-lettered jobs, newest first.
func (q *RedisQueue) ListDead(ctx context.Context, queue string, limit int) ([]jobx.DeadLetter, error) {
	if limit <= 0 {
		limit = 50
	}
	raw, err := q.rdb.LRange(ctx, deadKey(queue), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, jobx.NewError(jobx.ErrInspectFailed, err).WithDetail("queue", queue)
	}

	out := make([]jobx.DeadLetter, 0, len(raw))
	for _, item := range raw {
		var dl jobx.DeadLetter
		if err := json.Unmarshal([]byte(item), &dl); err != nil {
			return nil, redisErrors.NewWithCause(ErrUnmarshal, err).WithDetail("queue", queue)
		}
		out = append(out, dl)
	}
	return out, nil
}

// Stats reports the depth of every structure backing a queue.
func (q *RedisQueue) Stats(ctx context.Context, queue string) (*jobx.Stats, error) {
	pipe := q.rdb.Pipeline()
	ready := pipe.LLen(ctx, queueKey(queue))
	scheduled := pipe.ZCard(ctx, scheduledKey(queue))
	leased := pipe.ZCard(ctx, leasedKey(queue))
	dead := pipe.LLen(ctx, deadKey(queue))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, jobx.NewError(jobx.ErrInspectFailed, err).WithDetail("queue", queue)
	}

	return &jobx.Stats{
		Queue:     queue,
		Ready:     ready.Val(),
		Scheduled: scheduled.Val(),
		Leased:    leased.Val(),
		Dead:      dead.Val(),
	}, nil
}

func (q *RedisQueue) pushDead(ctx context.Context, info *jobx.JobInfo, reason string, at time.Time) error {
	data, err := deadLetterJSON(info, reason, at)
	if err != nil {
		return err
	}
	pipe := q.rdb.TxPipeline()
	pipe.LPush(ctx, deadKey(info.Queue), data)
	pipe.LTrim(ctx, deadKey(info.Queue), 0, q.deadMaxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return jobx.NewError(jobx.ErrReclaimFailed, err).WithDetail("job_id", info.ID)
	}
	return nil
}

func (q *RedisQueue) getJob(ctx context.Context, id string) (*jobx.JobInfo, error) {
	fields, err := q.rdb.HGetAll(ctx, jobKey(id)).Result()
	if err != nil {
		return nil, jobx.NewError(jobx.ErrDequeueFailed, err).WithDetail("job_id", id)
	}
	if len(fields) == 0 {
		return nil, redisErrors.New(ErrNotFound).WithDetail("job_id", id)
	}
	return parseJob(fields)
}

func parseJob(f map[string]string) (*jobx.JobInfo, error) {
	attempts, err := strconv.Atoi(f["attempts"])
	if err != nil {
		return nil, redisErrors.NewWithCause(ErrUnmarshal, err).WithDetail("field", "attempts")
	}
	maxAttempts, err := strconv.Atoi(f["max_attempts"])
	if err != nil {
		return nil, redisErrors.NewWithCause(ErrUnmarshal, err).WithDetail("field", "max_attempts")
	}

	info := &jobx.JobInfo{
		ID:          f["id"],
		Type:        f["type"],
		Queue:       f["queue"],
		Status:      jobx.JobStatus(f["status"]),
		Error:       f["error"],
		Attempts:    attempts,
		MaxAttempts: maxAttempts,
		CreatedAt:   parseMillis(f["created_at"]),
		UpdatedAt:   parseMillis(f["updated_at"]),
	}
	if p := f["payload"]; p != "" {
		info.Payload = json.RawMessage(p)
	}
	return info, nil
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func deadLetterJSON(info *jobx.JobInfo, reason string, at time.Time) (string, error) {
	job := *info
	job.Status = jobx.JobStatusDead
	job.Error = reason
	job.UpdatedAt = at.UTC()

	data, err := json.Marshal(jobx.DeadLetter{Job: job, Reason: reason, FailedAt: at.UTC()})
	if err != nil {
		return "", redisErrors.NewWithCause(ErrMarshal, err).WithDetail("job_id", info.ID)
	}
	return string(data), nil
}
