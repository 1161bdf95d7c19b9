package jobxredis_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rohit9625/natively-backend/pkg/jobx"
	"github.com/rohit9625/natively-backend/pkg/jobx/jobxredis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newQueue(t *testing.T) (*jobxredis.RedisQueue, *redis.Client, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	q := jobxredis.NewRedisQueue(rdb,
		jobxredis.WithLeaseTimeout(time.Minute),
		jobxredis.WithDeadLetterMaxLen(10),
		jobxredis.WithClock(clock.Now),
	)
	return q, rdb, clock
}

func enqueue(t *testing.T, q *jobxredis.RedisQueue, maxAttempts int) string {
	t.Helper()
	id, err := q.Enqueue(context.Background(), jobx.Job{
		Type:        "translation.translate",
		Queue:       "translations",
		Payload:     json.RawMessage(`{"text":"Hello"}`),
		MaxAttempts: maxAttempts,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func dequeue(t *testing.T, q *jobxredis.RedisQueue) *jobx.Delivery {
	t.Helper()
	d, err := q.Dequeue(context.Background(), []string{"translations"}, time.Second)
	require.NoError(t, err)
	return d
}

func TestEnqueueDequeueAck(t *testing.T) {
	q, _, _ := newQueue(t)
	ctx := context.Background()
	id := enqueue(t, q, 3)

	d := dequeue(t, q)
	require.NotNil(t, d)
	assert.Equal(t, id, d.Job.ID)
	assert.Equal(t, 1, d.Job.Attempts)
	assert.Equal(t, jobx.JobStatusActive, d.Job.Status)
	assert.JSONEq(t, `{"text":"Hello"}`, string(d.Job.Payload))
	assert.NotEmpty(t, d.Lease.Token)

	require.NoError(t, q.Ack(ctx, d.Lease))

	stats, err := q.Stats(ctx, "translations")
	require.NoError(t, err)
	assert.Equal(t, &jobx.Stats{Queue: "translations"}, stats)
}

func TestEnqueue_RejectsInvalidJob(t *testing.T) {
	q, _, _ := newQueue(t)
	_, err := q.Enqueue(context.Background(), jobx.Job{Type: "x", Queue: "translations"})
	assert.True(t, errors.Is(err, jobx.ErrInvalidJob))
}

func TestDequeue_LeaseIsExclusive(t *testing.T) {
	q, _, _ := newQueue(t)
	enqueue(t, q, 3)

	first := dequeue(t, q)
	require.NotNil(t, first)

	second := dequeue(t, q)
	assert.Nil(t, second, "a leased job must not be handed to a second worker")
}

func TestAck_StaleTokenIsRejected(t *testing.T) {
	q, _, _ := newQueue(t)
	enqueue(t, q, 3)
	d := dequeue(t, q)
	require.NotNil(t, d)

	stale := d.Lease
	stale.Token = "not-the-token"
	err := q.Ack(context.Background(), stale)
	assert.True(t, errors.Is(err, jobx.ErrLeaseLost))

	_, err = q.Retry(context.Background(), stale, 0, "boom")
	assert.True(t, errors.Is(err, jobx.ErrLeaseLost))
}

func TestRetry_DeadLettersAfterMaxAttempts(t *testing.T) {
	q, _, clock := newQueue(t)
	ctx := context.Background()
	id := enqueue(t, q, 3)

	for attempt := 1; attempt <= 3; attempt++ {
		d := dequeue(t, q)
		require.NotNil(t, d, "attempt %d", attempt)
		assert.Equal(t, attempt, d.Job.Attempts)

		exhausted, err := q.Retry(ctx, d.Lease, time.Second, "provider unavailable")
		require.NoError(t, err)

		if attempt < 3 {
			assert.False(t, exhausted)
			assert.Nil(t, dequeue(t, q), "retry must wait for its delay")
			clock.Advance(2 * time.Second)
			require.NoError(t, q.PromoteScheduled(ctx, []string{"translations"}))
			continue
		}

		assert.True(t, exhausted)
		dead, err := q.ListDead(ctx, "translations", 10)
		require.NoError(t, err)
		require.Len(t, dead, 1)
		assert.Equal(t, id, dead[0].Job.ID)
		assert.Equal(t, 3, dead[0].Job.Attempts)
		assert.Equal(t, "provider unavailable", dead[0].Reason)

		require.NoError(t, q.Ack(ctx, d.Lease))
	}

	stats, err := q.Stats(ctx, "translations")
	require.NoError(t, err)
	assert.Zero(t, stats.Ready+stats.Scheduled+stats.Leased)
	assert.EqualValues(t, 1, stats.Dead)
}

func TestBury_SkipsRemainingAttempts(t *testing.T) {
	q, _, _ := newQueue(t)
	ctx := context.Background()
	enqueue(t, q, 3)

	d := dequeue(t, q)
	require.NotNil(t, d)
	require.NoError(t, q.Bury(ctx, d.Lease, "malformed payload"))
	require.NoError(t, q.Ack(ctx, d.Lease))

	dead, err := q.ListDead(ctx, "translations", 10)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, 1, dead[0].Job.Attempts)
}

func TestReclaimExpired_RequeuesJobWithAttemptsLeft(t *testing.T) {
	q, _, clock := newQueue(t)
	ctx := context.Background()
	id := enqueue(t, q, 3)

	d := dequeue(t, q)
	require.NotNil(t, d)

	out, err := q.ReclaimExpired(ctx, []string{"translations"})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Nil(t, dequeue(t, q), "lease still valid")

	clock.Advance(2 * time.Minute)
	out, err = q.ReclaimExpired(ctx, []string{"translations"})
	require.NoError(t, err)
	assert.Empty(t, out)

	again := dequeue(t, q)
	require.NotNil(t, again)
	assert.Equal(t, id, again.Job.ID)
	assert.Equal(t, 2, again.Job.Attempts)

	err = q.Ack(ctx, d.Lease)
	assert.True(t, errors.Is(err, jobx.ErrLeaseLost), "the first worker lost its lease")
	require.NoError(t, q.Ack(ctx, again.Lease))
}

func TestReclaimExpired_ReturnsExhaustedJob(t *testing.T) {
	q, _, clock := newQueue(t)
	ctx := context.Background()
	id := enqueue(t, q, 1)

	d := dequeue(t, q)
	require.NotNil(t, d)

	clock.Advance(2 * time.Minute)
	out, err := q.ReclaimExpired(ctx, []string{"translations"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, id, out[0].Job.ID)
	assert.NotEqual(t, d.Lease.Token, out[0].Lease.Token)

	dead, err := q.ListDead(ctx, "translations", 10)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "lease expired", dead[0].Reason)

	require.NoError(t, q.Ack(ctx, out[0].Lease))
	assert.Nil(t, dequeue(t, q))
}

func TestReclaimExpired_RequeuesOrphanedClaims(t *testing.T) {
	q, rdb, _ := newQueue(t)
	ctx := context.Background()
	id := enqueue(t, q, 3)

	// A worker popped the id and died before leasing it.
	require.NoError(t, rdb.LMove(ctx, "jobx:queue:translations", "jobx:claimed:translations", "RIGHT", "LEFT").Err())

	_, err := q.ReclaimExpired(ctx, []string{"translations"})
	require.NoError(t, err)
	_, err = q.ReclaimExpired(ctx, []string{"translations"})
	require.NoError(t, err)

	d := dequeue(t, q)
	require.NotNil(t, d)
	assert.Equal(t, id, d.Job.ID)
	assert.Equal(t, 1, d.Job.Attempts)
}

func TestDequeue_MultipleQueues(t *testing.T) {
	q, _, _ := newQueue(t)
	ctx := context.Background()
	_, err := q.Enqueue(ctx, jobx.Job{Type: "t", Queue: "b", Payload: json.RawMessage(`{}`), MaxAttempts: 1})
	require.NoError(t, err)

	d, err := q.Dequeue(ctx, []string{"a", "b"}, time.Second)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "b", d.Lease.Queue)
}

func TestListDead_IsCapped(t *testing.T) {
	q, _, _ := newQueue(t)
	ctx := context.Background()
	for range 12 {
		enqueue(t, q, 1)
		d := dequeue(t, q)
		require.NotNil(t, d)
		require.NoError(t, q.Bury(ctx, d.Lease, "bad"))
		require.NoError(t, q.Ack(ctx, d.Lease))
	}

	dead, err := q.ListDead(ctx, "translations", 100)
	require.NoError(t, err)
	assert.Len(t, dead, 10)
}

func TestClient_ConcurrentWorkersNeverShareAJob(t *testing.T) {
	q, _, _ := newQueue(t)
	c := jobx.NewClient(q,
		jobx.WithQueues("translations"),
		jobx.WithConcurrency(6),
		jobx.WithPollInterval(time.Millisecond),
		jobx.WithDequeueTimeout(10*time.Millisecond),
		jobx.WithReclaimInterval(time.Hour),
		jobx.WithShutdownTimeout(time.Second),
		jobx.WithBackoff(func(int) time.Duration { return 0 }),
	)

	const jobs = 25
	var (
		inFlight sync.Map
		overlaps atomic.Int32
		calls    atomic.Int32
	)
	c.Register("translation.translate", func(ctx context.Context, job *jobx.JobInfo) error {
		if _, held := inFlight.LoadOrStore(job.ID, struct{}{}); held {
			overlaps.Add(1)
		}
		defer inFlight.Delete(job.ID)

		calls.Add(1)
		time.Sleep(2 * time.Millisecond)
		if job.Attempts == 1 {
			return errors.New("transient")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	for range jobs {
		enqueue(t, q, 3)
	}

	require.Eventually(t, func() bool {
		s, err := q.Stats(context.Background(), "translations")
		return err == nil && calls.Load() == 2*jobs && s.Ready+s.Scheduled+s.Leased == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Zero(t, overlaps.Load())
}
