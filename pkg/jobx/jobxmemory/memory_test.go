package jobxmemory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rohit9625/natively-backend/pkg/jobx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_AttemptBound(t *testing.T) {
	ctx := context.Background()
	q := New()
	_, err := q.Enqueue(ctx, jobx.Job{Type: "t", Queue: "q", Payload: json.RawMessage(`{}`), MaxAttempts: 2})
	require.NoError(t, err)

	d, err := q.Dequeue(ctx, []string{"q"}, time.Millisecond)
	require.NoError(t, err)
	exhausted, err := q.Retry(ctx, d.Lease, 0, "first")
	require.NoError(t, err)
	assert.False(t, exhausted)

	require.NoError(t, q.PromoteScheduled(ctx, []string{"q"}))
	d, err = q.Dequeue(ctx, []string{"q"}, time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 2, d.Job.Attempts)

	exhausted, err = q.Retry(ctx, d.Lease, 0, "second")
	require.NoError(t, err)
	assert.True(t, exhausted)
	require.NoError(t, q.Ack(ctx, d.Lease))

	dead, err := q.ListDead(ctx, "q", 0)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "second", dead[0].Reason)
	assert.Empty(t, q.jobs)
}

func TestQueue_DequeueWakesOnEnqueue(t *testing.T) {
	ctx := context.Background()
	q := New()

	got := make(chan *jobx.Delivery, 1)
	go func() {
		d, _ := q.Dequeue(ctx, []string{"q"}, 2*time.Second)
		got <- d
	}()

	time.Sleep(20 * time.Millisecond)
	_, err := q.Enqueue(ctx, jobx.Job{Type: "t", Queue: "q", Payload: json.RawMessage(`{}`), MaxAttempts: 1})
	require.NoError(t, err)

	select {
	case d := <-got:
		require.NotNil(t, d)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not wake up")
	}
}

func TestQueue_ExpiredLeaseIsRequeued(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	q := New(WithLeaseTimeout(time.Second), WithClock(func() time.Time { return now }))
	_, err := q.Enqueue(ctx, jobx.Job{Type: "t", Queue: "q", Payload: json.RawMessage(`{}`), MaxAttempts: 3})
	require.NoError(t, err)

	first, err := q.Dequeue(ctx, []string{"q"}, time.Millisecond)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	out, err := q.ReclaimExpired(ctx, []string{"q"})
	require.NoError(t, err)
	assert.Empty(t, out)

	second, err := q.Dequeue(ctx, []string{"q"}, time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 2, second.Job.Attempts)

	assert.True(t, errors.Is(q.Ack(ctx, first.Lease), jobx.ErrLeaseLost))
	assert.NoError(t, q.Ack(ctx, second.Lease))
}
