// Package jobxmemory is an in-process jobx.Queue for tests and single-node
// development. Jobs do not survive a restart.
package jobxmemory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rohit9625/natively-backend/pkg/jobx"
)

type record struct {
	info       jobx.JobInfo
	lease      string
	leaseUntil time.Time
	dueAt      time.Time
}

type queueState struct {
	ready     []string
	scheduled []string
	leased    []string
	dead      []jobx.DeadLetter
}

// Queue implements jobx.Queue in memory.
type Queue struct {
	leaseTimeout time.Duration
	deadMaxLen   int
	now          func() time.Time

	mu     sync.Mutex
	jobs   map[string]*record
	queues map[string]*queueState
	wake   chan struct{}
}

// Option configures a Queue.
type Option func(*Queue)

// WithLeaseTimeout sets how long a dequeued job stays exclusive to its worker.
func WithLeaseTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.leaseTimeout = d
		}
	}
}

// WithDeadLetterMaxLen caps the dead-letter list of every queue.
func WithDeadLetterMaxLen(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.deadMaxLen = n
		}
	}
}

// WithClock overrides the time source used for leases and schedules.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// New creates an empty in-memory queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		leaseTimeout: 2 * time.Minute,
		deadMaxLen:   1000,
		now:          time.Now,
		jobs:         make(map[string]*record),
		queues:       make(map[string]*queueState),
		wake:         make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

func (q *Queue) state(name string) *queueState {
	s, ok := q.queues[name]
	if !ok {
		s = &queueState{}
		q.queues[name] = s
	}
	return s
}

// broadcast wakes every blocked Dequeue. Caller holds mu.
func (q *Queue) broadcast() {
	close(q.wake)
	q.wake = make(chan struct{})
}

func (q *Queue) Enqueue(ctx context.Context, job jobx.Job) (string, error) {
	if err := jobx.ValidateJob(job); err != nil {
		return "", err
	}

	now := q.now().UTC()
	id := uuid.New().String()

	q.mu.Lock()
	defer q.mu.Unlock()

	q.jobs[id] = &record{info: jobx.JobInfo{
		ID:          id,
		Type:        job.Type,
		Queue:       job.Queue,
		Payload:     slices.Clone(job.Payload),
		Status:      jobx.JobStatusPending,
		MaxAttempts: job.MaxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}}
	s := q.state(job.Queue)
	s.ready = append(s.ready, id)
	q.broadcast()
	return id, nil
}

func (q *Queue) Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*jobx.Delivery, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if d := q.leaseNext(queues); d != nil {
			q.mu.Unlock()
			return d, nil
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, nil
		case <-timer.C:
			return nil, nil
		case <-wake:
		}
	}
}

func (q *Queue) leaseNext(queues []string) *jobx.Delivery {
	for _, name := range queues {
		s := q.state(name)
		if len(s.ready) == 0 {
			continue
		}
		id := s.ready[0]
		s.ready = s.ready[1:]

		rec, ok := q.jobs[id]
		if !ok {
			continue
		}
		now := q.now()
		rec.lease = uuid.New().String()
		rec.leaseUntil = now.Add(q.leaseTimeout)
		rec.info.Attempts++
		rec.info.Status = jobx.JobStatusActive
		rec.info.UpdatedAt = now.UTC()
		s.leased = append(s.leased, id)

		info := rec.info
		return &jobx.Delivery{
			Job:   &info,
			Lease: jobx.Lease{JobID: id, Queue: name, Token: rec.lease, ExpiresAt: rec.leaseUntil},
		}
	}
	return nil
}

// held returns the record if lease is still the current one. Caller holds mu.
func (q *Queue) held(lease jobx.Lease) (*record, error) {
	rec, ok := q.jobs[lease.JobID]
	if !ok || rec.lease == "" || rec.lease != lease.Token {
		return nil, jobx.NewError(jobx.ErrLeaseLost, nil).WithDetail("job_id", lease.JobID)
	}
	return rec, nil
}

func (q *Queue) Ack(ctx context.Context, lease jobx.Lease) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	rec, err := q.held(lease)
	if err != nil {
		return err
	}
	s := q.state(rec.info.Queue)
	s.leased = remove(s.leased, lease.JobID)
	delete(q.jobs, lease.JobID)
	return nil
}

func (q *Queue) Retry(ctx context.Context, lease jobx.Lease, delay time.Duration, reason string) (bool, error) {
	return q.release(lease, delay, reason, false)
}

func (q *Queue) Bury(ctx context.Context, lease jobx.Lease, reason string) error {
	_, err := q.release(lease, 0, reason, true)
	return err
}

func (q *Queue) release(lease jobx.Lease, delay time.Duration, reason string, force bool) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	rec, err := q.held(lease)
	if err != nil {
		return false, err
	}

	now := q.now()
	rec.info.Error = reason
	rec.info.UpdatedAt = now.UTC()

	if !force && !rec.info.Exhausted() {
		s := q.state(rec.info.Queue)
		s.leased = remove(s.leased, rec.info.ID)
		s.scheduled = append(s.scheduled, rec.info.ID)
		rec.lease = ""
		rec.dueAt = now.Add(delay)
		rec.info.Status = jobx.JobStatusRetrying
		return false, nil
	}

	q.bury(rec, reason, now)
	return true, nil
}

// bury marks the record dead and copies it to the dead-letter list. Caller holds mu.
func (q *Queue) bury(rec *record, reason string, now time.Time) {
	rec.info.Status = jobx.JobStatusDead
	rec.info.Error = reason
	s := q.state(rec.info.Queue)
	s.dead = append([]jobx.DeadLetter{{Job: rec.info, Reason: reason, FailedAt: now.UTC()}}, s.dead...)
	if len(s.dead) > q.deadMaxLen {
		s.dead = s.dead[:q.deadMaxLen]
	}
}

func (q *Queue) PromoteScheduled(ctx context.Context, queues []string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	promoted := false
	for _, name := range queues {
		s := q.state(name)
		kept := s.scheduled[:0]
		for _, id := range s.scheduled {
			rec, ok := q.jobs[id]
			if !ok {
				continue
			}
			if rec.dueAt.After(now) {
				kept = append(kept, id)
				continue
			}
			rec.info.Status = jobx.JobStatusPending
			s.ready = append(s.ready, id)
			promoted = true
		}
		s.scheduled = kept
	}
	if promoted {
		q.broadcast()
	}
	return nil
}

func (q *Queue) ReclaimExpired(ctx context.Context, queues []string) ([]*jobx.Delivery, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	var out []*jobx.Delivery
	requeued := false
	for _, name := range queues {
		s := q.state(name)
		for _, id := range slices.Clone(s.leased) {
			rec, ok := q.jobs[id]
			if !ok {
				s.leased = remove(s.leased, id)
				continue
			}
			if rec.leaseUntil.After(now) {
				continue
			}

			if rec.info.Status != jobx.JobStatusDead && !rec.info.Exhausted() {
				s.leased = remove(s.leased, id)
				rec.lease = ""
				rec.info.Status = jobx.JobStatusPending
				rec.info.Error = "lease expired"
				s.ready = append([]string{id}, s.ready...)
				requeued = true
				continue
			}

			if rec.info.Status != jobx.JobStatusDead {
				q.bury(rec, "lease expired", now)
			}
			rec.lease = uuid.New().String()
			rec.leaseUntil = now.Add(q.leaseTimeout)
			info := rec.info
			out = append(out, &jobx.Delivery{
				Job:   &info,
				Lease: jobx.Lease{JobID: id, Queue: name, Token: rec.lease, ExpiresAt: rec.leaseUntil},
			})
		}
	}
	if requeued {
		q.broadcast()
	}
	return out, nil
}

func (q *Queue) ListDead(ctx context.Context, queue string, limit int) ([]jobx.DeadLetter, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	dead := q.state(queue).dead
	if limit > 0 && len(dead) > limit {
		dead = dead[:limit]
	}
	return slices.Clone(dead), nil
}

func (q *Queue) Stats(ctx context.Context, queue string) (*jobx.Stats, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := q.state(queue)
	return &jobx.Stats{
		Queue:     queue,
		Ready:     int64(len(s.ready)),
		Scheduled: int64(len(s.scheduled)),
		Leased:    int64(len(s.leased)),
		Dead:      int64(len(s.dead)),
	}, nil
}

func remove(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
