package jobx

import (
	"context"
	"sync"
	"time"

	"github.com/rohit9625/natively-backend/pkg/logx"
)

// HandlerFunc processes a job. Return nil on success, an error to trigger a
// retry, or an error wrapped with Permanent to fail the job immediately.
type HandlerFunc func(ctx context.Context, job *JobInfo) error

// ExhaustedFunc runs once a job reaches the terminal-failure path, before the
// job is acknowledged. Returning an error leaves the lease in place so the
// reclaimer retries the hook later.
type ExhaustedFunc func(ctx context.Context, job *JobInfo, cause error) error

// SettledFunc runs after a job was acknowledged, on success and on the
// terminal-failure path alike. The lease is already released, so slow side
// effects here never cause a redelivery.
type SettledFunc func(ctx context.Context, job *JobInfo)

// JobEnqueuer enqueues jobs for processing.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, job Job) (string, error)
}

// JobProcessor provides backend operations for the worker loop.
type JobProcessor interface {
	// Dequeue blocks up to timeout and leases the next ready job. It returns
	// nil, nil when nothing became ready.
	Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*Delivery, error)
	// Ack removes the job. Fails with ErrLeaseLost if the lease was taken over.
	Ack(ctx context.Context, lease Lease) error
	// Retry schedules another delivery after delay. When the job has used all
	// of its attempts it is dead-lettered instead, the lease is kept and
	// exhausted is true.
	Retry(ctx context.Context, lease Lease, delay time.Duration, reason string) (exhausted bool, err error)
	// Bury dead-letters the job regardless of remaining attempts. The lease is kept.
	Bury(ctx context.Context, lease Lease, reason string) error
	PromoteScheduled(ctx context.Context, queues []string) error
	// ReclaimExpired requeues jobs whose lease ran out. Jobs with no attempts
	// left are re-leased to the caller and returned for finalization.
	ReclaimExpired(ctx context.Context, queues []string) ([]*Delivery, error)
}

// JobInspector exposes read-only views of a queue.
type JobInspector interface {
	ListDead(ctx context.Context, queue string, limit int) ([]DeadLetter, error)
	Stats(ctx context.Context, queue string) (*Stats, error)
}

// Queue combines all backend operations.
type Queue interface {
	JobEnqueuer
	JobProcessor
	JobInspector
}

// Client is the main entry point for enqueuing and processing jobs.
type Client struct {
	queue     Queue
	opts      WorkerOptions
	handlers  map[string]HandlerFunc
	exhausted map[string]ExhaustedFunc
	settled   map[string]SettledFunc
	mu        sync.RWMutex
	running   bool
}

// NewClient creates a new job processing client.
func NewClient(queue Queue, options ...WorkerOption) *Client {
	opts := defaultWorkerOptions()
	for _, o := range options {
		o(&opts)
	}
	return &Client{
		queue:     queue,
		opts:      opts,
		handlers:  make(map[string]HandlerFunc),
		exhausted: make(map[string]ExhaustedFunc),
		settled:   make(map[string]SettledFunc),
	}
}

// Register adds a handler for a given job type.
func (c *Client) Register(jobType string, handler HandlerFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[jobType] = handler
}

// OnExhausted adds the terminal-failure hook for a given job type.
func (c *Client) OnExhausted(jobType string, fn ExhaustedFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exhausted[jobType] = fn
}

// OnSettled adds the post-acknowledgement hook for a given job type.
func (c *Client) OnSettled(jobType string, fn SettledFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settled[jobType] = fn
}

// Enqueue enqueues a job for immediate processing.
func (c *Client) Enqueue(ctx context.Context, job Job) (string, error) {
	if job.Queue == "" {
		job.Queue = c.opts.Queues[0]
	}
	if job.MaxAttempts == 0 {
		job.MaxAttempts = 3
	}
	if err := ValidateJob(job); err != nil {
		return "", err
	}
	return c.queue.Enqueue(ctx, job)
}

// ListDead returns the most recent dead-lettered jobs of a queue.
func (c *Client) ListDead(ctx context.Context, queue string, limit int) ([]DeadLetter, error) {
	if queue == "" {
		queue = c.opts.Queues[0]
	}
	return c.queue.ListDead(ctx, queue, limit)
}

// Stats returns the depth of every configured queue.
func (c *Client) Stats(ctx context.Context) ([]*Stats, error) {
	out := make([]*Stats, 0, len(c.opts.Queues))
	for _, q := range c.opts.Queues {
		s, err := c.queue.Stats(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Start begins processing jobs. It blocks until ctx is cancelled, then waits
// up to ShutdownTimeout for in-flight jobs.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return jobxErrors.New(ErrAlreadyRunning)
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	logx.Infof("jobx: starting %d workers on queues %v", c.opts.Concurrency, c.opts.Queues)

	var wg sync.WaitGroup

	// Scheduler goroutine: promotes retries whose delay elapsed.
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.schedulerLoop(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.reclaimLoop(ctx)
	}()

	for i := range c.opts.Concurrency {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.workerLoop(ctx, id)
		}(i)
	}

	<-ctx.Done()
	logx.Info("jobx: shutting down workers...")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logx.Info("jobx: all workers stopped")
		return nil
	case <-time.After(c.opts.ShutdownTimeout):
		logx.Warn("jobx: shutdown timed out, unfinished jobs will be reclaimed when their lease expires")
		return jobxErrors.New(ErrShutdownTimeout)
	}
}

func (c *Client) schedulerLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.queue.PromoteScheduled(ctx, c.opts.Queues); err != nil {
				if ctx.Err() != nil {
					return
				}
				logx.WithError(err).Warn("jobx: failed to promote scheduled jobs")
			}
		}
	}
}

func (c *Client) reclaimLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.ReclaimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Reclaim(ctx)
		}
	}
}

// Reclaim sweeps expired leases once and finalizes jobs that ran out of attempts.
func (c *Client) Reclaim(ctx context.Context) {
	deliveries, err := c.queue.ReclaimExpired(ctx, c.opts.Queues)
	if err != nil {
		if ctx.Err() == nil {
			logx.WithError(err).Warn("jobx: failed to reclaim expired leases")
		}
		return
	}
	for _, d := range deliveries {
		logx.WithFields(logx.Fields{
			"job_id":   d.Job.ID,
			"job_type": d.Job.Type,
			"attempts": d.Job.Attempts,
		}).Warn("jobx: lease expired on last attempt")
		c.finalize(context.WithoutCancel(ctx), d, jobxErrors.New(ErrLeaseExpired))
	}
}

func (c *Client) workerLoop(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		d, err := c.queue.Dequeue(ctx, c.opts.Queues, c.opts.DequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logx.WithError(err).Warnf("jobx: worker %d dequeue error", id)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.opts.PollInterval):
			}
			continue
		}
		if d == nil {
			continue
		}

		// In-flight jobs run to completion during shutdown.
		c.processJob(context.WithoutCancel(ctx), d)
	}
}

func (c *Client) processJob(ctx context.Context, d *Delivery) {
	job := d.Job

	c.mu.RLock()
	handler, ok := c.handlers[job.Type]
	c.mu.RUnlock()

	if !ok {
		logx.Warnf("jobx: no handler for job type %q (id=%s)", job.Type, job.ID)
		cause := jobxErrors.New(ErrNoHandler).WithDetail("type", job.Type)
		if err := c.queue.Bury(ctx, d.Lease, cause.Error()); err != nil {
			logx.WithError(err).Errorf("jobx: failed to bury job %s", job.ID)
			return
		}
		c.finalize(ctx, d, cause)
		return
	}

	err := handler(ctx, job)
	if err == nil {
		if ackErr := c.queue.Ack(ctx, d.Lease); ackErr != nil {
			logx.WithError(ackErr).Errorf("jobx: failed to ack job %s", job.ID)
			return
		}
		c.settle(ctx, job)
		return
	}

	if IsPermanent(err) {
		logx.WithError(err).Warnf("jobx: job %s (type=%s) failed permanently", job.ID, job.Type)
		if buryErr := c.queue.Bury(ctx, d.Lease, err.Error()); buryErr != nil {
			logx.WithError(buryErr).Errorf("jobx: failed to bury job %s", job.ID)
			return
		}
		c.finalize(ctx, d, err)
		return
	}

	delay := c.opts.Backoff(job.Attempts)
	exhausted, retryErr := c.queue.Retry(ctx, d.Lease, delay, err.Error())
	if retryErr != nil {
		logx.WithError(retryErr).Errorf("jobx: failed to retry job %s", job.ID)
		return
	}
	if !exhausted {
		logx.WithError(err).WithFields(logx.Fields{
			"job_id":   job.ID,
			"attempt":  job.Attempts,
			"retry_in": delay.String(),
		}).Warn("jobx: job failed, retry scheduled")
		return
	}

	logx.WithError(err).Warnf("jobx: job %s (type=%s) exhausted %d attempts", job.ID, job.Type, job.Attempts)
	c.finalize(ctx, d, err)
}

// finalize runs the exhausted hook and then acknowledges the job.
func (c *Client) finalize(ctx context.Context, d *Delivery, cause error) {
	c.mu.RLock()
	hook := c.exhausted[d.Job.Type]
	c.mu.RUnlock()

	if hook != nil {
		if err := hook(ctx, d.Job, cause); err != nil {
			logx.WithError(err).Errorf("jobx: exhausted hook failed for job %s", d.Job.ID)
			return
		}
	}
	if err := c.queue.Ack(ctx, d.Lease); err != nil {
		logx.WithError(err).Errorf("jobx: failed to ack dead job %s", d.Job.ID)
		return
	}
	c.settle(ctx, d.Job)
}

func (c *Client) settle(ctx context.Context, job *JobInfo) {
	c.mu.RLock()
	hook := c.settled[job.Type]
	c.mu.RUnlock()

	if hook != nil {
		hook(ctx, job)
	}
}
