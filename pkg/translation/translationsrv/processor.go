package translationsrv

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rohit9625/natively-backend/pkg/errx"
	"github.com/rohit9625/natively-backend/pkg/jobx"
	"github.com/rohit9625/natively-backend/pkg/logx"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/rohit9625/natively-backend/pkg/translation"
)

// ProcessorConfig configures the worker side.
type ProcessorConfig struct {
	ResultTTL     time.Duration
	NotifyTimeout time.Duration
	// Now is used for completedAt. Defaults to time.Now.
	Now func() time.Time
}

// Processor runs translation jobs handed out by jobx. jobx owns leasing,
// retries and the attempt bound; Processor owns the result record.
type Processor struct {
	translator translatex.Translator
	results    translation.ResultRepository
	notifier   translation.Notifier
	cfg        ProcessorConfig
}

// NewProcessor creates a Processor. notifier may be nil.
func NewProcessor(
	translator translatex.Translator,
	results translation.ResultRepository,
	notifier translation.Notifier,
	cfg ProcessorConfig,
) *Processor {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	return &Processor{
		translator: translator,
		results:    results,
		notifier:   notifier,
		cfg:        cfg,
	}
}

// Register binds the processor to jobType on c.
func (p *Processor) Register(c *jobx.Client, jobType string) {
	c.Register(jobType, p.Handle)
	c.OnExhausted(jobType, p.HandleExhausted)
	c.OnSettled(jobType, p.HandleSettled)
}

// Handle is the jobx handler. A returned error schedules a retry unless it
// is marked permanent.
func (p *Processor) Handle(ctx context.Context, info *jobx.JobInfo) error {
	fields := jobFields(info)
	logx.WithFields(fields).WithField("state", translation.StateReceived).Debug("translation job received")

	job, err := decodeJob(info)
	if err != nil {
		logx.WithFields(fields).WithError(err).Warn("translation job payload is malformed")
		return jobx.Permanent(err)
	}

	// A redelivered job whose record was already written is done.
	done, err := p.results.Exists(ctx, info.ID)
	if err != nil {
		err = errx.Wrap(err, "failed to look up translation result", errx.TypeExternal).
			WithDetail("job_id", info.ID)
		p.logFailedAttempt(info, err)
		return err
	}
	if done {
		logx.WithFields(fields).Info("translation result already stored, skipping")
		return nil
	}

	logx.WithFields(fields).WithField("state", translation.StateTranslating).Debug("translating")
	translated, err := p.translator.Translate(ctx, translatex.Request{
		Text:         job.OriginalText,
		SourceLocale: deref(job.SourceLanguage),
		TargetLocale: job.TargetLanguage,
	})
	if err == nil && strings.TrimSpace(translated) == "" {
		err = translatex.InvalidResponse("translator", "empty translation")
	}
	if err != nil {
		p.logFailedAttempt(info, err)
		return err
	}

	result := translation.NewCompletedResult(info.ID, job, translated, p.cfg.Now())
	if err := p.results.Save(ctx, result, p.cfg.ResultTTL); err != nil {
		err = errx.Wrap(err, "failed to store translation result", errx.TypeExternal).
			WithDetail("job_id", info.ID)
		p.logFailedAttempt(info, err)
		return err
	}

	logx.WithFields(fields).WithField("state", translation.StateSucceeded).Info("translation completed")
	return nil
}

// HandleExhausted writes the FAILED record once jobx gives up on a job. An
// error keeps the lease so the reclaimer runs the hook again. A record that
// already exists is never replaced: a worker may have stored COMPLETED and
// lost its lease before acknowledging.
func (p *Processor) HandleExhausted(ctx context.Context, info *jobx.JobInfo, cause error) error {
	exists, err := p.results.Exists(ctx, info.ID)
	if err != nil {
		logx.WithFields(jobFields(info)).WithError(err).Error("failed to look up translation result")
		return err
	}
	if exists {
		logx.WithFields(jobFields(info)).WithError(cause).
			Warn("translation exhausted after its result was stored, keeping existing record")
		return nil
	}

	job, err := decodeJob(info)
	if err != nil {
		// Poison payloads still get a record so pollers stop waiting.
		job = translation.Job{}
	}

	result := translation.NewFailedResult(info.ID, job, p.cfg.Now())
	if err := p.results.Save(ctx, result, p.cfg.ResultTTL); err != nil {
		logx.WithFields(jobFields(info)).WithError(err).Error("failed to store FAILED translation result")
		return err
	}

	logx.WithFields(jobFields(info)).WithError(cause).
		WithField("state", translation.StateFailedTerminal).
		Warn("translation failed")
	return nil
}

// HandleSettled sends the completion notification for the stored record. It
// runs after the job was acknowledged, so a slow notifier never holds a lease.
func (p *Processor) HandleSettled(ctx context.Context, info *jobx.JobInfo) {
	if p.notifier == nil {
		return
	}
	var job translation.Job
	if err := json.Unmarshal(info.Payload, &job); err != nil || job.DeliveryToken == "" {
		return
	}

	result, err := p.results.FindByJobID(ctx, info.ID)
	if err != nil {
		logx.WithFields(jobFields(info)).WithError(err).Warn("no translation result to notify about")
		return
	}
	p.notify(ctx, job.DeliveryToken, result)
}

// notify is best effort. Failures never touch the stored result.
func (p *Processor) notify(ctx context.Context, token string, result *translation.Result) {

	ctx, cancel := context.WithTimeout(ctx, p.cfg.NotifyTimeout)
	defer cancel()

	if err := p.notifier.NotifyCompletion(ctx, token, result); err != nil {
		logx.WithError(err).WithField("job_id", result.JobID).Warn("translation notification failed")
		return
	}
	logx.WithField("job_id", result.JobID).Debug("translation notification sent")
}

func (p *Processor) logFailedAttempt(info *jobx.JobInfo, err error) {
	entry := logx.WithFields(jobFields(info)).WithError(err)
	if info.Exhausted() {
		entry.Warn("translation attempt failed, no attempts left")
		return
	}
	entry.WithField("state", translation.StateRetryScheduled).Warn("translation attempt failed")
}

func decodeJob(info *jobx.JobInfo) (translation.Job, error) {
	var job translation.Job
	if err := json.Unmarshal(info.Payload, &job); err != nil {
		return job, translation.ErrInvalidPayload(err)
	}
	if job.OriginalText == "" || job.TargetLanguage == "" {
		return job, translation.ErrInvalidPayload(nil).WithDetail("reason", "missing text or target language")
	}
	return job, nil
}

func jobFields(info *jobx.JobInfo) logx.Fields {
	return logx.Fields{
		"job_id":       info.ID,
		"attempt":      info.Attempts,
		"max_attempts": info.MaxAttempts,
	}
}
