package translationsrv

import (
	"context"
	"encoding/json"

	"github.com/rohit9625/natively-backend/pkg/errx"
	"github.com/rohit9625/natively-backend/pkg/jobx"
	"github.com/rohit9625/natively-backend/pkg/logx"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/rohit9625/natively-backend/pkg/translation"
)

// JobQueue is the part of jobx.Client the API side needs.
type JobQueue interface {
	Enqueue(ctx context.Context, job jobx.Job) (string, error)
	ListDead(ctx context.Context, queue string, limit int) ([]jobx.DeadLetter, error)
}

// ServiceConfig carries the queue routing and request limits.
type ServiceConfig struct {
	Queue       string
	JobType     string
	MaxAttempts int
	Limits      translation.Limits
}

// TranslationService is the job API: submit, translate synchronously, poll.
type TranslationService struct {
	jobs       JobQueue
	translator translatex.Translator
	results    translation.ResultRepository
	cfg        ServiceConfig
}

func NewTranslationService(
	jobs JobQueue,
	translator translatex.Translator,
	results translation.ResultRepository,
	cfg ServiceConfig,
) *TranslationService {
	return &TranslationService{
		jobs:       jobs,
		translator: translator,
		results:    results,
		cfg:        cfg,
	}
}

// Submit validates the request and enqueues a job. It returns as soon as the
// job is durably queued.
func (s *TranslationService) Submit(ctx context.Context, req translation.SubmitRequest) (*translation.SubmitResponse, error) {
	if err := req.Validate(s.cfg.Limits); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(translation.Job{
		OriginalText:   req.Text,
		SourceLanguage: translation.NormalizeSource(req.SourceLanguage),
		TargetLanguage: req.TargetLanguage,
		DeliveryToken:  req.DeliveryToken,
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to encode translation job", errx.TypeInternal)
	}

	jobID, err := s.jobs.Enqueue(ctx, jobx.Job{
		Type:        s.cfg.JobType,
		Queue:       s.cfg.Queue,
		Payload:     payload,
		MaxAttempts: s.cfg.MaxAttempts,
	})
	if err != nil {
		return nil, translation.ErrEnqueueFailed(err)
	}

	logx.WithFields(logx.Fields{
		"job_id": jobID,
		"target": req.TargetLanguage,
	}).Info("translation job queued")

	return &translation.SubmitResponse{JobID: jobID, Status: translation.SubmitStatus}, nil
}

// Translate calls the provider directly, bypassing the queue.
func (s *TranslationService) Translate(ctx context.Context, req translation.TranslateRequest) (*translation.TranslateResponse, error) {
	if err := req.Validate(s.cfg.Limits); err != nil {
		return nil, err
	}

	source := translation.NormalizeSource(req.SourceLanguage)
	translated, err := s.translator.Translate(ctx, translatex.Request{
		Text:         req.Text,
		SourceLocale: deref(source),
		TargetLocale: req.TargetLanguage,
		Fast:         true,
	})
	if err != nil {
		return nil, err
	}

	return &translation.TranslateResponse{
		OriginalText:   req.Text,
		TranslatedText: translated,
		SourceLanguage: source,
		TargetLanguage: req.TargetLanguage,
	}, nil
}

// GetStatus returns the stored result. Pending and unknown jobs both yield
// translation.CodeResultNotFound.
func (s *TranslationService) GetStatus(ctx context.Context, jobID string) (*translation.Result, error) {
	if jobID == "" {
		return nil, translation.ErrInvalidRequest("jobId is required")
	}
	return s.results.FindByJobID(ctx, jobID)
}

// ListFailedJobs returns the most recent dead-lettered translation jobs.
func (s *TranslationService) ListFailedJobs(ctx context.Context, limit int) ([]jobx.DeadLetter, error) {
	return s.jobs.ListDead(ctx, s.cfg.Queue, limit)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
