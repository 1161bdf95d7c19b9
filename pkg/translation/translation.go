// Package translation is the asynchronous translation job domain: what a
// client submits, what a worker writes back, and how the two meet in the
// result store.
package translation

import "time"

type ResultStatus string

const (
	StatusCompleted ResultStatus = "COMPLETED"
	StatusFailed    ResultStatus = "FAILED"
)

// WorkerState is the per-job lifecycle on the worker side. Only the result
// record is persisted; states are reported through logs.
type WorkerState string

const (
	StateReceived       WorkerState = "RECEIVED"
	StateTranslating    WorkerState = "TRANSLATING"
	StateSucceeded      WorkerState = "SUCCEEDED"
	StateRetryScheduled WorkerState = "RETRY_SCHEDULED"
	StateFailedTerminal WorkerState = "FAILED_TERMINAL"
)

// SubmitStatus is the only status returned on submission.
const SubmitStatus = "QUEUED"

// Job is the payload carried by the queue. The job id and attempt counter
// belong to the queue envelope.
type Job struct {
	OriginalText   string  `json:"originalText"`
	SourceLanguage *string `json:"sourceLanguage"`
	TargetLanguage string  `json:"targetLanguage"`
	DeliveryToken  string  `json:"deliveryToken,omitempty"`
}

// Result is the record a worker writes once a job reached a final state.
// A missing record means the job is still pending or the id is unknown.
type Result struct {
	JobID          string       `json:"jobId"`
	OriginalText   string       `json:"originalText"`
	SourceLanguage *string      `json:"sourceLanguage"`
	TargetLanguage string       `json:"targetLanguage"`
	TranslatedText string       `json:"translatedText,omitempty"`
	Status         ResultStatus `json:"status"`
	CompletedAt    time.Time    `json:"completedAt"`
}

func (r *Result) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// NewCompletedResult builds the success record for job.
func NewCompletedResult(jobID string, job Job, translated string, at time.Time) *Result {
	return &Result{
		JobID:          jobID,
		OriginalText:   job.OriginalText,
		SourceLanguage: job.SourceLanguage,
		TargetLanguage: job.TargetLanguage,
		TranslatedText: translated,
		Status:         StatusCompleted,
		CompletedAt:    at.UTC(),
	}
}

// NewFailedResult builds the terminal failure record for job. It never
// carries a translation.
func NewFailedResult(jobID string, job Job, at time.Time) *Result {
	return &Result{
		JobID:          jobID,
		OriginalText:   job.OriginalText,
		SourceLanguage: job.SourceLanguage,
		TargetLanguage: job.TargetLanguage,
		Status:         StatusFailed,
		CompletedAt:    at.UTC(),
	}
}

// ============================================================================
// Requests / responses
// ============================================================================

type SubmitRequest struct {
	Text           string  `json:"text"`
	SourceLanguage *string `json:"sourceLanguage"`
	TargetLanguage string  `json:"targetLanguage"`
	DeliveryToken  string  `json:"deliveryToken"`
}

type SubmitResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type TranslateRequest struct {
	Text           string  `json:"text"`
	SourceLanguage *string `json:"sourceLanguage"`
	TargetLanguage string  `json:"targetLanguage"`
}

type TranslateResponse struct {
	OriginalText   string  `json:"originalText"`
	TranslatedText string  `json:"translatedText"`
	SourceLanguage *string `json:"sourceLanguage"`
	TargetLanguage string  `json:"targetLanguage"`
}

// CompletionNotice is the data handed to the notification template.
type CompletionNotice struct {
	JobID          string
	Status         ResultStatus
	TargetLanguage string
	LanguageName   string
	TranslatedText string
}
