package translationinfra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rohit9625/natively-backend/pkg/errx"
	"github.com/rohit9625/natively-backend/pkg/storex"
	"github.com/rohit9625/natively-backend/pkg/translation"
)

const keyPrefix = "translation:result:"

// StoreResultRepository keeps results as JSON documents in a storex.Store.
type StoreResultRepository struct {
	store storex.Store
}

func NewStoreResultRepository(store storex.Store) translation.ResultRepository {
	return &StoreResultRepository{store: store}
}

// ResultKey is the store key for a job's result.
func ResultKey(jobID string) string {
	return keyPrefix + jobID
}

func (r *StoreResultRepository) Save(ctx context.Context, result *translation.Result, ttl time.Duration) error {
	b, err := json.Marshal(result)
	if err != nil {
		return errx.Wrap(err, "failed to encode translation result", errx.TypeInternal).
			WithDetail("job_id", result.JobID)
	}
	return r.store.Put(ctx, ResultKey(result.JobID), b, ttl)
}

func (r *StoreResultRepository) FindByJobID(ctx context.Context, jobID string) (*translation.Result, error) {
	b, err := r.store.Get(ctx, ResultKey(jobID))
	if err != nil {
		if errx.Is(err, storex.ErrNotFound) {
			return nil, translation.ErrResultNotFound(jobID)
		}
		return nil, err
	}

	var result translation.Result
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, translation.ErrCorruptResult(jobID, err)
	}
	return &result, nil
}

func (r *StoreResultRepository) Exists(ctx context.Context, jobID string) (bool, error) {
	return r.store.Exists(ctx, ResultKey(jobID))
}
