package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"unibase/internal/models"
)

const queueKey = "unibase:jobs"

// Dispatcher enqueues jobs on the Redis broker and hands the caller a job
// handle right away; execution happens on the worker pool.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) Dispatch(
	ctx context.Context,
	name string,
	args map[string]any,
) (models.Job, error) {
	job := models.Job{
		ID:         uuid.NewString(),
		Name:       name,
		Args:       args,
		EnqueuedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return models.Job{}, err
	}

	if err := d.rdb.LPush(ctx, queueKey, payload).Err(); err != nil {
		return models.Job{}, err
	}

	return job, nil
}
