package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"unibase/internal/logger"
	"unibase/internal/models"
)

const jobTimeout = 30 * time.Second

// Pool consumes the job queue with a fixed number of workers. Handler
// failures are logged and the job is discarded; there is no result backend
// and no retry.
type Pool struct {
	rdb      *redis.Client
	registry *Registry
	workers  int
}

func NewPool(rdb *redis.Client, registry *Registry, workers int) *Pool {
	return &Pool{
		rdb:      rdb,
		registry: registry,
		workers:  workers,
	}
}

// Start launches the workers. They stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.run(ctx)
	}
}

func (p *Pool) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		result, err := p.rdb.BRPop(ctx, 5*time.Second, queueKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Sugar.Errorw("job queue read failed", "error", err)
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [key, value].
		if len(result) != 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			logger.Sugar.Errorw("job envelope unmarshal failed", "error", err)
			continue
		}

		p.execute(ctx, job)
	}
}

func (p *Pool) execute(ctx context.Context, job models.Job) {
	handler, ok := p.registry.handler(job.Name)
	if !ok {
		logger.Sugar.Warnw("no handler for job", "job", job.ID, "name", job.Name)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if err := handler(runCtx, job.Args); err != nil {
		logger.Sugar.Errorw("job failed", "job", job.ID, "name", job.Name, "error", err)
		return
	}

	logger.Sugar.Infow("job done", "job", job.ID, "name", job.Name)
}
