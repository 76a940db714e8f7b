package events

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"unibase/internal/models"
)

type Config struct {
	Buffer     int
	BatchSize  int
	FlushEvery time.Duration
}

// Emitter records audit events without blocking the request path. Events are
// buffered and flushed in batches by a worker goroutine; when the buffer is
// full the event is inserted directly instead of being dropped.
type Emitter struct {
	coll       *mongo.Collection
	queue      chan models.Event
	cfg        Config
	deployment string

	wg        sync.WaitGroup
	closeOnce sync.Once

	InsertOne  func(context.Context, models.Event) error
	InsertMany func(context.Context, []models.Event) error
}

func NewEmitter(coll *mongo.Collection, deployment string) *Emitter {
	cfg := Config{Buffer: 1000, BatchSize: 50, FlushEvery: 2 * time.Second}
	if deployment == "test" {
		// Short flushes keep test assertions from racing the worker.
		cfg.FlushEvery = 50 * time.Millisecond
	}
	return NewEmitterWithConfig(coll, deployment, cfg)
}

func NewEmitterWithConfig(coll *mongo.Collection, deployment string, cfg Config) *Emitter {
	e := &Emitter{
		coll:       coll,
		queue:      make(chan models.Event, cfg.Buffer),
		cfg:        cfg,
		deployment: deployment,
	}

	e.InsertOne = func(ctx context.Context, evt models.Event) error {
		_, err := e.coll.InsertOne(ctx, evt)
		return err
	}
	e.InsertMany = func(ctx context.Context, evts []models.Event) error {
		docs := make([]interface{}, len(evts))
		for i, evt := range evts {
			docs[i] = evt
		}
		_, err := e.coll.InsertMany(ctx, docs)
		return err
	}

	e.wg.Add(1)
	go e.worker()

	return e
}

// Close drains the buffer and stops the worker. Safe to call twice.
func (e *Emitter) Close() {
	e.closeOnce.Do(func() {
		close(e.queue)
		e.wg.Wait()
	})
}

func (e *Emitter) worker() {
	defer e.wg.Done()

	batch := make([]models.Event, 0, e.cfg.BatchSize)
	timer := time.NewTimer(e.cfg.FlushEvery)
	defer timer.Stop()

	flush := func() {
		if len(batch) > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = e.InsertMany(ctx, batch)
			cancel()

			batch = batch[:0]
		}
		timer.Reset(e.cfg.FlushEvery)
	}

	for {
		select {
		case evt, ok := <-e.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, evt)
			if len(batch) >= e.cfg.BatchSize {
				flush()
			}
		case <-timer.C:
			flush()
		}
	}
}
