package events

import (
	"context"
	"time"

	"unibase/internal/models"
)

const (
	ActorUser   = "user"
	ActorSystem = "system"
)

const (
	TargetDocument = "document"
	TargetUser     = "user"
	TargetJob      = "job"
	TargetBlob     = "blob"
)

func (e *Emitter) Emit(evt models.Event) {
	evt.TimeStamp = time.Now().UTC()

	select {
	case e.queue <- evt:
	default:
		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)
		defer cancel()

		_ = e.InsertOne(ctx, evt)
	}
}
