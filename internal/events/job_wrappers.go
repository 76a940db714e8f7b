package events

import "unibase/internal/models"

func (e *Emitter) JobDispatched(actorID string, job models.Job) {
	e.Emit(models.Event{
		Action:     "job.dispatched",
		ActorID:    actorID,
		ActorRole:  ActorUser,
		TargetID:   job.ID,
		TargetType: TargetJob,
		Props: map[string]any{
			"name": job.Name,
		},
	})
}
