package events

import (
	"strconv"

	"unibase/internal/models"
)

func (e *Emitter) DocumentCreated(actorID string, doc models.Document) {
	e.documentEvent("document.created", actorID, doc)
}

func (e *Emitter) DocumentUpdated(actorID string, doc models.Document) {
	e.documentEvent("document.updated", actorID, doc)
}

func (e *Emitter) DocumentDeleted(actorID string, doc models.Document) {
	e.documentEvent("document.deleted", actorID, doc)
}

func (e *Emitter) documentEvent(action string, actorID string, doc models.Document) {
	e.Emit(models.Event{
		Action:     action,
		ActorID:    actorID,
		ActorRole:  ActorUser,
		TargetID:   strconv.FormatInt(doc.ID, 10),
		TargetType: TargetDocument,
		Props: map[string]any{
			"collection": doc.Name,
			"tenant":     doc.TenantID,
		},
	})
}
