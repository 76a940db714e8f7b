package events

import "unibase/internal/models"

func (e *Emitter) BlobUploaded(actor models.Principal, fileID string, contentType string) {
	e.Emit(models.Event{
		Action:     "blob.uploaded",
		ActorID:    actor.ID,
		ActorRole:  ActorUser,
		TargetID:   fileID,
		TargetType: TargetBlob,
		Props: map[string]any{
			"content_type": contentType,
		},
	})
}

func (e *Emitter) BlobDeleted(actor models.Principal, fileID string) {
	e.Emit(models.Event{
		Action:     "blob.deleted",
		ActorID:    actor.ID,
		ActorRole:  ActorUser,
		TargetID:   fileID,
		TargetType: TargetBlob,
	})
}
