package events

import "unibase/internal/models"

func (e *Emitter) UserRegistered(user models.User) {
	e.Emit(models.Event{
		Action:     "user.registered",
		ActorID:    user.ID,
		ActorRole:  ActorUser,
		TargetID:   user.ID,
		TargetType: TargetUser,
		Props: map[string]any{
			"username": user.Username,
			"tenant":   user.TenantID,
		},
	})
}

func (e *Emitter) UserLogin(user models.User) {
	e.Emit(models.Event{
		Action:     "user.login",
		ActorID:    user.ID,
		ActorRole:  ActorUser,
		TargetID:   user.ID,
		TargetType: TargetUser,
		Props: map[string]any{
			"username": user.Username,
		},
	})
}
