package models

import "time"

// Document is one schemaless record inside a named collection. Data is
// stored verbatim; the store never inspects it.
type Document struct {
	ID        int64          `json:"id" bson:"id"`
	Name      string         `json:"name" bson:"name"`
	Data      map[string]any `json:"data" bson:"data"`
	UserID    string         `json:"user_id" bson:"userID"`
	TenantID  string         `json:"tenant_id" bson:"tenantID"`
	CreatedAt time.Time      `json:"created_at" bson:"createdAt"`
	UpdatedAt *time.Time     `json:"updated_at" bson:"updatedAt,omitempty"`
}

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeEvent is the transient frame pushed to realtime subscribers after a
// committed mutation. OwnerID routes the event to the right room and is
// never serialized to the wire.
type ChangeEvent struct {
	Collection string         `json:"collection"`
	Action     string         `json:"action"`
	ID         int64          `json:"id"`
	Data       map[string]any `json:"data"`

	OwnerID string `json:"-"`
}
