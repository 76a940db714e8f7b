package models

import "time"

// Job is the envelope queued for the background worker pool. There is no
// result backend; the handle id is returned to the caller immediately.
type Job struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Args       map[string]any `json:"args"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}
