package jobs

import (
	"context"

	"unibase/internal/logger"
)

// Handler executes one job out of process from the request that queued it.
type Handler func(ctx context.Context, args map[string]any) error

// Registry maps job names to handlers. Dispatch is refused for names that
// were never registered.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register("send_email", sendEmail)
	return r
}

func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

func (r *Registry) handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// sendEmail is a stand-in delivery: it records the send instead of talking
// to an SMTP relay.
func sendEmail(ctx context.Context, args map[string]any) error {
	logger.Sugar.Infow("sending email",
		"to", args["to"],
		"subject", args["subject"],
	)
	return nil
}
