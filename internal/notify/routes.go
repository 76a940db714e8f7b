package notify

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"

	"unibase/internal/errmsg"
	"unibase/internal/events"
	"unibase/internal/jobs"
	"unibase/internal/logger"
	"unibase/internal/models"
	"unibase/internal/utils"
)

type handler struct {
	dispatcher *jobs.Dispatcher
	em         *events.Emitter
}

func Routes(app fiber.Router, dispatcher *jobs.Dispatcher, em *events.Emitter) {
	h := &handler{dispatcher: dispatcher, em: em}

	group := app.Group("/notify", models.AccountMiddleware)
	group.Post("/email", h.email)
}

func (h *handler) email(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	var body struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.NotifyInvalidPayload)
	}

	if strings.TrimSpace(body.To) == "" || body.Subject == "" || body.Body == "" {
		return utils.StatusError(c, errmsg.NotifyInvalidPayload)
	}

	job, err := h.dispatcher.Dispatch(c.RequestCtx(), "send_email", map[string]any{
		"to":      body.To,
		"subject": body.Subject,
		"body":    body.Body,
	})
	if err != nil {
		logger.Sugar.Errorw("email dispatch failed", "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("job broker"))
	}

	h.em.JobDispatched(principal.ID, job)

	return c.JSON(fiber.Map{
		"task_id": job.ID,
		"status":  "sent",
	})
}
