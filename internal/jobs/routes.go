package jobs

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"unibase/internal/errmsg"
	"unibase/internal/events"
	"unibase/internal/logger"
	"unibase/internal/models"
	"unibase/internal/utils"
)

type handler struct {
	dispatcher *Dispatcher
	registry   *Registry
	em         *events.Emitter
}

func Routes(app fiber.Router, dispatcher *Dispatcher, registry *Registry, em *events.Emitter) {
	h := &handler{dispatcher: dispatcher, registry: registry, em: em}

	group := app.Group("/functions", models.AccountMiddleware)
	group.Post("/:name/run", h.run)
}

func (h *handler) run(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	name := c.Params("name")
	if !h.registry.Has(name) {
		return utils.StatusError(c, errmsg.FunctionNotFound)
	}

	args := map[string]any{}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &args); err != nil {
			return utils.StatusError(c, errmsg.InvalidBody)
		}
	}

	job, err := h.dispatcher.Dispatch(c.RequestCtx(), name, args)
	if err != nil {
		logger.Sugar.Errorw("job dispatch failed", "name", name, "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("job broker"))
	}

	h.em.JobDispatched(principal.ID, job)

	return c.JSON(fiber.Map{
		"task_id": job.ID,
		"status":  "queued",
	})
}
