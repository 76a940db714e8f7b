package documents

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo"

	"unibase/internal/errmsg"
	"unibase/internal/events"
	"unibase/internal/logger"
	"unibase/internal/models"
	"unibase/internal/utils"
)

// Notifier is the fan-out stage. Publishing must never fail the mutation,
// so the contract has no error return.
type Notifier interface {
	Publish(ev models.ChangeEvent)
}

type handler struct {
	store    *Store
	notifier Notifier
	em       *events.Emitter
}

func Routes(app fiber.Router, store *Store, notifier Notifier, em *events.Emitter) {
	h := &handler{store: store, notifier: notifier, em: em}

	group := app.Group("/db", models.AccountMiddleware)
	group.Post("/:collection", h.create)
	group.Get("/:collection", h.list)
	group.Put("/:collection/:id", h.update)
	group.Delete("/:collection/:id", h.delete)
}

func (h *handler) create(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	var body struct {
		Name string         `json:"name"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.InvalidBody)
	}

	collection := c.Params("collection")
	if collection == "" {
		return utils.StatusError(c, errmsg.DocumentNameMissing)
	}
	// The collection travels both in the path and the body; a disagreement
	// means the client routed one thing and asked to store another.
	if body.Name != collection {
		return utils.StatusError(c, errmsg.DocumentNameMismatch)
	}

	doc, err := h.store.Create(c.RequestCtx(), collection, body.Data, principal)
	if err != nil {
		logger.Sugar.Errorw("document create failed", "collection", collection, "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("database"))
	}

	h.publish(doc, models.ActionCreate, doc.Data)
	h.em.DocumentCreated(principal.ID, doc)

	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *handler) list(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	docs, err := h.store.List(c.RequestCtx(), c.Params("collection"), principal)
	if err != nil {
		logger.Sugar.Errorw("document list failed", "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("database"))
	}

	return c.JSON(docs)
}

func (h *handler) update(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	id, serr := parseID(c)
	if serr != nil {
		return utils.StatusError(c, *serr)
	}

	var body struct {
		Data map[string]any `json:"data"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return utils.StatusError(c, errmsg.InvalidBody)
		}
	}

	doc, err := h.store.Update(c.RequestCtx(), c.Params("collection"), id, body.Data, principal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.StatusError(c, errmsg.DocumentNotFound)
	}
	if err != nil {
		logger.Sugar.Errorw("document update failed", "id", id, "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("database"))
	}

	// Even a payload-less update emits: subscribers tracking the document
	// get one event per committed operation, always.
	h.publish(doc, models.ActionUpdate, doc.Data)
	h.em.DocumentUpdated(principal.ID, doc)

	return c.JSON(doc)
}

func (h *handler) delete(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	id, serr := parseID(c)
	if serr != nil {
		return utils.StatusError(c, *serr)
	}

	doc, err := h.store.Delete(c.RequestCtx(), c.Params("collection"), id, principal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.StatusError(c, errmsg.DocumentNotFound)
	}
	if err != nil {
		logger.Sugar.Errorw("document delete failed", "id", id, "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("database"))
	}

	h.publish(doc, models.ActionDelete, nil)
	h.em.DocumentDeleted(principal.ID, doc)

	return c.JSON(fiber.Map{"detail": "Deleted"})
}

// publish pushes the change into the fan-out stage before the HTTP reply is
// written. The room key comes from the stored document's owner, never from
// the payload.
func (h *handler) publish(doc models.Document, action string, data map[string]any) {
	h.notifier.Publish(models.ChangeEvent{
		Collection: doc.Name,
		Action:     action,
		ID:         doc.ID,
		Data:       data,
		OwnerID:    doc.UserID,
	})
}

func parseID(c fiber.Ctx) (int64, *errmsg.StatusError) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, &errmsg.DocumentInvalidID
	}
	return id, nil
}
