package storage

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"unibase/internal/errmsg"
	"unibase/internal/events"
	"unibase/internal/logger"
	"unibase/internal/models"
	"unibase/internal/utils"
)

type handler struct {
	blobs *BlobStore
	em    *events.Emitter
}

func Routes(app fiber.Router, blobs *BlobStore, em *events.Emitter) {
	h := &handler{blobs: blobs, em: em}

	group := app.Group("/storage", models.AccountMiddleware)
	group.Post("/upload", h.upload)
	group.Get("/:fileID", h.get)
	group.Delete("/:fileID", h.remove)
}

func (h *handler) upload(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.StatusError(c, errmsg.StorageFileMissing)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") &&
		!strings.HasPrefix(contentType, "application/") {
		return utils.StatusError(c, errmsg.StorageFileTypeNotAllowed)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.StatusError(c, errmsg.StorageFileMissing)
	}
	defer file.Close()

	fileID := uuid.NewString()

	if err := h.blobs.Put(
		c.RequestCtx(), principal.ID, fileID, file, fileHeader.Size, contentType,
	); err != nil {
		logger.Sugar.Errorw("blob upload failed", "file", fileID, "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("object storage"))
	}

	url, err := h.blobs.PresignGet(c.RequestCtx(), principal.ID, fileID)
	if err != nil {
		logger.Sugar.Errorw("blob presign failed", "file", fileID, "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("object storage"))
	}

	h.em.BlobUploaded(principal, fileID, contentType)

	return c.JSON(fiber.Map{
		"file_id": fileID,
		"url":     url,
	})
}

func (h *handler) get(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	url, err := h.blobs.PresignGet(c.RequestCtx(), principal.ID, c.Params("fileID"))
	if errors.Is(err, ErrBlobNotFound) {
		return utils.StatusError(c, errmsg.StorageFileNotFound)
	}
	if err != nil {
		logger.Sugar.Errorw("blob presign failed", "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("object storage"))
	}

	return c.JSON(fiber.Map{"url": url})
}

func (h *handler) remove(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	fileID := c.Params("fileID")

	err := h.blobs.Remove(c.RequestCtx(), principal.ID, fileID)
	if errors.Is(err, ErrBlobNotFound) {
		return utils.StatusError(c, errmsg.StorageFileNotFound)
	}
	if err != nil {
		logger.Sugar.Errorw("blob delete failed", "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("object storage"))
	}

	h.em.BlobDeleted(principal, fileID)

	return c.JSON(fiber.Map{"detail": "Deleted"})
}
