package auth

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"unibase/internal/db"
	"unibase/internal/env"
	"unibase/internal/errmsg"
	"unibase/internal/events"
	"unibase/internal/logger"
	"unibase/internal/models"
	"unibase/internal/utils"
)

type handler struct {
	db *db.DB
	em *events.Emitter
}

func (h *handler) register(c fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.UserInvalidPayload)
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.TrimSpace(body.Email)
	if body.Username == "" || body.Email == "" || body.Password == "" {
		return utils.StatusError(c, errmsg.UserInvalidPayload)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	user := models.User{
		ID:       uuid.NewString(),
		Username: body.Username,
		Email:    body.Email,
		Password: string(hashed),
		IsActive: true,
		TenantID: env.TENANT_ID,
	}

	if _, err := h.db.Users.InsertOne(c.RequestCtx(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.StatusError(c, errmsg.UserAlreadyExists)
		}
		logger.Sugar.Errorw("user insert failed", "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("database"))
	}

	h.em.UserRegistered(user)

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *handler) login(c fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.UserInvalidPayload)
	}

	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" || body.Password == "" {
		return utils.StatusError(c, errmsg.UserInvalidPayload)
	}

	var user models.User
	err := h.db.Users.FindOne(c.RequestCtx(), bson.M{
		"username": body.Username,
	}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.StatusError(c, errmsg.UserWrongPassword)
	}
	if err != nil {
		logger.Sugar.Errorw("user lookup failed", "error", err)
		return utils.StatusError(c, errmsg.UpstreamUnavailable("database"))
	}

	if bcrypt.CompareHashAndPassword(
		[]byte(user.Password),
		[]byte(body.Password),
	) != nil {
		return utils.StatusError(c, errmsg.UserWrongPassword)
	}

	principal := user.Principal()
	token := principal.GenToken()

	h.em.UserLogin(user)

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (h *handler) me(c fiber.Ctx) error {
	var principal models.Principal
	utils.GetLocals(c, "principal", &principal)

	return c.JSON(principal)
}
