package models

import (
	"strings"
	"time"

	sj "github.com/brianvoe/sjwt"
	"github.com/gofiber/fiber/v3"

	"unibase/internal/env"
	"unibase/internal/errmsg"
	"unibase/internal/utils"
)

// User is the persisted account record. The password hash never leaves the
// process.
type User struct {
	ID       string `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
	Password string `json:"-" bson:"password"`
	IsActive bool   `json:"is_active" bson:"isActive"`
	TenantID string `json:"tenant_id" bson:"tenantID"`
}

// Principal is the authenticated identity carried through a request. Owner
// and tenant scoping of every store call comes from here, never from the
// request body.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	TenantID string `json:"tenant_id"`
	IsActive bool   `json:"is_active"`
}

func (u User) Principal() Principal {
	return Principal{
		ID:       u.ID,
		Username: u.Username,
		TenantID: u.TenantID,
		IsActive: u.IsActive,
	}
}

func (p *Principal) GenToken() string {
	claims, _ := sj.ToClaims(p)
	claims.SetExpiresAt(time.Now().Add(365 * 24 * time.Hour))

	return claims.Generate(env.JWT_SECRET)
}

func (p *Principal) ParseToken(token string) error {
	if !sj.Verify(token, env.JWT_SECRET) {
		return errmsg.UserInvalidToken
	}

	claims, _ := sj.Parse(token)
	if err := claims.Validate(); err != nil {
		return errmsg.UserInvalidToken
	}
	claims.ToStruct(&p)

	if p.ID == "" {
		return errmsg.UserInvalidToken
	}

	return nil
}

// AccountMiddleware resolves the Principal from the bearer token and stores
// it in locals. Inactive accounts are rejected before any handler runs.
func AccountMiddleware(c fiber.Ctx) error {
	token := bearerToken(c.Get("Authorization"))
	if token == "" {
		return utils.StatusError(c, errmsg.UserNoToken)
	}

	var principal Principal
	if err := principal.ParseToken(token); err != nil {
		return utils.StatusError(c, errmsg.UserInvalidToken)
	}

	if !principal.IsActive {
		return utils.StatusError(c, errmsg.UserInactive)
	}

	utils.SetLocals(c, "principal", principal)

	return c.Next()
}

// WebSocketMiddleware also accepts the token via the `authorization` query
// parameter, since browsers cannot set headers on WebSocket upgrades.
func WebSocketMiddleware(c fiber.Ctx) error {
	token := bearerToken(c.Get("Authorization"))
	if token == "" {
		token = strings.TrimSpace(c.Query("authorization"))
	}
	if token == "" {
		return utils.StatusError(c, errmsg.UserNoToken)
	}

	var principal Principal
	if err := principal.ParseToken(token); err != nil {
		return utils.StatusError(c, errmsg.UserInvalidToken)
	}

	if !principal.IsActive {
		return utils.StatusError(c, errmsg.UserInactive)
	}

	utils.SetLocals(c, "principal", principal)

	return c.Next()
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "Bearer") {
		return ""
	}

	fields := strings.Fields(header)
	if len(fields) != 2 {
		return ""
	}

	return strings.TrimSpace(fields[1])
}
