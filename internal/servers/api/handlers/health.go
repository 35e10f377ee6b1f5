package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vysogota0399/transactions_api/internal/logging"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	lg *logging.ZapLogger
	db Pinger
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func NewHealthHandler(db Pinger, lg *logging.ZapLogger) *HealthHandler {
	return &HealthHandler{lg: lg, db: db}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.lg.WarnCtx(ctx, "health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}

	return c.JSON(fiber.Map{"ok": true})
}
