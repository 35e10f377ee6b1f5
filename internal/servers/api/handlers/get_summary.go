package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/models"
)

type GetSummaryHandler struct {
	lg         *logging.ZapLogger
	repository SummaryRepository
}

type SummaryRepository interface {
	Summary(ctx context.Context) (*models.Summary, error)
}

func NewGetSummaryHandler(repository SummaryRepository, lg *logging.ZapLogger) *GetSummaryHandler {
	return &GetSummaryHandler{lg: lg, repository: repository}
}

func (h *GetSummaryHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.repository.Summary(c.UserContext())
	if err != nil {
		h.lg.ErrorCtx(c.UserContext(), "calculate summary failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error.")
	}

	return c.JSON(fiber.Map{"summary": summary})
}
