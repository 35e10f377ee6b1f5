package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/models"
	"github.com/vysogota0399/transactions_api/internal/validation"
)

type GetTransactionsHandler struct {
	lg         *logging.ZapLogger
	repository TransactionsRepository
}

type TransactionsRepository interface {
	List(ctx context.Context) ([]*models.Transaction, error)
	Find(ctx context.Context, id string) (*models.Transaction, error)
}

func NewGetTransactionsHandler(repository TransactionsRepository, lg *logging.ZapLogger) *GetTransactionsHandler {
	return &GetTransactionsHandler{lg: lg, repository: repository}
}

func (h *GetTransactionsHandler) ListTransactions(c *fiber.Ctx) error {
	list, err := h.repository.List(c.UserContext())
	if err != nil {
		h.lg.ErrorCtx(c.UserContext(), "list transactions failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error.")
	}

	return c.JSON(fiber.Map{"transactions": list})
}

func (h *GetTransactionsHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return validation.NewError("id", "Invalid uuid")
	}

	tr, err := h.repository.Find(c.UserContext(), id.String())
	if err != nil {
		h.lg.ErrorCtx(c.UserContext(), "find transaction failed", zap.Error(err), zap.String("id", id.String()))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error.")
	}

	if tr == nil {
		return fiber.NewError(fiber.StatusNotFound, "Transaction not found.")
	}

	return c.JSON(fiber.Map{"transaction": tr})
}
