package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/models"
	"github.com/vysogota0399/transactions_api/internal/transactions"
	"github.com/vysogota0399/transactions_api/internal/validation"
)

type CreateTransactionHandler struct {
	lg       *logging.ZapLogger
	ingester Ingester
}

type Ingester interface {
	Ingest(ctx context.Context, in *transactions.NewTransaction) (*models.Transaction, error)
}

func NewCreateTransactionHandler(ingester Ingester, lg *logging.ZapLogger) *CreateTransactionHandler {
	return &CreateTransactionHandler{lg: lg, ingester: ingester}
}

// CreateTransaction answers 201 with an empty body.
func (h *CreateTransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	if ct != "" && !strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "Content-Type must be application/json")
	}

	in, err := transactions.ParseNewTransaction(c.Body())
	if err != nil {
		return err
	}

	if _, err := h.ingester.Ingest(c.UserContext(), in); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return err
		}

		h.lg.ErrorCtx(c.UserContext(), "create transaction failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error.")
	}

	return c.Status(fiber.StatusCreated).Send(nil)
}
