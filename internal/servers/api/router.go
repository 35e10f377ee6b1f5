package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/servers/api/handlers"
	"github.com/vysogota0399/transactions_api/internal/validation"
)

const requestIDHeader = "X-Request-Id"

type Handlers struct {
	Create       *handlers.CreateTransactionHandler
	Transactions *handlers.GetTransactionsHandler
	Summary      *handlers.GetSummaryHandler
	Health       *handlers.HealthHandler
}

func NewHandlers(
	create *handlers.CreateTransactionHandler,
	transactions *handlers.GetTransactionsHandler,
	summary *handlers.GetSummaryHandler,
	health *handlers.HealthHandler,
) *Handlers {
	return &Handlers{Create: create, Transactions: transactions, Summary: summary, Health: health}
}

func NewRouter(h *Handlers, lg *logging.ZapLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "transactions_api",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(lg),
	})

	app.Use(requestLogger(lg))

	app.Get("/health", h.Health.Health)

	tr := app.Group("/transactions")
	tr.Post("/", h.Create.CreateTransaction)
	tr.Get("/", h.Transactions.ListTransactions)
	tr.Get("/summary", h.Summary.GetSummary)
	tr.Get("/:id", h.Transactions.GetTransaction)

	return app
}

func errorHandler(lg *logging.ZapLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation error.",
				"issues":  verr.Issues,
			})
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(fiber.Map{"message": ferr.Message})
		}

		lg.ErrorCtx(c.UserContext(), "unhandled request error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error."})
	}
}

func requestLogger(lg *logging.ZapLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDHeader, requestID)
		c.SetUserContext(lg.WithContextFields(c.UserContext(), zap.String("request_id", requestID)))

		// status is only known once the error handler ran
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		lg.InfoCtx(
			c.UserContext(),
			"request handled",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)

		return nil
	}
}
