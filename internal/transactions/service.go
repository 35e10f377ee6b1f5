package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/models"
	"github.com/vysogota0399/transactions_api/internal/validation"
)

type Repository interface {
	Create(ctx context.Context, in *models.Transaction) error
}

type Service struct {
	repository Repository
	lg         *logging.ZapLogger

	newID func() string
	now   func() time.Time
}

func NewService(repository Repository, lg *logging.ZapLogger) *Service {
	return &Service{
		repository: repository,
		lg:         lg,
		newID:      uuid.NewString,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SignedAmount applies the sign rule: credits keep the submitted amount,
// debits are negated whatever sign they arrive with.
func SignedAmount(tp models.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if tp == models.TransactionDebit {
		return amount.Neg()
	}

	return amount
}

// Ingest stores one new transaction. Each call writes exactly one row under a
// fresh id; identical requests are not deduplicated.
func (s *Service) Ingest(ctx context.Context, in *NewTransaction) (*models.Transaction, error) {
	if !in.Type.Valid() {
		return nil, validation.NewError("type", fmt.Sprintf("Invalid enum value. Expected 'credit' | 'debit', received '%s'", in.Type))
	}

	tr := &models.Transaction{
		ID:        s.newID(),
		Title:     in.Title,
		Amount:    SignedAmount(in.Type, in.Amount),
		Type:      in.Type,
		CreatedAt: s.now(),
	}

	if err := s.repository.Create(ctx, tr); err != nil {
		return nil, fmt.Errorf("transactions: ingest error %w", err)
	}

	s.lg.InfoCtx(
		ctx,
		"transaction created",
		zap.String("transaction_id", tr.ID),
		zap.String("type", string(tr.Type)),
		zap.Stringer("amount", tr.Amount),
	)

	return tr, nil
}
