package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/models"
	"github.com/vysogota0399/transactions_api/internal/storage"
)

type TransactionsRepository struct {
	strg TransactionsStorage
	lg   *logging.ZapLogger
}

type TransactionsStorage interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func NewTransactionsRepository(strg *storage.Storage, lg *logging.ZapLogger) *TransactionsRepository {
	return &TransactionsRepository{strg: strg, lg: lg}
}

func (rep *TransactionsRepository) Create(ctx context.Context, in *models.Transaction) error {
	rep.lg.DebugCtx(
		ctx,
		"insert transaction query",
		zap.String("id", in.ID),
		zap.String("type", string(in.Type)),
		zap.Stringer("amount", in.Amount),
	)

	_, err := rep.strg.ExecContext(
		ctx,
		`
			INSERT INTO transactions(id, title, amount, type, created_at)
			VALUES (?, ?, ?, ?, ?)
		`,
		in.ID, in.Title, in.Amount, string(in.Type), in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("transactions_repository: create transaction record error %w", err)
	}

	return nil
}

// Find returns nil, nil when no transaction has the given id.
func (rep *TransactionsRepository) Find(ctx context.Context, id string) (*models.Transaction, error) {
	row := rep.strg.QueryRowContext(
		ctx,
		`
			SELECT id, title, amount, type, created_at
			FROM transactions
			WHERE id = ?
		`,
		id,
	)

	tr := &models.Transaction{}
	if err := row.Scan(&tr.ID, &tr.Title, &tr.Amount, &tr.Type, &tr.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("transactions_repository: scan transaction error %w", err)
	}

	return tr, nil
}

func (rep *TransactionsRepository) List(ctx context.Context) ([]*models.Transaction, error) {
	rows, err := rep.strg.QueryContext(
		ctx,
		`
			SELECT id, title, amount, type, created_at
			FROM transactions
			ORDER BY created_at DESC, id ASC
		`,
	)
	if err != nil {
		return nil, fmt.Errorf("transactions_repository: fetch transactions error %w", err)
	}
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		tr := &models.Transaction{}
		if err := rows.Scan(
			&tr.ID,
			&tr.Title,
			&tr.Amount,
			&tr.Type,
			&tr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("transactions_repository: scan transactions error %w", err)
		}

		transactions = append(transactions, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transactions_repository: iterate transactions error %w", err)
	}

	return transactions, nil
}

// Summary adds up stored amounts with decimal arithmetic, since SQLite
// aggregates NUMERIC columns as floats. Debits are stored negated, so Amount
// is the balance and Debit is reported as a non-negative total.
func (rep *TransactionsRepository) Summary(ctx context.Context) (*models.Summary, error) {
	rows, err := rep.strg.QueryContext(
		ctx,
		`
			SELECT type, amount
			FROM transactions
		`,
	)
	if err != nil {
		return nil, fmt.Errorf("transactions_repository: fetch amounts error %w", err)
	}
	defer rows.Close()

	s := &models.Summary{Amount: decimal.Zero, Credit: decimal.Zero, Debit: decimal.Zero}
	for rows.Next() {
		var (
			tp     models.TransactionType
			amount decimal.Decimal
		)
		if err := rows.Scan(&tp, &amount); err != nil {
			return nil, fmt.Errorf("transactions_repository: calc summary error %w", err)
		}

		s.Amount = s.Amount.Add(amount)
		switch tp {
		case models.TransactionCredit:
			s.Credit = s.Credit.Add(amount)
		case models.TransactionDebit:
			s.Debit = s.Debit.Sub(amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transactions_repository: iterate amounts error %w", err)
	}

	return s, nil
}
