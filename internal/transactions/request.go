package transactions

import (
	"github.com/shopspring/decimal"

	"github.com/vysogota0399/transactions_api/internal/models"
	"github.com/vysogota0399/transactions_api/internal/validation"
)

// createTransactionBody mirrors the wire shape. Pointers tell a missing field
// apart from a zero value; wrong JSON types fail while decoding.
type createTransactionBody struct {
	Title  *string  `json:"title" validate:"required"`
	Amount *float64 `json:"amount" validate:"required,finite"`
	Type   *string  `json:"type" validate:"required,oneof=credit debit"`
}

// NewTransaction is a validated ingest request. Amount is the value as
// submitted, before sign normalization.
type NewTransaction struct {
	Title  string
	Amount decimal.Decimal
	Type   models.TransactionType
}

// ParseNewTransaction decodes and validates a JSON ingest request. Every
// failure is a *validation.Error.
func ParseNewTransaction(body []byte) (*NewTransaction, error) {
	in := createTransactionBody{}
	if err := validation.DecodeJSON(body, &in); err != nil {
		return nil, err
	}

	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	return &NewTransaction{
		Title:  *in.Title,
		Amount: decimal.NewFromFloat(*in.Amount),
		Type:   models.TransactionType(*in.Type),
	}, nil
}
