package transactions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vysogota0399/transactions_api/internal/models"
	"github.com/vysogota0399/transactions_api/internal/validation"
)

func TestParseNewTransaction_Valid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		title  string
		amount string
		tp     models.TransactionType
	}{
		{
			name:   "credit",
			body:   `{"title":"Salary","amount":5000,"type":"credit"}`,
			title:  "Salary",
			amount: "5000",
			tp:     models.TransactionCredit,
		},
		{
			name:   "debit with fraction",
			body:   `{"title":"Rent","amount":1200.5,"type":"debit"}`,
			title:  "Rent",
			amount: "1200.5",
			tp:     models.TransactionDebit,
		},
		{
			name:   "empty title is a string",
			body:   `{"title":"","amount":10,"type":"credit"}`,
			title:  "",
			amount: "10",
			tp:     models.TransactionCredit,
		},
		{
			name:   "negative amount is accepted",
			body:   `{"title":"Refund","amount":-30,"type":"credit"}`,
			title:  "Refund",
			amount: "-30",
			tp:     models.TransactionCredit,
		},
		{
			name:   "zero amount",
			body:   `{"title":"Noop","amount":0,"type":"debit"}`,
			title:  "Noop",
			amount: "0",
			tp:     models.TransactionDebit,
		},
		{
			name:   "unknown fields are ignored",
			body:   `{"title":"Salary","amount":1,"type":"credit","category":"job"}`,
			title:  "Salary",
			amount: "1",
			tp:     models.TransactionCredit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNewTransaction([]byte(tt.body))
			require.NoError(t, err)

			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, tt.amount, got.Amount.String())
			assert.Equal(t, tt.tp, got.Type)
		})
	}
}

func TestParseNewTransaction_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		issues []validation.Issue
	}{
		{
			name:   "missing type",
			body:   `{"title":"Salary","amount":5000}`,
			issues: []validation.Issue{{Path: "type", Message: "Required"}},
		},
		{
			name: "missing everything",
			body: `{}`,
			issues: []validation.Issue{
				{Path: "title", Message: "Required"},
				{Path: "amount", Message: "Required"},
				{Path: "type", Message: "Required"},
			},
		},
		{
			name: "null body",
			body: `null`,
			issues: []validation.Issue{
				{Path: "title", Message: "Required"},
				{Path: "amount", Message: "Required"},
				{Path: "type", Message: "Required"},
			},
		},
		{
			name:   "unknown type",
			body:   `{"title":"Salary","amount":5000,"type":"transfer"}`,
			issues: []validation.Issue{{Path: "type", Message: "Invalid enum value. Expected 'credit' | 'debit', received 'transfer'"}},
		},
		{
			name:   "title is not a string",
			body:   `{"title":42,"amount":5000,"type":"credit"}`,
			issues: []validation.Issue{{Path: "title", Message: "Expected string, received number"}},
		},
		{
			name:   "amount is a numeric string",
			body:   `{"title":"Salary","amount":"5000","type":"credit"}`,
			issues: []validation.Issue{{Path: "amount", Message: "Expected number, received string"}},
		},
		{
			name:   "null amount",
			body:   `{"title":"Salary","amount":null,"type":"credit"}`,
			issues: []validation.Issue{{Path: "amount", Message: "Required"}},
		},
		{
			name:   "type is not a string",
			body:   `{"title":"Salary","amount":1,"type":true}`,
			issues: []validation.Issue{{Path: "type", Message: "Expected string, received bool"}},
		},
		{
			name:   "array body",
			body:   `[]`,
			issues: []validation.Issue{{Path: "", Message: "Expected object, received array"}},
		},
		{
			name:   "empty body",
			body:   ``,
			issues: []validation.Issue{{Path: "", Message: "Expected object, received nothing"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNewTransaction([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, got)

			var verr *validation.Error
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.issues, verr.Issues)
		})
	}
}

func TestParseNewTransaction_MalformedJSON(t *testing.T) {
	_, err := ParseNewTransaction([]byte(`{"title":`))

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Issues, 1)
	assert.Contains(t, verr.Issues[0].Message, "Invalid JSON")
}
