//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vysogota0399/transactions_api/internal/config"
	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/models"
	"github.com/vysogota0399/transactions_api/internal/storage"
)

func setupPostgresContainer(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("transactions_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return dsn
}

func TestIntegration_TransactionsRepository_Postgres(t *testing.T) {
	dsn := setupPostgresContainer(t)
	ctx := context.Background()
	lg := logging.NewNop()

	strg, err := storage.Open(&config.Config{
		DatabaseClient:   config.DatabaseClientPostgres,
		DatabaseURL:      dsn,
		DatabaseMaxConns: 4,
	}, lg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = strg.Close() })

	require.NoError(t, strg.Ping(ctx))
	require.NoError(t, strg.RunMigration())

	rep := NewTransactionsRepository(strg, lg)

	credit := &models.Transaction{
		ID:        uuid.NewString(),
		Title:     "Salary",
		Amount:    decimal.RequireFromString("5000.125"),
		Type:      models.TransactionCredit,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	debit := &models.Transaction{
		ID:        uuid.NewString(),
		Title:     "Rent",
		Amount:    decimal.NewFromInt(-1200),
		Type:      models.TransactionDebit,
		CreatedAt: credit.CreatedAt.Add(time.Second),
	}
	require.NoError(t, rep.Create(ctx, credit))
	require.NoError(t, rep.Create(ctx, debit))

	got, err := rep.Find(ctx, credit.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, credit.Amount.Equal(got.Amount), "amount %s", got.Amount)

	list, err := rep.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, debit.ID, list[0].ID)

	summary, err := rep.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3800.125", summary.Amount.String())
	assert.Equal(t, "5000.125", summary.Credit.String())
	assert.Equal(t, "1200", summary.Debit.String())
}
