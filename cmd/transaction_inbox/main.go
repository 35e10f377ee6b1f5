package main

import (
	"github.com/vysogota0399/transactions_api/internal/config"
	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/repositories"
	"github.com/vysogota0399/transactions_api/internal/storage"
	"github.com/vysogota0399/transactions_api/internal/transaction_inbox"
	"github.com/vysogota0399/transactions_api/internal/transactions"
	"go.uber.org/fx"
)

func main() {
	fx.New(CreateApp(config.MustNewConfig())).Run()
}

func CreateApp(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Provide(
			logging.NewZapLogger,
			logging.NewKafkaErrorLogger,
			logging.NewKafkaLogger,
			storage.NewStorage,
			transaction_inbox.NewConfig,

			transaction_inbox.NewConsumer,
			fx.Annotate(transactions.NewService, fx.As(new(transaction_inbox.Ingester))),
			fx.Annotate(repositories.NewTransactionsRepository, fx.As(new(transactions.Repository))),
		),
		fx.Supply(cfg),
		fx.WithLogger(logging.NewFxLogger),
		fx.Invoke(startConsumer),
	)
}

func startConsumer(*transaction_inbox.Consumer) {}
