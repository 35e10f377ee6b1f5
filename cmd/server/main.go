package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/vysogota0399/transactions_api/internal/config"
	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/repositories"
	"github.com/vysogota0399/transactions_api/internal/servers/api"
	"github.com/vysogota0399/transactions_api/internal/servers/api/handlers"
	"github.com/vysogota0399/transactions_api/internal/servers/health"
	"github.com/vysogota0399/transactions_api/internal/storage"
	"github.com/vysogota0399/transactions_api/internal/transactions"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	serve := serveCmd()

	root := &cobra.Command{
		Use:          "server",
		Short:        "Transactions HTTP API",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.AddCommand(serve, migrateCmd())

	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health server",
		RunE: func(cmd *cobra.Command, args []string) error {
			fx.New(CreateApp(config.MustNewConfig())).Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustNewConfig()

			lg, err := logging.NewZapLogger(cfg)
			if err != nil {
				return err
			}
			defer lg.Sync()

			strg, err := storage.Open(cfg, lg)
			if err != nil {
				return err
			}
			defer strg.Close()

			if err := strg.Ping(cmd.Context()); err != nil {
				return err
			}

			return strg.RunMigration()
		},
	}
}

func CreateApp(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Provide(
			logging.NewZapLogger,
			fx.Annotate(
				storage.NewStorage,
				fx.As(fx.Self()),
				fx.As(new(health.Pinger)),
				fx.As(new(handlers.Pinger)),
			),

			// domain
			fx.Annotate(
				repositories.NewTransactionsRepository,
				fx.As(new(transactions.Repository)),
				fx.As(new(handlers.TransactionsRepository)),
				fx.As(new(handlers.SummaryRepository)),
			),
			fx.Annotate(transactions.NewService, fx.As(new(handlers.Ingester))),

			// HTTP API
			handlers.NewCreateTransactionHandler,
			handlers.NewGetTransactionsHandler,
			handlers.NewGetSummaryHandler,
			handlers.NewHealthHandler,
			api.NewHandlers,
			api.NewServer,

			// GRPC health
			health.NewServer,
		),
		fx.Supply(cfg),
		fx.WithLogger(logging.NewFxLogger),
		fx.Invoke(
			startAPIServer,
			startHealthServer,
		),
	)
}

func startAPIServer(*api.Server)       {}
func startHealthServer(*health.Server) {}
