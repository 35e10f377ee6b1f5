package api

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/vysogota0399/transactions_api/internal/config"
	"github.com/vysogota0399/transactions_api/internal/logging"
)

type Server struct {
	app *fiber.App
	cfg *config.Config
	lg  *logging.ZapLogger
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.cfg.HTTPAddress())
	if err != nil {
		return err
	}

	go func() {
		if err := s.app.Listener(lis); err != nil {
			s.lg.ErrorCtx(context.Background(), "http server stopped", zap.Error(err))
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func NewServer(h *Handlers, lc fx.Lifecycle, cfg *config.Config, lg *logging.ZapLogger) *Server {
	srv := &Server{app: NewRouter(h, lg), cfg: cfg, lg: lg}

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				lg.InfoCtx(
					ctx,
					"start processing transactions HTTP requests",
					zap.String("address", cfg.HTTPAddress()),
					zap.String("env", cfg.Env),
				)

				return srv.Start()
			},
			OnStop: func(ctx context.Context) error {
				return srv.Stop(ctx)
			},
		},
	)

	return srv
}
