package health

import (
	"context"
	"net"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/vysogota0399/transactions_api/internal/config"
	"github.com/vysogota0399/transactions_api/internal/logging"
)

// ServiceName is the grpc.health.v1 service reported next to the overall ("") status.
const ServiceName = "transactions"

type Server struct {
	cfg    *config.Config
	srv    *grpc.Server
	health *grpchealth.Server
	probe  *Probe
	lg     *logging.ZapLogger
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.cfg.HealthServerAddress)
	if err != nil {
		return err
	}

	go func() {
		if err := s.srv.Serve(lis); err != nil {
			s.lg.ErrorCtx(context.Background(), "health grpc server stopped", zap.Error(err))
		}
	}()

	s.probe.Start()

	return nil
}

func (s *Server) Stop() {
	s.probe.Stop()
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func NewServer(lc fx.Lifecycle, cfg *config.Config, lg *logging.ZapLogger, db Pinger) *Server {
	hs := grpchealth.NewServer()

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	srv := &Server{
		cfg:    cfg,
		srv:    gs,
		health: hs,
		probe:  NewProbe(db, hs, cfg, lg),
		lg:     lg,
	}

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				lg.InfoCtx(
					ctx,
					"start processing GRPC health requests",
					zap.String("address", cfg.HealthServerAddress),
				)

				return srv.Start()
			},
			OnStop: func(ctx context.Context) error {
				srv.Stop()
				return nil
			},
		},
	)

	return srv
}
