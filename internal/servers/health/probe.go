package health

import (
	"context"
	"time"

	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/vysogota0399/transactions_api/internal/config"
	"github.com/vysogota0399/transactions_api/internal/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type StatusSetter interface {
	SetServingStatus(service string, servingStatus healthpb.HealthCheckResponse_ServingStatus)
}

// Probe pings the database on an interval and publishes the result as the
// serving status of both the overall server and ServiceName.
type Probe struct {
	db           Pinger
	status       StatusSetter
	lg           *logging.ZapLogger
	pollInterval time.Duration

	cancaller context.CancelFunc
	done      chan struct{}
	last      healthpb.HealthCheckResponse_ServingStatus
}

func NewProbe(db Pinger, status StatusSetter, cfg *config.Config, lg *logging.ZapLogger) *Probe {
	interval := time.Duration(cfg.HealthProbeInterval) * time.Millisecond
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &Probe{
		db:           db,
		status:       status,
		lg:           lg,
		pollInterval: interval,
		last:         healthpb.HealthCheckResponse_UNKNOWN,
	}
}

func (p *Probe) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancaller = cancel
	p.done = make(chan struct{})
	ctx = p.lg.WithContextFields(ctx, zap.String("name", "health_probe"))

	p.Check(ctx)

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.lg.DebugCtx(ctx, "health probe graceful shutdown")
				return
			case <-ticker.C:
				p.Check(ctx)
			}
		}
	}()
}

func (p *Probe) Stop() {
	if p.cancaller == nil {
		return
	}

	p.cancaller()
	<-p.done
}

// Check runs one ping and updates the serving status.
func (p *Probe) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pctx, cancel := context.WithTimeout(ctx, p.pollInterval)
	defer cancel()

	next := healthpb.HealthCheckResponse_SERVING
	if err := p.db.Ping(pctx); err != nil {
		next = healthpb.HealthCheckResponse_NOT_SERVING
		if p.last != next {
			p.lg.ErrorCtx(ctx, "database ping failed", zap.Error(err))
		}
	}

	if p.last != next {
		p.lg.InfoCtx(ctx, "serving status changed", zap.Stringer("status", next))
	}
	p.last = next

	p.status.SetServingStatus("", next)
	p.status.SetServingStatus(ServiceName, next)

	return next
}
