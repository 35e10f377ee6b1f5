package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/vysogota0399/transactions_api/internal/config"
	"github.com/vysogota0399/transactions_api/internal/logging"
)

type switchPinger struct {
	down  atomic.Bool
	calls atomic.Int64
}

func (p *switchPinger) Ping(context.Context) error {
	p.calls.Add(1)
	if p.down.Load() {
		return errors.New("connection refused")
	}

	return nil
}

func status(t *testing.T, hs *grpchealth.Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)

	return resp.Status
}

func TestProbe_Check(t *testing.T) {
	db := &switchPinger{}
	hs := grpchealth.NewServer()
	p := NewProbe(db, hs, &config.Config{HealthProbeInterval: 1000}, logging.NewNop())
	ctx := context.Background()

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, p.Check(ctx))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, hs, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, hs, ServiceName))

	db.down.Store(true)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, p.Check(ctx))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, hs, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, hs, ServiceName))

	db.down.Store(false)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, p.Check(ctx))
}

func TestProbe_StartPollsUntilStopped(t *testing.T) {
	db := &switchPinger{}
	hs := grpchealth.NewServer()
	p := NewProbe(db, hs, &config.Config{HealthProbeInterval: 10}, logging.NewNop())

	p.Start()

	assert.Eventually(t, func() bool { return db.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	db.down.Store(true)
	assert.Eventually(t, func() bool {
		return status(t, hs, "") == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	calls := db.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, db.calls.Load(), "no pings after Stop")
}

func TestProbe_DefaultInterval(t *testing.T) {
	p := NewProbe(&switchPinger{}, grpchealth.NewServer(), &config.Config{}, logging.NewNop())
	assert.Equal(t, 5*time.Second, p.pollInterval)

	// Stop before Start is a no-op
	p.Stop()
}
