package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported next to the overall "" entry.
const ServiceName = "cards.Tracker"

// Pinger is anything with a database health check.
type Pinger interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

// Health reports SERVING while the database answers pings.
type Health struct {
	srv    *health.Server
	db     Pinger
	logger *slog.Logger
}

// NewGRPCServer builds a server with the health service and reflection (for
// grpcurl) registered.
func NewGRPCServer(db Pinger, logger *slog.Logger) (*grpc.Server, *Health) {
	if logger == nil {
		logger = slog.Default()
	}
	grpcServer := grpc.NewServer()
	h := &Health{srv: health.NewServer(), db: db, logger: logger}
	healthpb.RegisterHealthServer(grpcServer, h.srv)
	reflection.Register(grpcServer)
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return grpcServer, h
}

func (h *Health) set(st healthpb.HealthCheckResponse_ServingStatus) {
	h.srv.SetServingStatus("", st)
	h.srv.SetServingStatus(ServiceName, st)
}

// Check pings the database once and updates the serving status.
func (h *Health) Check(ctx context.Context) bool {
	if err := h.db.HealthCheck(ctx, 2*time.Second); err != nil {
		h.logger.Warn("health: database unavailable", "error", err)
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return false
	}
	h.set(healthpb.HealthCheckResponse_SERVING)
	return true
}

// Watch re-checks every interval until ctx ends.
func (h *Health) Watch(ctx context.Context, interval time.Duration) {
	h.Check(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			h.Check(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING for good.
func (h *Health) Shutdown() {
	h.srv.Shutdown()
}
