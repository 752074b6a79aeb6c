package transport

import (
	"sync/atomic"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall status.
const ServiceName = "txrelay"

// Health reports process liveness over the standard gRPC health protocol.
// A fault is sticky: once reported the process is expected to exit.
type Health struct {
	srv     *health.Server
	faulted atomic.Bool
	logger  *zap.Logger
}

// NewHealth starts NOT_SERVING until Serving is called.
func NewHealth(logger *zap.Logger) *Health {
	h := &Health{
		srv:    health.NewServer(),
		logger: logger.Named("health"),
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Register attaches the health service to s.
func (h *Health) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

// Serving marks the process ready unless a fault was already reported.
func (h *Health) Serving() {
	if h.faulted.Load() {
		return
	}
	h.set(healthpb.HealthCheckResponse_SERVING)
}

// Fault marks the process NOT_SERVING for good.
func (h *Health) Fault(component string, err error) {
	h.faulted.Store(true)
	h.logger.Error("component fault", zap.String("component", component), zap.Error(err))
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
}

// Shutdown stops reporting and fails pending watches.
func (h *Health) Shutdown() {
	h.srv.Shutdown()
}

func (h *Health) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.srv.SetServingStatus("", status)
	h.srv.SetServingStatus(ServiceName, status)
}
