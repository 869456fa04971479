// Package grpcserver serves the gRPC health protocol next to the blog HTTP API
// so orchestrators can probe liveness without going through fiber.
package grpcserver

import (
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service is the health service name reported for the HTTP API.
const Service = "blog.v1.API"

// Health is a gRPC server carrying only the health service.
type Health struct {
	srv *grpc.Server
	hs  *health.Server
	log *zap.Logger
}

// NewHealth builds the health server. Reflection is registered when dev is set.
func NewHealth(log *zap.Logger, dev bool) *Health {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RecoverUnary(log),
		ProbeLogging(log),
	))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	if dev {
		reflection.Register(srv)
	}
	h := &Health{srv: srv, hs: hs, log: log}
	h.SetServing(false)
	return h
}

// SetServing flips both the overall and the API status.
func (h *Health) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.hs.SetServingStatus("", st)
	h.hs.SetServingStatus(Service, st)
}

// Serve blocks serving lis until Stop.
func (h *Health) Serve(lis net.Listener) error {
	h.log.Info("health listening", zap.String("addr", lis.Addr().String()))
	return h.srv.Serve(lis)
}

// Stop reports NOT_SERVING to watchers and drains the server.
func (h *Health) Stop() {
	h.hs.Shutdown()
	h.srv.GracefulStop()
}
