package grpcserver

import (
	"context"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// maxTracked bounds the probe outcomes remembered; service names come from clients.
const maxTracked = 64

// serviceOf returns the health service a request probes ("" is the whole server).
func serviceOf(req any) string {
	if r, ok := req.(*healthpb.HealthCheckRequest); ok {
		return r.GetService()
	}
	return ""
}

// outcome is the serving status of a successful check, the gRPC code otherwise.
func outcome(resp any, err error) string {
	if r, ok := resp.(*healthpb.HealthCheckResponse); ok && err == nil {
		return r.GetStatus().String()
	}
	return status.Code(err).String()
}

// ProbeLogging returns a unary interceptor that logs a probe only when its
// outcome differs from the previous probe of the same method and service.
func ProbeLogging(log *zap.Logger) grpc.UnaryServerInterceptor {
	var (
		mu   sync.Mutex
		last = map[string]string{}
	)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		resp, err := next(ctx, req)

		svc := serviceOf(req)
		now := outcome(resp, err)
		key := info.FullMethod + "|" + svc

		mu.Lock()
		prev, seen := last[key]
		if seen || len(last) < maxTracked {
			last[key] = now
		}
		mu.Unlock()
		if seen && prev == now {
			return resp, err
		}

		var remote string
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			remote = p.Addr.String()
		}
		log.Info("probe status changed",
			zap.String("method", info.FullMethod),
			zap.String("service", svc),
			zap.String("from", prev),
			zap.String("to", now),
			zap.String("peer", remote),
		)
		return resp, err
	}
}

// RecoverUnary turns a handler panic into codes.Internal.
func RecoverUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("method", info.FullMethod),
					zap.String("service", serviceOf(req)),
				)
				err = status.Error(codes.Internal, "internal")
			}
		}()
		return next(ctx, req)
	}
}
