package server

import (
	"context"
	"time"

	"google.golang.org/grpc/health/grpc_health_v1"
)

// how often Watch looks for a status change
var watchInterval = 500 * time.Millisecond

func (s *Server) status() grpc_health_v1.HealthCheckResponse_ServingStatus {
	if s.running.Load() {
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

// Check reports NOT_SERVING while an experiment is running.
func (s *Server) Check(ctx context.Context, in *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{Status: s.status()}, nil
}

// Watch sends the current status, then every change until the client goes
// away.
func (s *Server) Watch(in *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	last := grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN
	for {
		if cur := s.status(); cur != last {
			if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: cur}); err != nil {
				return err
			}
			last = cur
		}

		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		case <-ticker.C:
		}
	}
}
