// Package health exposes the standard gRPC health service for the widget API.
package health

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// AssistService is the health service name reporting AI assistance availability.
const AssistService = "widgetassist.Assist"

// Server serves grpc.health.v1.Health.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates a health server. The overall status is SERVING and
// AssistService reflects aiEnabled.
func NewServer(aiEnabled bool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	s := &Server{grpc: gs, health: hs, logger: logger}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.SetAssistEnabled(aiEnabled)
	return s
}

// SetAssistEnabled updates the status of AssistService.
func (s *Server) SetAssistEnabled(enabled bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if enabled {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(AssistService, status)
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC health server listening", "addr", lis.Addr().String())
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve grpc health: %w", err)
	}
	return nil
}

// Stop marks every service NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
