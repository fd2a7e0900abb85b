package grpc

import (
	"errors"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type Server struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
}

func (s *Server) GetGRPCServer() grpc.ServiceRegistrar {
	return s.server
}

// NewServer builds a gRPC server on lis with the catalog and health services registered.
func NewServer(lis net.Listener, catalog CatalogServer) *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingInterceptor,
			recoveryInterceptor,
		),
	)

	RegisterCatalogServer(grpcServer, catalog)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(CatalogServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		server:   grpcServer,
		health:   healthServer,
		listener: lis,
	}
}

func (s *Server) Start() error {
	zap.L().Info("gRPC server started successfully",
		zap.String("address", s.listener.Addr().String()))
	return s.server.Serve(s.listener)
}

func (s *Server) GetListener() net.Listener {
	return s.listener
}

// GracefulStop reports NOT_SERVING before draining in-flight calls.
func (s *Server) GracefulStop() error {
	s.health.Shutdown()
	s.server.GracefulStop()
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
