package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"henalis/app"
	"henalis/infra/grpc"
	"henalis/infra/postgres"
	"henalis/infra/rabbitmq"
	"henalis/pkg/config"
	"henalis/pkg/events"
	"henalis/pkg/logger"
)

func main() {
	defer logger.Init("grpc")()

	zap.L().Info("Henalis catalog gRPC service starting...")

	appConfig := config.Read()

	pgRepository := postgres.NewPgRepository(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
		appConfig.PostgresSSLMode,
	)
	defer pgRepository.Close()

	emitter := events.NewEmitter(nil, appConfig.ServiceName)
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("Failed to create RabbitMQ publisher", zap.Error(err))
		}
		defer publisher.Close()
		emitter = events.NewEmitter(publisher, appConfig.ServiceName)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", appConfig.GRPCPort))
	if err != nil {
		zap.L().Fatal("failed to listen", zap.String("port", appConfig.GRPCPort), zap.Error(err))
	}

	catalog := grpc.NewCatalogService(pgRepository, app.Paging{
		DefaultLimit: appConfig.DefaultPageLimit,
		MaxLimit:     appConfig.MaxPageLimit,
	}, emitter)
	grpcServer := grpc.NewServer(lis, catalog)

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := grpcServer.GracefulStop(); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
