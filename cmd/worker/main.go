package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"henalis/infra/rabbitmq"
	"henalis/internal/consumers"
	"henalis/pkg/aws"
	"henalis/pkg/config"
	"henalis/pkg/events"
	"henalis/pkg/logger"
)

func main() {
	defer logger.Init("worker")()

	zap.L().Info("Henalis worker service starting...")

	appConfig := config.Read()
	zap.L().Info("Worker config loaded", zap.String("serviceName", appConfig.ServiceName))

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	storage := aws.NewS3Bucket(aws.Config{
		Endpoint:  appConfig.AWSEndpoint,
		Bucket:    appConfig.AWSBucket,
		Region:    appConfig.AWSDefaultRegion,
		AccessKey: appConfig.AWSAccessKey,
		SecretKey: appConfig.AWSSecretKey,
	})
	cleanupHandler := consumers.NewStorageCleanupHandler(storage)

	// Queue name: {service}.{concern}.{version}
	cleanupConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.ShopExchange,
		QueueName:      "henalis.storage.cleanup.v1",
		RoutingKeys:    []string{events.ItemDeletedEvent + "." + events.EventVersionV1},
		ServiceName:    appConfig.ServiceName,
		PrefetchCount:  10,
		WorkerPoolSize: 5,
	})
	if err != nil {
		zap.L().Fatal("Failed to create storage cleanup consumer", zap.Error(err))
	}
	defer cleanupConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		zap.L().Info("Starting storage cleanup consumer...")
		if err := cleanupConsumer.Consume(ctx, cleanupHandler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Storage cleanup consumer error", zap.Error(err))
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := cleanupConsumer.Stats()
				zap.L().Info("Worker pool stats",
					zap.Int("size", stats.Size),
					zap.Int64("in_flight", stats.InFlight),
					zap.Int64("processed", stats.Processed),
					zap.Int64("failed", stats.Failed),
				)
			}
		}
	}()

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("exchange", events.ShopExchange),
	)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received, stopping worker service...")
	case <-consumerDone:
		zap.L().Warn("Consumer stopped, shutting down worker service...")
	}
	cancel()
	<-consumerDone

	zap.L().Info("Worker service stopped gracefully")
}
