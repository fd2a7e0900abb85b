package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"henalis/app"
	"henalis/infra/postgres"
	"henalis/infra/rabbitmq"
	"henalis/internal/auth"
	"henalis/internal/server"
	"henalis/pkg/aws"
	"henalis/pkg/config"
	"henalis/pkg/events"
	"henalis/pkg/logger"
)

func main() {
	defer logger.Init("api")()

	appConfig := config.Read()
	zap.L().Info("app starting...",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("port", appConfig.Port),
	)

	pgRepository := postgres.NewPgRepository(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
		appConfig.PostgresSSLMode,
	)
	defer pgRepository.Close()

	schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgRepository.EnsureSchema(schemaCtx); err != nil {
		cancel()
		zap.L().Fatal("Failed to ensure database schema", zap.Error(err))
	}
	cancel()

	storage := aws.NewS3Bucket(aws.Config{
		Endpoint:  appConfig.AWSEndpoint,
		Bucket:    appConfig.AWSBucket,
		Region:    appConfig.AWSDefaultRegion,
		AccessKey: appConfig.AWSAccessKey,
		SecretKey: appConfig.AWSSecretKey,
	})

	emitter, closeEmitter := newEmitter(appConfig)
	defer closeEmitter()

	srv := server.NewApp(server.Dependencies{
		Store:    pgRepository,
		Storage:  storage,
		Emitter:  emitter,
		Verifier: newVerifier(appConfig),
		Paging: app.Paging{
			DefaultLimit: appConfig.DefaultPageLimit,
			MaxLimit:     appConfig.MaxPageLimit,
		},
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go monitorPool(ctx, pgRepository)

	go func() {
		if err := srv.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(srv)
}

// newEmitter publishes to RabbitMQ when RABBITMQ_URL is set. Without it events are dropped
// and item storage is cleaned up inline.
func newEmitter(cfg *config.AppConfig) (*events.Emitter, func()) {
	if cfg.RabbitMQURL == "" {
		zap.L().Info("RABBITMQ_URL not set, event publishing disabled")
		return events.NewEmitter(nil, cfg.ServiceName), func() {}
	}

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.ServiceName)
	if err != nil {
		zap.L().Fatal("Failed to create RabbitMQ publisher", zap.Error(err))
	}
	return events.NewEmitter(publisher, cfg.ServiceName), func() { _ = publisher.Close() }
}

func newVerifier(cfg *config.AppConfig) *auth.Verifier {
	var loader auth.KeyLoader
	if cfg.JWKSURL != "" {
		loader = auth.NewJWKSLoader(cfg.JWKSURL)
		zap.L().Info("Verifying tokens with JWKS", zap.String("url", cfg.JWKSURL))
	} else {
		if cfg.JWTSecret == "" {
			zap.L().Fatal("JWT_SECRET or JWKS_URL is required")
		}
		loader = auth.StaticKeyLoader{Secret: []byte(cfg.JWTSecret)}
	}

	return auth.NewVerifier(auth.NewKeyCache(loader, cfg.KeyCacheTTL), auth.Claims{
		UserID:    cfg.JWTUserIDClaim,
		Role:      cfg.JWTRoleClaim,
		AdminRole: cfg.AdminRoleValue,
	})
}

func monitorPool(ctx context.Context, repo *postgres.PgRepository) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := repo.GetPoolStats()
			zap.L().Info("Connection pool stats",
				zap.Int("max_open", stats["max_open_connections"].(int)),
				zap.Int("open", stats["open_connections"].(int)),
				zap.Int("in_use", stats["in_use"].(int)),
				zap.Int("idle", stats["idle"].(int)),
				zap.Int64("wait_count", stats["wait_count"].(int64)),
				zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
			)
		}
	}
}

func gracefulShutdown(srv *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := srv.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
