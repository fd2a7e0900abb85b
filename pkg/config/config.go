package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port             string `mapstructure:"PORT"`
	GRPCPort         string `mapstructure:"GRPC_PORT"`
	ServiceName      string `mapstructure:"SERVICE_NAME"`
	PostgresUsername string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase string `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	AWSEndpoint      string `mapstructure:"AWS_ENDPOINT"`
	AWSBucket        string `mapstructure:"AWS_BUCKET"`
	AWSDefaultRegion string `mapstructure:"AWS_DEFAULT_REGION"`
	AWSAccessKey     string `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey     string `mapstructure:"AWS_SECRET_KEY"`

	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	JWKSURL        string        `mapstructure:"JWKS_URL"`
	JWTUserIDClaim string        `mapstructure:"JWT_USER_ID_CLAIM"`
	JWTRoleClaim   string        `mapstructure:"JWT_ROLE_CLAIM"`
	AdminRoleValue string        `mapstructure:"ADMIN_ROLE_VALUE"`
	KeyCacheTTL    time.Duration `mapstructure:"KEY_CACHE_TTL"`

	DefaultPageLimit int `mapstructure:"DEFAULT_PAGE_LIMIT"`
	MaxPageLimit     int `mapstructure:"MAX_PAGE_LIMIT"`
}

var keys = []string{
	"PORT",
	"GRPC_PORT",
	"SERVICE_NAME",
	"POSTGRES_USERNAME",
	"POSTGRES_PASSWORD",
	"POSTGRES_DATABASE",
	"POSTGRES_SSLMODE",
	"POSTGRES_HOST",
	"POSTGRES_PORT",
	"RABBITMQ_URL",
	"AWS_ENDPOINT",
	"AWS_BUCKET",
	"AWS_DEFAULT_REGION",
	"AWS_ACCESS_KEY",
	"AWS_SECRET_KEY",
	"JWT_SECRET",
	"JWKS_URL",
	"JWT_USER_ID_CLAIM",
	"JWT_ROLE_CLAIM",
	"ADMIN_ROLE_VALUE",
	"KEY_CACHE_TTL",
	"DEFAULT_PAGE_LIMIT",
	"MAX_PAGE_LIMIT",
}

// Read loads configuration from an optional .env file in the working directory and the environment.
func Read() *AppConfig {
	cfg, err := Load(".env")
	if err != nil {
		panic(fmt.Errorf("fatal error reading config: %w", err))
	}
	return cfg
}

// Load reads envFile when it exists, then lets environment variables override it.
func Load(envFile string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
	setDefaults(v)

	var appConfig AppConfig
	if err := v.Unmarshal(&appConfig); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if appConfig.DefaultPageLimit <= 0 {
		return nil, fmt.Errorf("DEFAULT_PAGE_LIMIT must be positive, got %d", appConfig.DefaultPageLimit)
	}
	if appConfig.MaxPageLimit < appConfig.DefaultPageLimit {
		return nil, fmt.Errorf("MAX_PAGE_LIMIT (%d) must not be below DEFAULT_PAGE_LIMIT (%d)",
			appConfig.MaxPageLimit, appConfig.DefaultPageLimit)
	}

	return &appConfig, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GRPC_PORT", "9090")
	v.SetDefault("SERVICE_NAME", "henalis")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("JWT_USER_ID_CLAIM", "sub")
	v.SetDefault("JWT_ROLE_CLAIM", "role")
	v.SetDefault("ADMIN_ROLE_VALUE", "admin")
	v.SetDefault("KEY_CACHE_TTL", "10m")
	v.SetDefault("DEFAULT_PAGE_LIMIT", 12)
	v.SetDefault("MAX_PAGE_LIMIT", 100)
}
