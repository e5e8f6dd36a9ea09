package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported values of STORE_DRIVER.
const (
	DriverMongoDB  = "mongodb"
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv          string        `envconfig:"APP_ENV"`
	Port            int           `envconfig:"PORT" default:"8080" validate:"gte=0,lte=65535"`
	SentryDSN       string        `envconfig:"SENTRY_DSN"`
	AllowOrigins    string        `envconfig:"ALLOW_ORIGINS" default:"*"`
	RateLimit       float64       `envconfig:"RATE_LIMIT" default:"20" validate:"gte=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Store struct {
		Driver  string        `envconfig:"STORE_DRIVER" default:"mongodb" validate:"oneof=mongodb dynamodb postgres"`
		Timeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	}
	Mongo struct {
		URI        string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		Database   string `envconfig:"MONGO_DATABASE" default:"moviecatalog"`
		Collection string `envconfig:"MONGO_COLLECTION" default:"movies"`
	}
	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	DynamoDB struct {
		Region       string `envconfig:"DDB_REGION"`
		Endpoint     string `envconfig:"DDB_ENDPOINT"`
		AccessKey    string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey    string `envconfig:"DDB_SECRET_KEY"`
		SessionToken string `envconfig:"DDB_SESSION_TOKEN"`
		MoviesTable  string `envconfig:"DDB_MOVIES_TABLE" default:"movies"`
		CreateTable  bool   `envconfig:"DDB_CREATE_TABLE"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}
	return nil
}
