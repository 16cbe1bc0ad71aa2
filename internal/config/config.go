package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config is read from the environment (and an optional .env file).
// Every key may be given with or without the TRACKER_ prefix.
type Config struct {
	DBDSN             string   `envconfig:"DB_DSN" required:"true"`
	DBDriver          string   `envconfig:"DB_DRIVER" default:"postgres"`
	DBConnectAttempts int      `envconfig:"DB_CONNECT_ATTEMPTS" default:"10"`
	ServerPort        string   `envconfig:"SERVER_PORT" default:"8080"`
	SessionSecret     string   `envconfig:"SESSION_SECRET" required:"true"`
	LogMode           string   `envconfig:"LOG_MODE" default:"dev"`
	CORSOrigins       []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	AdminEmail        string   `envconfig:"ADMIN_EMAIL" default:"admin@tracker.local"`
	AdminPassword     string   `envconfig:"ADMIN_PASSWORD" default:"Admin123!"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("tracker", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process environment variables")
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if len(cfg.SessionSecret) < 16 {
		return nil, errors.New("SESSION_SECRET must be at least 16 characters")
	}

	return &cfg, nil
}
