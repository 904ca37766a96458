package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	defaultCookieSecret = "00000000000000000000000000000000"
	defaultJWTSecret    = "supersecretjwtkey"
)

// ErrDefaultSecret is returned when a non-development config keeps a built-in secret
var ErrDefaultSecret = errors.New("default secret used outside development")

type Config struct {
	Port string `env:"PORT, default=8080"`
	Env  string `env:"ENV, default=development"`

	MongoURI            string        `env:"MONGO_URI, default=mongodb://localhost:27017"`
	MongoDatabase       string        `env:"MONGO_DATABASE, default=socialmedia"`
	MongoConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`

	CookieSecret string        `env:"COOKIE_SECRET, default=00000000000000000000000000000000"`
	SessionName  string        `env:"SESSION_NAME, default=tuiter-session"`
	JWTSecret    string        `env:"JWT_SECRET, default=supersecretjwtkey"`
	JWTTTL       time.Duration `env:"JWT_TTL, default=72h"`

	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	// Origins allowed to make credentialed cross-origin requests
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:3000"`

	LogLevel        string        `env:"LOG_LEVEL, default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

// IsDevelopment reports whether the service runs with ENV=development
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and decodes the environment into a Config
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.checkSecrets(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) checkSecrets() error {
	if c.IsDevelopment() {
		return nil
	}
	if c.CookieSecret == defaultCookieSecret {
		return fmt.Errorf("%w: set COOKIE_SECRET", ErrDefaultSecret)
	}
	if c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("%w: set JWT_SECRET", ErrDefaultSecret)
	}
	return nil
}
