package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string
		Host string
		TLS  struct {
			Enabled  bool
			CertFile string
			KeyFile  string
		}
		DeployDomain string
		Debug        bool
	}
	Auth struct {
		JWTSecret string
	}
	Database struct {
		DSN      string
		RedisURI string
	}
	Cache struct {
		LocationTTL time.Duration
	}
	Resend struct {
		APIKey        string
		DefaultSender string
		// Upper bound for a single notification, on top of the request deadline
		Timeout time.Duration
	}
	Sentry struct {
		DSN string
	}
}

func Load() (*Config, error) {

	envStack := os.Getenv("ENV_STACK")

	if envStack != "" {
		filePath := "./env-files/.env." + envStack
		err := godotenv.Load(filePath)
		if err != nil {
			fmt.Printf("Error loading .env file: %s\n", err)
		}

		// Load internal one, kept out of git by the maintainers
		internalFilePath := "./env-files/.env.internal"
		err = godotenv.Load(internalFilePath)
		if err != nil {
			fmt.Printf("Error loading .env.internal file: %s\n", err)
		}
	}

	c := &Config{}

	c.Server.Port = os.Getenv("SERVER_PORT")
	if c.Server.Port == "" {
		c.Server.Port = "5000"
	}

	c.Server.Host = os.Getenv("SERVER_HOST")
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}

	c.Server.DeployDomain = os.Getenv("DEPLOY_DOMAIN")
	if c.Server.DeployDomain == "" {
		c.Server.DeployDomain = c.Server.Host + ":" + c.Server.Port
	}

	c.Server.Debug = os.Getenv("ENABLE_DEBUG_ENDPOINTS") == "true"

	// TLS Configuration
	useTLS := os.Getenv("USE_TLS")
	c.Server.TLS.Enabled = useTLS != "" && useTLS != "false" && useTLS != "0"
	c.Server.TLS.CertFile = "./certs/localhost.pem"
	c.Server.TLS.KeyFile = "./certs/localhost-key.pem"

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")

	c.Database.DSN = os.Getenv("DATABASE_DSN")
	c.Database.RedisURI = os.Getenv("REDIS_URI")

	ttl, err := durationFromEnv("LOCATION_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return c, err
	}
	c.Cache.LocationTTL = ttl

	c.Resend.APIKey = os.Getenv("RESEND_API_KEY")
	c.Resend.DefaultSender = os.Getenv("RESEND_DEFAULT_SENDER")
	if c.Resend.DefaultSender == "" {
		c.Resend.DefaultSender = "noreply@converge.app"
	}

	timeout, err := durationFromEnv("NOTIFICATION_TIMEOUT", 10*time.Second)
	if err != nil {
		return c, err
	}
	c.Resend.Timeout = timeout

	c.Sentry.DSN = os.Getenv("SENTRY_DSN")

	return c, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s should be a duration like 30s, but got: %s", key, raw)
	}
	return d, nil
}
