package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIBaseURL = "http://127.0.0.1:8000/api/v1"

type Config struct {
	HTTPAddr           string
	APIBaseURL         string
	APITimeout         time.Duration
	JWTSecret          string
	JWTIssuer          string
	RedisAddr          string
	RedisPassword      string
	PermissionCacheTTL time.Duration
	ReadCacheTTL       time.Duration
	RollbarToken       string
	Env                string
	ProxyListenAddr    string
	ProxyUpstream      string
}

func Load() Config {
	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8085"),
		APIBaseURL:         getenv("API_BASE_URL", DefaultAPIBaseURL),
		APITimeout:         getenvDuration("API_TIMEOUT", 0),
		JWTSecret:          getenv("JWT_SECRET", "dev-secret"),
		JWTIssuer:          getenv("JWT_ISSUER", "semaphore-auth-identity"),
		RedisAddr:          getenv("REDIS_ADDR", ""),
		RedisPassword:      getenv("REDIS_PASSWORD", ""),
		PermissionCacheTTL: getenvDuration("PERMISSION_CACHE_TTL", 5*time.Minute),
		ReadCacheTTL:       getenvDuration("READ_CACHE_TTL", time.Minute),
		RollbarToken:       getenv("ROLLBAR_TOKEN", ""),
		Env:                getenv("APP_ENV", "development"),
		ProxyListenAddr:    getenv("PROXY_LISTEN_ADDR", "127.0.0.1:3001"),
		ProxyUpstream:      getenv("PROXY_UPSTREAM", "127.0.0.1:3000"),
	}
}

// LoadDotEnv loads the given env files into the process environment.
// Missing files are skipped; variables already set are never overridden.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
