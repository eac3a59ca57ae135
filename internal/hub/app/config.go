package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dchubs/hub/pkg/slogx"
	"github.com/joho/godotenv"
)

type Config struct {
	Issuer string // Optional: iss claim for minted tokens (default: dchubs-hub)

	AccessSecret  slogx.Secret // Required outside dev: HS256 secret for access tokens
	RefreshSecret slogx.Secret // Required outside dev: HS256 secret for refresh tokens
	SessionSecret slogx.Secret // Required outside dev: HS256 secret for browser session tokens
	SealingKey    slogx.Secret // Required outside dev: master key for sealing stored tokens and target secrets

	AccessTTL  time.Duration // Optional: access token lifetime, 0 never expires (default: 1h)
	RefreshTTL time.Duration // Optional: refresh token lifetime, 0 never expires (default: 30 days)
	SessionTTL time.Duration // Optional: session token lifetime (default: 24h)

	AllowedOrigins []string // Optional: extra origins allowed to make state-changing requests
	SiteURL        string   // Optional: public site base used in Discord embeds (default: https://dchubs.org)
	CSRFDomain     string   // Optional: cookie domain for csrfToken (default: host-only)
	CSRFSecure     bool     // Optional: mark csrfToken Secure (default: true outside dev)

	WebhookTimeout time.Duration // Optional: outbound vote delivery timeout (default: 5s)

	DatabaseFile  string        // Optional: path to SQLite database file (default: ./hub.db)
	CacheDriver   string        // Optional: target cache driver, memory or redis (default: memory)
	CacheTTL      time.Duration // Optional: target cache TTL (default: 1m)
	RedisAddr     string        // Required when CacheDriver is redis
	RedisPassword slogx.Secret  // Optional
	RedisDB       int           // Optional (default: 0)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads the process environment, falling back to the dotenv file
// named by HUB_ENV_FILE (default .env). Process variables always win and a
// missing file is not an error.
func LoadConfig() (Config, error) {
	env, err := loadEnv(getEnvOrDefault("HUB_ENV_FILE", ".env"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Issuer: env.getOrDefault("HUB_ISSUER", "dchubs-hub"),

		AccessSecret:  slogx.Secret(env.get("HUB_ACCESS_SECRET")),
		RefreshSecret: slogx.Secret(env.get("HUB_REFRESH_SECRET")),
		SessionSecret: slogx.Secret(env.get("HUB_SESSION_SECRET")),
		SealingKey:    slogx.Secret(env.get("HUB_SEALING_KEY")),

		AccessTTL:  env.getDurationOrDefault("HUB_ACCESS_TTL", time.Hour),
		RefreshTTL: env.getDurationOrDefault("HUB_REFRESH_TTL", 30*24*time.Hour),
		SessionTTL: env.getDurationOrDefault("HUB_SESSION_TTL", 24*time.Hour),

		AllowedOrigins: env.getList("HUB_ALLOWED_ORIGINS"),
		SiteURL:        env.getOrDefault("HUB_SITE_URL", "https://dchubs.org"),
		CSRFDomain:     env.get("HUB_CSRF_DOMAIN"),

		WebhookTimeout: env.getDurationOrDefault("HUB_WEBHOOK_TIMEOUT", 5*time.Second),

		DatabaseFile:  env.getOrDefault("HUB_DATABASE_FILE", "hub.db"),
		CacheDriver:   env.getOrDefault("HUB_CACHE_DRIVER", "memory"),
		CacheTTL:      env.getDurationOrDefault("HUB_CACHE_TTL", time.Minute),
		RedisAddr:     env.get("REDIS_ADDR"),
		RedisPassword: slogx.Secret(env.get("REDIS_PASSWORD")),
		RedisDB:       env.getIntOrDefault("REDIS_DB", 0),

		Env:                  env.getOrDefault("ENV", "dev"),
		LogLevel:             env.getOrDefault("LOG_LEVEL", "info"),
		LogFormat:            env.getOrDefault("LOG_FORMAT", "json"),
		Port:                 env.getIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  env.getDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: env.getDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
	cfg.CSRFSecure = env.getBoolOrDefault("HUB_CSRF_SECURE", !cfg.IsDev())

	// The site itself is always an allowed origin.
	if cfg.SiteURL != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, cfg.SiteURL)
	}

	return cfg, nil
}

func (c Config) IsDev() bool { return c.Env == "dev" }

// Validate checks settings that cannot be defaulted. Secret length and
// separation are checked when the keys are loaded.
func (c Config) Validate() error {
	var errs []error

	if !c.IsDev() {
		for _, s := range []struct {
			name  string
			value slogx.Secret
		}{
			{"HUB_ACCESS_SECRET", c.AccessSecret},
			{"HUB_REFRESH_SECRET", c.RefreshSecret},
			{"HUB_SESSION_SECRET", c.SessionSecret},
			{"HUB_SEALING_KEY", c.SealingKey},
		} {
			if s.value.Reveal() == "" {
				errs = append(errs, fmt.Errorf("%s is required when ENV=%s", s.name, c.Env))
			}
		}
	}

	switch c.CacheDriver {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis cache driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("HUB_CACHE_DRIVER must be memory or redis, got %q", c.CacheDriver))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.AccessTTL < 0 || c.RefreshTTL < 0 {
		errs = append(errs, errors.New("token TTLs must not be negative"))
	}

	return errors.Join(errs...)
}

// envSource looks variables up in the process environment first and then in
// a dotenv file.
type envSource struct {
	file map[string]string
}

func loadEnv(path string) (envSource, error) {
	file, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return envSource{}, nil
		}
		return envSource{}, fmt.Errorf("read env file %s: %w", path, err)
	}
	return envSource{file: file}, nil
}

func (e envSource) get(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return e.file[key]
}

func (e envSource) getOrDefault(key, defaultValue string) string {
	if value := e.get(key); value != "" {
		return value
	}
	return defaultValue
}

func (e envSource) getIntOrDefault(key string, defaultValue int) int {
	value := e.get(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func (e envSource) getBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(e.get(key)); err == nil {
		return b
	}
	return defaultValue
}

func (e envSource) getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := e.get(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getList splits a comma separated value, dropping empty entries.
func (e envSource) getList(key string) []string {
	var out []string
	for _, part := range strings.Split(e.get(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
