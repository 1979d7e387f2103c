package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration required by the BFF process.
// All values must come from env (or an optional .env file in local dev).
// No business logic should depend on raw environment variables.
type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type UpstreamConfig struct {
	// BaseURL selects the upstream storefront API.
	// Defaults to the local development backend when unset.
	BaseURL string

	RequestTimeout time.Duration
}

type RedisConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	// JWTSecret verifies session tokens issued by the upstream auth service.
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
}

type CacheConfig struct {
	// RevalidateWindow is how long a cached upstream payload is served
	// without a background refresh.
	RevalidateWindow time.Duration

	// HardTTL is the point past which a cached payload is treated as a miss.
	HardTTL time.Duration
}

const defaultUpstreamBaseURL = "http://localhost:8000"

func Load() (Config, error) {
	// Optional env file; real deployments inject env directly.
	_ = godotenv.Load()

	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.Upstream.BaseURL = strings.TrimSpace(os.Getenv("UPSTREAM_API_URL"))
	c.Upstream.RequestTimeout = optionalDuration("UPSTREAM_REQUEST_TIMEOUT")

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.Redis.Host != "" {
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth.JWTSecret = os.Getenv("SESSION_JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("SESSION_JWT_ISSUER"))
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("SESSION_JWT_AUDIENCE"))

	c.Cache.RevalidateWindow = optionalDuration("CACHE_REVALIDATE_WINDOW")
	c.Cache.HardTTL = optionalDuration("CACHE_HARD_TTL")

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Upstream.BaseURL == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("UPSTREAM_API_URL is required in production"))
		} else {
			// Local-friendly default; production must be explicit.
			c.Upstream.BaseURL = defaultUpstreamBaseURL
		}
	}
	if c.Upstream.BaseURL != "" {
		u, err := url.Parse(c.Upstream.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("UPSTREAM_API_URL must be an absolute URL, got %q", c.Upstream.BaseURL))
		}
	}
	if c.Upstream.RequestTimeout <= 0 {
		c.Upstream.RequestTimeout = 10 * time.Second
	}

	// Redis is optional: when unset the process runs on the in-memory
	// cache store, which is fine for local dev and tests.
	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}
	if c.IsProduction() && c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required in production"))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("SESSION_JWT_SECRET is required"))
	}
	if c.IsProduction() {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("SESSION_JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("SESSION_JWT_AUDIENCE is required in production"))
		}
	}

	if c.Cache.RevalidateWindow <= 0 {
		// Categories and other reference data change rarely; 5 minutes
		// keeps upstream load low while staying eventually fresh.
		c.Cache.RevalidateWindow = 5 * time.Minute
	}
	if c.Cache.HardTTL <= 0 {
		c.Cache.HardTTL = 24 * time.Hour
	}
	if c.Cache.HardTTL <= c.Cache.RevalidateWindow {
		errs = append(errs, errors.New("CACHE_HARD_TTL must be greater than CACHE_REVALIDATE_WINDOW"))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
